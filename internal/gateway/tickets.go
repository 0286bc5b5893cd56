package gateway

import (
	"context"
	"fmt"
)

// CreateTicket registers a ticket batch for an event
func (c *Client) CreateTicket(ctx context.Context, req *IngressoRequest, token string) (*Ingresso, error) {
	var ingresso Ingresso
	if err := c.doJSON(ctx, "POST", "/ingressos", token, nil, req, &ingresso, "Erro ao cadastrar ingresso"); err != nil {
		return nil, err
	}
	return &ingresso, nil
}

// GetTicketByEvent fetches the ticket record of an event, nil when absent
func (c *Client) GetTicketByEvent(ctx context.Context, eventoID uint, token string) (*Ingresso, error) {
	var ingresso Ingresso
	path := fmt.Sprintf("/ingressos/evento/%d", eventoID)
	err := c.doJSON(ctx, "GET", path, token, nil, nil, &ingresso, "Erro ao buscar ingresso")
	if err != nil {
		if _, ok := err.(*APIError); ok {
			return nil, nil
		}
		return nil, err
	}
	return &ingresso, nil
}

// UpdateTicket replaces a ticket record
func (c *Client) UpdateTicket(ctx context.Context, id uint, req *IngressoRequest, token string) (*Ingresso, error) {
	var ingresso Ingresso
	path := fmt.Sprintf("/ingressos/%d", id)
	if err := c.doJSON(ctx, "PUT", path, token, nil, req, &ingresso, "Erro ao atualizar ingresso"); err != nil {
		return nil, err
	}
	return &ingresso, nil
}

// PurchaseTicket buys quantidade tickets for an event
func (c *Client) PurchaseTicket(ctx context.Context, eventoID uint, quantidade int, token string) (*Ingresso, error) {
	var ingresso Ingresso
	path := fmt.Sprintf("/ingressos/comprar?eventoId=%d&quantidade=%d", eventoID, quantidade)
	if err := c.doJSON(ctx, "POST", path, token, nil, nil, &ingresso, "Erro ao comprar ingresso"); err != nil {
		return nil, err
	}
	return &ingresso, nil
}

// CancelTicket cancels a purchased ticket
func (c *Client) CancelTicket(ctx context.Context, id uint, token string) (*Ingresso, error) {
	var ingresso Ingresso
	path := fmt.Sprintf("/ingressos/Cancelar/%d", id)
	if err := c.doJSON(ctx, "PUT", path, token, nil, nil, &ingresso, "Erro ao cancelar ingresso"); err != nil {
		return nil, err
	}
	return &ingresso, nil
}
