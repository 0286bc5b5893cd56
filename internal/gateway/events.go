package gateway

import (
	"context"
	"fmt"
	"net/url"
)

// GetAllEvents fetches every event. An unauthenticated caller receiving
// 401 (or a transport failure) gets an empty slice instead of an error:
// "not logged in" reads as "nothing to show". This is a documented
// deviation from the general error policy.
func (c *Client) GetAllEvents(ctx context.Context, token string) ([]Evento, error) {
	var eventos []Evento
	err := c.doJSON(ctx, "GET", "/eventos", token, nil, nil, &eventos, "Erro ao buscar eventos")
	if err != nil {
		if token == "" {
			if apiErr, ok := err.(*APIError); !ok || apiErr.Status == 401 {
				return []Evento{}, nil
			}
		}
		return nil, err
	}
	if eventos == nil {
		eventos = []Evento{}
	}
	return eventos, nil
}

// GetEventsByCategory fetches events of one category, with the same
// unauthenticated-401 special case as GetAllEvents.
func (c *Client) GetEventsByCategory(ctx context.Context, tipo, token string) ([]Evento, error) {
	var eventos []Evento
	path := "/eventos/categoria/" + url.PathEscape(tipo)
	err := c.doJSON(ctx, "GET", path, token, nil, nil, &eventos, "Erro ao buscar eventos por categoria")
	if err != nil {
		if token == "" {
			if apiErr, ok := err.(*APIError); ok && apiErr.Status == 401 {
				return []Evento{}, nil
			}
		}
		return nil, err
	}
	if eventos == nil {
		eventos = []Evento{}
	}
	return eventos, nil
}

// GetEvent fetches a single event by id
func (c *Client) GetEvent(ctx context.Context, id uint) (*Evento, error) {
	var evento Evento
	path := fmt.Sprintf("/eventos/%d", id)
	if err := c.doJSON(ctx, "GET", path, "", nil, nil, &evento, "Erro ao buscar evento"); err != nil {
		return nil, err
	}
	return &evento, nil
}

// CreateEvent registers a new event (admin bearer required)
func (c *Client) CreateEvent(ctx context.Context, req *EventoRequest, token string) (*Evento, error) {
	var evento Evento
	if err := c.doJSON(ctx, "POST", "/eventos", token, nil, req, &evento, "Erro ao cadastrar evento"); err != nil {
		return nil, err
	}
	return &evento, nil
}

// UpdateEvent replaces an event's data
func (c *Client) UpdateEvent(ctx context.Context, id uint, req *EventoRequest, token string) (*Evento, error) {
	var evento Evento
	path := fmt.Sprintf("/eventos/%d", id)
	if err := c.doJSON(ctx, "PUT", path, token, nil, req, &evento, "Erro ao atualizar evento"); err != nil {
		return nil, err
	}
	return &evento, nil
}

// DeleteEvent removes an event owned by the caller
func (c *Client) DeleteEvent(ctx context.Context, id uint, token string) error {
	path := fmt.Sprintf("/eventos/%d", id)
	return c.doJSON(ctx, "DELETE", path, token, nil, nil, nil, "Erro ao deletar evento")
}

// DeleteEventAsAdmin removes any event through the admin namespace
func (c *Client) DeleteEventAsAdmin(ctx context.Context, id uint, token string) error {
	path := fmt.Sprintf("/usuario/admin/eventos/%d", id)
	return c.doJSON(ctx, "DELETE", path, token, nil, nil, nil, "Erro ao deletar evento como admin")
}

// CancelEvent marks an event cancelled without removing it
func (c *Client) CancelEvent(ctx context.Context, id uint, token string) error {
	path := fmt.Sprintf("/eventos/%d/cancelar", id)
	return c.doJSON(ctx, "PATCH", path, token, nil, nil, nil, "Erro ao cancelar evento")
}
