package gateway

import (
	"context"
	"fmt"
)

// CreateAdmin creates a new admin account
func (c *Client) CreateAdmin(ctx context.Context, dto *AdminDTO, token string) (*Usuario, error) {
	var usuario Usuario
	if err := c.doJSON(ctx, "POST", "/super-admin/criar/admin", token, nil, dto, &usuario, "Erro ao criar admin"); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// ListAdmins lists every admin account
func (c *Client) ListAdmins(ctx context.Context, token string) ([]Usuario, error) {
	var admins []Usuario
	if err := c.doJSON(ctx, "GET", "/super-admin/listar/admins", token, nil, nil, &admins, "Erro ao listar admins"); err != nil {
		return nil, err
	}
	return admins, nil
}

// RemoveAdmin deletes an admin account
func (c *Client) RemoveAdmin(ctx context.Context, id uint, token string) error {
	path := fmt.Sprintf("/super-admin/remover/admin/%d", id)
	return c.doJSON(ctx, "DELETE", path, token, nil, nil, nil, "Erro ao remover admin")
}

// ListUsers lists every storefront user
func (c *Client) ListUsers(ctx context.Context, token string) ([]Usuario, error) {
	var usuarios []Usuario
	if err := c.doJSON(ctx, "GET", "/super-admin/listar/usuarios", token, nil, nil, &usuarios, "Erro ao listar usuários"); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// RemoveUser deletes a storefront user
func (c *Client) RemoveUser(ctx context.Context, id uint, token string) error {
	path := fmt.Sprintf("/super-admin/remover/usuario/%d", id)
	return c.doJSON(ctx, "DELETE", path, token, nil, nil, nil, "Erro ao remover usuário")
}

// DeleteAnyEvent removes any event regardless of creator
func (c *Client) DeleteAnyEvent(ctx context.Context, id uint, token string) error {
	path := fmt.Sprintf("/super-admin/eventos/%d", id)
	return c.doJSON(ctx, "DELETE", path, token, nil, nil, nil, "Erro ao excluir evento")
}

// PromoteToAdmin elevates a user to the ADMIN tier
func (c *Client) PromoteToAdmin(ctx context.Context, id uint, token string) (*Usuario, error) {
	var usuario Usuario
	path := fmt.Sprintf("/super-admin/promover/admin/%d", id)
	if err := c.doJSON(ctx, "PUT", path, token, nil, nil, &usuario, "Erro ao promover para admin"); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// DemoteToUser lowers an admin back to the USER tier
func (c *Client) DemoteToUser(ctx context.Context, id uint, token string) (*Usuario, error) {
	var usuario Usuario
	path := fmt.Sprintf("/super-admin/rebaixar/user/%d", id)
	if err := c.doJSON(ctx, "PUT", path, token, nil, nil, &usuario, "Erro ao rebaixar para user"); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// ListDeletedUsers lists soft-deleted user accounts
func (c *Client) ListDeletedUsers(ctx context.Context, token string) ([]Usuario, error) {
	var usuarios []Usuario
	if err := c.doJSON(ctx, "GET", "/super-admin/usuarios-excluidos", token, nil, nil, &usuarios, "Erro ao listar usuários excluídos"); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// ListCancelledEvents lists a user's cancelled events
func (c *Client) ListCancelledEvents(ctx context.Context, usuarioID uint, token string) ([]Evento, error) {
	var eventos []Evento
	path := fmt.Sprintf("/super-admin/eventos-cancelados/%d", usuarioID)
	if err := c.doJSON(ctx, "GET", path, token, nil, nil, &eventos, "Erro ao listar eventos cancelados"); err != nil {
		return nil, err
	}
	return eventos, nil
}

// ReactivateEvent restores a cancelled event
func (c *Client) ReactivateEvent(ctx context.Context, id uint, token string) (*Evento, error) {
	var evento Evento
	path := fmt.Sprintf("/super-admin/reativar-evento/%d", id)
	if err := c.doJSON(ctx, "PUT", path, token, nil, nil, &evento, "Erro ao reativar evento"); err != nil {
		return nil, err
	}
	return &evento, nil
}
