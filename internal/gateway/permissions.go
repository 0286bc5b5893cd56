package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// RequestAdminPermission submits a role-elevation request for the user.
// The backend expects the requester echoed in a usuario-id header.
func (c *Client) RequestAdminPermission(ctx context.Context, usuarioID uint, motivo, token string) (*Solicitacao, error) {
	var solicitacao Solicitacao
	extra := map[string]string{"usuario-id": strconv.FormatUint(uint64(usuarioID), 10)}
	body := map[string]string{"motivo": motivo}
	if err := c.doJSON(ctx, "POST", "/permissoes/solicitar", token, extra, body, &solicitacao, "Erro ao solicitar permissão"); err != nil {
		return nil, err
	}
	return &solicitacao, nil
}

// MyRequests lists the caller's own role requests, oldest first
func (c *Client) MyRequests(ctx context.Context, usuarioID uint, token string) ([]Solicitacao, error) {
	var solicitacoes []Solicitacao
	extra := map[string]string{"usuario-id": strconv.FormatUint(uint64(usuarioID), 10)}
	if err := c.doJSON(ctx, "GET", "/permissoes/minhas-solicitacoes", token, extra, nil, &solicitacoes, "Erro ao buscar minhas solicitações"); err != nil {
		return nil, err
	}
	return solicitacoes, nil
}

// CheckRequestStatus returns the status of the user's most recent
// request, or nil on any failure. Background pollers rely on the
// nil-on-failure contract to stay silent and retry on the next tick.
func (c *Client) CheckRequestStatus(ctx context.Context, usuarioID uint, token string) (*StatusSolicitacao, error) {
	solicitacoes, err := c.MyRequests(ctx, usuarioID, token)
	if err != nil {
		return nil, nil
	}
	if len(solicitacoes) == 0 {
		return nil, nil
	}
	ultima := solicitacoes[len(solicitacoes)-1]
	return &StatusSolicitacao{Status: ultima.Status}, nil
}

// PendingRequests lists every request awaiting approval (the REST shape
// of the pending-requests topic; also the poll-fallback resource)
func (c *Client) PendingRequests(ctx context.Context, token string) ([]Solicitacao, error) {
	var solicitacoes []Solicitacao
	extra := map[string]string{"Accept": "application/json"}
	if err := c.doJSON(ctx, "GET", "/permissoes/pendentes", token, extra, nil, &solicitacoes, "Erro ao buscar solicitações pendentes"); err != nil {
		return nil, err
	}
	return solicitacoes, nil
}

// ApproveRequest approves a pending request as the given super admin
func (c *Client) ApproveRequest(ctx context.Context, id uint, token string, superAdminID uint) (*Solicitacao, error) {
	var solicitacao Solicitacao
	extra := map[string]string{}
	if superAdminID != 0 {
		extra["super-admin-id"] = strconv.FormatUint(uint64(superAdminID), 10)
	}
	path := fmt.Sprintf("/permissoes/%d/aprovar", id)
	if err := c.doJSON(ctx, "PUT", path, token, extra, nil, &solicitacao, "Erro ao aprovar"); err != nil {
		return nil, err
	}
	return &solicitacao, nil
}

// DenyRequest denies a pending request, optionally carrying a reason
func (c *Client) DenyRequest(ctx context.Context, id uint, motivo, token string, superAdminID uint) (*Solicitacao, error) {
	var solicitacao Solicitacao
	extra := map[string]string{}
	if superAdminID != 0 {
		extra["super-admin-id"] = strconv.FormatUint(uint64(superAdminID), 10)
	}
	path := fmt.Sprintf("/permissoes/%d/negar?motivo=%s", id, url.QueryEscape(motivo))
	if err := c.doJSON(ctx, "PUT", path, token, extra, nil, &solicitacao, "Erro ao negar"); err != nil {
		return nil, err
	}
	return &solicitacao, nil
}
