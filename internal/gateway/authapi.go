package gateway

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned when every login tier rejected the caller
var ErrInvalidCredentials = errors.New("Email ou senha inválidos")

// ErrBackendUnavailable is returned when a login attempt timed out
var ErrBackendUnavailable = errors.New("Servidor indisponível. Tente novamente.")

type loginEndpoint struct {
	path string
	tipo string
}

// The three login tiers, tried in priority order. First success wins and
// its tier tags the session when the body does not declare tipoUsuario.
var loginEndpoints = []loginEndpoint{
	{path: "/auth/super-admin/login", tipo: "SUPER"},
	{path: "/auth/admin/login", tipo: "ADMIN"},
	{path: "/auth/usuario/login", tipo: "USER"},
}

// Login authenticates against the three backend tiers in order, each
// attempt bounded by LoginTimeout. A timeout surfaces as
// ErrBackendUnavailable; three rejections surface as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	body := map[string]string{"email": email, "senha": senha}

	for _, endpoint := range loginEndpoints {
		attemptCtx, cancel := context.WithTimeout(ctx, c.LoginTimeout)
		var result LoginResult
		err := c.doJSON(attemptCtx, "POST", endpoint.path, "", nil, body, &result, "Erro ao logar")
		cancel()

		if err == nil {
			if result.TipoUsuario == "" {
				result.TipoUsuario = endpoint.tipo
			}
			return &result, nil
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrBackendUnavailable
		}
		// HTTP rejection: fall through to the next tier
	}

	return nil, ErrInvalidCredentials
}

// RegisterUser creates a storefront user account
func (c *Client) RegisterUser(ctx context.Context, req *RegisterRequest) (*Usuario, error) {
	var usuario Usuario
	if err := c.doJSON(ctx, "POST", "/auth/usuario/registrar", "", nil, req, &usuario, "Erro ao cadastrar usuário"); err != nil {
		return nil, err
	}
	return &usuario, nil
}
