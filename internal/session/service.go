package session

import (
	"context"
	"errors"
	"time"

	"github.com/codechella/console-backend/config"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Service interface {
	Login(ctx context.Context, email, senha string) (string, *Access, error)
	Register(ctx context.Context, in gateway.RegisterRequest) error
	Resolve(ctx context.Context, consoleToken string) (*Access, error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	gw           *gateway.Client
	store        Store
	sealer       *Sealer
	accessSecret string
	accessTTL    time.Duration
}

func NewService(gw *gateway.Client, store Store, sealer *Sealer, cfg *config.Config) Service {
	return &service{
		gw:           gw,
		store:        store,
		sealer:       sealer,
		accessSecret: cfg.JWTAccessSecret,
		accessTTL:    time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
	}
}

// =============================
// Login
// =============================

// Login authenticates against the remote backend (super admin, then
// admin, then regular user), stores a session with the sealed backend
// token and returns a console JWT for the browser.
func (s *service) Login(ctx context.Context, email, senha string) (string, *Access, error) {
	result, err := s.gw.Login(ctx, email, senha)
	if err != nil {
		return "", nil, err
	}

	sealed, err := s.sealer.Seal(result.Token)
	if err != nil {
		return "", nil, err
	}

	sess := &Session{
		ID:          uuid.NewString(),
		UserID:      result.ID,
		Nome:        result.Nome,
		Email:       result.Email,
		Role:        result.TipoUsuario,
		SealedToken: sealed,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Save(ctx, sess, s.accessTTL); err != nil {
		return "", nil, err
	}

	consoleToken, err := s.generateAccessToken(sess)
	if err != nil {
		return "", nil, err
	}

	return consoleToken, &Access{
		SessionID:    sess.ID,
		UserID:       sess.UserID,
		Nome:         sess.Nome,
		Email:        sess.Email,
		Role:         sess.Role,
		BackendToken: result.Token,
	}, nil
}

func (s *service) generateAccessToken(sess *Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":     sess.ID,
		"user_id": sess.UserID,
		"role":    sess.Role,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

// =============================
// Register
// =============================

func (s *service) Register(ctx context.Context, in gateway.RegisterRequest) error {
	_, err := s.gw.RegisterUser(ctx, &in)
	return err
}

// =============================
// Resolve
// =============================

// Resolve validates a console JWT and loads the backing session.
func (s *service) Resolve(ctx context.Context, consoleToken string) (*Access, error) {
	token, err := jwt.Parse(consoleToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.accessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sid"] == nil {
		return nil, ErrInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	sess, err := s.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	backendToken, err := s.sealer.Open(sess.SealedToken)
	if err != nil {
		return nil, err
	}

	return &Access{
		SessionID:    sess.ID,
		UserID:       sess.UserID,
		Nome:         sess.Nome,
		Email:        sess.Email,
		Role:         sess.Role,
		BackendToken: backendToken,
	}, nil
}

// =============================
// Logout
// =============================

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
