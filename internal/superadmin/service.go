package superadmin

import (
	"context"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
)

type Service interface {
	CreateAdmin(ctx context.Context, token string, dto gateway.AdminDTO, actorID uint, ip string) (*gateway.Usuario, error)
	ListAdmins(ctx context.Context, token string) ([]gateway.Usuario, error)
	RemoveAdmin(ctx context.Context, token string, id uint, actorID uint, ip string) error

	ListUsers(ctx context.Context, token string) ([]gateway.Usuario, error)
	RemoveUser(ctx context.Context, token string, id uint, actorID uint, ip string) error
	ListDeletedUsers(ctx context.Context, token string) ([]gateway.Usuario, error)

	PromoteToAdmin(ctx context.Context, token string, id uint, actorID uint, ip string) (*gateway.Usuario, error)
	DemoteToUser(ctx context.Context, token string, id uint, actorID uint, ip string) (*gateway.Usuario, error)

	DeleteAnyEvent(ctx context.Context, token string, id uint, actorID uint, ip string) error
	ListCancelledEvents(ctx context.Context, token string, actorID uint) ([]gateway.Evento, error)
	ReactivateEvent(ctx context.Context, token string, id uint, actorID uint, ip string) (*gateway.Evento, error)
}

type service struct {
	gw    *gateway.Client
	feed  *feed.Feed
	audit auditlog.Service
}

func NewService(gw *gateway.Client, f *feed.Feed, audit auditlog.Service) Service {
	return &service{gw: gw, feed: f, audit: audit}
}

func (s *service) log(ctx context.Context, actorID uint, eventID *uint, action string, details map[string]interface{}, ip string, err error) {
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	_ = s.audit.LogAction(ctx, &actorID, eventID, action, details, ip, status)
}

func (s *service) CreateAdmin(ctx context.Context, token string, dto gateway.AdminDTO, actorID uint, ip string) (*gateway.Usuario, error) {
	admin, err := s.gw.CreateAdmin(ctx, &dto, token)
	s.log(ctx, actorID, nil, auditlog.ActionAdminCreate, map[string]interface{}{"email": dto.Email}, ip, err)
	return admin, err
}

func (s *service) ListAdmins(ctx context.Context, token string) ([]gateway.Usuario, error) {
	return s.gw.ListAdmins(ctx, token)
}

func (s *service) RemoveAdmin(ctx context.Context, token string, id uint, actorID uint, ip string) error {
	err := s.gw.RemoveAdmin(ctx, id, token)
	s.log(ctx, actorID, nil, auditlog.ActionAdminRemove, map[string]interface{}{"admin_id": id}, ip, err)
	return err
}

func (s *service) ListUsers(ctx context.Context, token string) ([]gateway.Usuario, error) {
	return s.gw.ListUsers(ctx, token)
}

func (s *service) RemoveUser(ctx context.Context, token string, id uint, actorID uint, ip string) error {
	err := s.gw.RemoveUser(ctx, id, token)
	s.log(ctx, actorID, nil, auditlog.ActionUserRemove, map[string]interface{}{"user_id": id}, ip, err)
	return err
}

func (s *service) ListDeletedUsers(ctx context.Context, token string) ([]gateway.Usuario, error) {
	return s.gw.ListDeletedUsers(ctx, token)
}

func (s *service) PromoteToAdmin(ctx context.Context, token string, id uint, actorID uint, ip string) (*gateway.Usuario, error) {
	user, err := s.gw.PromoteToAdmin(ctx, id, token)
	s.log(ctx, actorID, nil, auditlog.ActionUserPromote, map[string]interface{}{"user_id": id}, ip, err)
	return user, err
}

func (s *service) DemoteToUser(ctx context.Context, token string, id uint, actorID uint, ip string) (*gateway.Usuario, error) {
	user, err := s.gw.DemoteToUser(ctx, id, token)
	s.log(ctx, actorID, nil, auditlog.ActionUserDemote, map[string]interface{}{"user_id": id}, ip, err)
	return user, err
}

func (s *service) DeleteAnyEvent(ctx context.Context, token string, id uint, actorID uint, ip string) error {
	err := s.gw.DeleteAnyEvent(ctx, id, token)
	if err == nil {
		s.feed.Refresh(ctx)
	}
	s.log(ctx, actorID, &id, auditlog.ActionEventDelete, nil, ip, err)
	return err
}

func (s *service) ListCancelledEvents(ctx context.Context, token string, actorID uint) ([]gateway.Evento, error) {
	return s.gw.ListCancelledEvents(ctx, actorID, token)
}

func (s *service) ReactivateEvent(ctx context.Context, token string, id uint, actorID uint, ip string) (*gateway.Evento, error) {
	ev, err := s.gw.ReactivateEvent(ctx, id, token)
	if ev != nil {
		s.feed.Apply(*ev)
	}
	s.log(ctx, actorID, &id, auditlog.ActionEventReactivate, nil, ip, err)
	return ev, err
}
