package ticket

import (
	"context"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/gateway"
)

type Service interface {
	Create(ctx context.Context, token string, req gateway.IngressoRequest) (*gateway.Ingresso, error)
	GetByEvent(ctx context.Context, token string, eventoID uint) (*gateway.Ingresso, error)
	Update(ctx context.Context, token string, id uint, req gateway.IngressoRequest) (*gateway.Ingresso, error)
	Purchase(ctx context.Context, token string, eventoID uint, quantidade int, userID uint, ip string) (*gateway.Ingresso, error)
	Cancel(ctx context.Context, token string, id uint, userID uint, ip string) (*gateway.Ingresso, error)
}

type service struct {
	gw    *gateway.Client
	audit auditlog.Service
}

func NewService(gw *gateway.Client, audit auditlog.Service) Service {
	return &service{gw: gw, audit: audit}
}

func (s *service) Create(ctx context.Context, token string, req gateway.IngressoRequest) (*gateway.Ingresso, error) {
	return s.gw.CreateTicket(ctx, &req, token)
}

func (s *service) GetByEvent(ctx context.Context, token string, eventoID uint) (*gateway.Ingresso, error) {
	return s.gw.GetTicketByEvent(ctx, eventoID, token)
}

func (s *service) Update(ctx context.Context, token string, id uint, req gateway.IngressoRequest) (*gateway.Ingresso, error) {
	return s.gw.UpdateTicket(ctx, id, &req, token)
}

func (s *service) Purchase(ctx context.Context, token string, eventoID uint, quantidade int, userID uint, ip string) (*gateway.Ingresso, error) {
	ingresso, err := s.gw.PurchaseTicket(ctx, eventoID, quantidade, token)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	details := map[string]interface{}{"quantidade": quantidade}
	_ = s.audit.LogAction(ctx, &userID, &eventoID, auditlog.ActionTicketPurchase, details, ip, status)
	return ingresso, err
}

func (s *service) Cancel(ctx context.Context, token string, id uint, userID uint, ip string) (*gateway.Ingresso, error) {
	ingresso, err := s.gw.CancelTicket(ctx, id, token)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	details := map[string]interface{}{"ingresso_id": id}
	_ = s.audit.LogAction(ctx, &userID, nil, auditlog.ActionTicketCancel, details, ip, status)
	return ingresso, err
}
