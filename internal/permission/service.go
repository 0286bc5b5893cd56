package permission

import (
	"context"
	"time"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
	"github.com/codechella/console-backend/internal/rolewatch"
)

// Status is what the storefront status page renders: the locally
// stored request slot reconciled against the backend's answer.
type Status struct {
	HasRequest  bool       `json:"hasRequest"`
	Status      string     `json:"status,omitempty"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	Notified    bool       `json:"notified,omitempty"`
}

type Service interface {
	Submit(ctx context.Context, sess rolewatch.Session, motivo, ip string) (*gateway.Solicitacao, error)
	MyStatus(ctx context.Context, sess rolewatch.Session) (*Status, error)
	ClearMine(ctx context.Context, userID uint) error

	Pending(ctx context.Context, token string) ([]gateway.Solicitacao, error)
	Approve(ctx context.Context, id uint, token string, superAdminID uint, ip string) (*gateway.Solicitacao, error)
	Deny(ctx context.Context, id uint, motivo, token string, superAdminID uint, ip string) (*gateway.Solicitacao, error)
}

type service struct {
	gw             *gateway.Client
	prefs          prefs.Store
	watch          *rolewatch.Manager
	audit          auditlog.Service
	statusInterval time.Duration
}

func NewService(gw *gateway.Client, store prefs.Store, watch *rolewatch.Manager, audit auditlog.Service, statusInterval time.Duration) Service {
	return &service{gw: gw, prefs: store, watch: watch, audit: audit, statusInterval: statusInterval}
}

// Submit files the request with the backend, records the local slot
// and starts the promotion watcher for this user.
func (s *service) Submit(ctx context.Context, sess rolewatch.Session, motivo, ip string) (*gateway.Solicitacao, error) {
	sol, err := s.gw.RequestAdminPermission(ctx, sess.UserID, motivo, sess.Token)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	_ = s.audit.LogAction(ctx, &sess.UserID, nil, auditlog.ActionPermissionRequest, map[string]interface{}{"motivo": motivo}, ip, status)
	if err != nil {
		return nil, err
	}

	slot := &prefs.AdminSolicitation{
		UserID:      sess.UserID,
		UserName:    sess.Nome,
		Status:      prefs.StatusPendente,
		RequestedAt: time.Now(),
	}
	if err := s.prefs.SaveSolicitation(ctx, slot); err != nil {
		return nil, err
	}

	s.watch.Ensure(sess)
	return sol, nil
}

// MyStatus reports the stored slot. While the request is still open the
// status page is in front of the user, so the watcher is re-armed at the
// faster status-page cadence for as long as the page keeps asking.
func (s *service) MyStatus(ctx context.Context, sess rolewatch.Session) (*Status, error) {
	slot, err := s.prefs.GetSolicitation(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return &Status{HasRequest: false}, nil
	}

	if slot.Status == prefs.StatusPendente && !sess.Elevated() {
		s.watch.EnsureAt(sess, s.statusInterval)
	}

	requestedAt := slot.RequestedAt
	return &Status{
		HasRequest:  true,
		Status:      slot.Status,
		RequestedAt: &requestedAt,
		Notified:    slot.Notified,
	}, nil
}

// ClearMine drops the stored slot once the user acknowledged a
// terminal outcome, freeing them to file a new request.
func (s *service) ClearMine(ctx context.Context, userID uint) error {
	s.watch.Stop(userID)
	return s.prefs.ClearSolicitation(ctx, userID)
}

func (s *service) Pending(ctx context.Context, token string) ([]gateway.Solicitacao, error) {
	return s.gw.PendingRequests(ctx, token)
}

func (s *service) Approve(ctx context.Context, id uint, token string, superAdminID uint, ip string) (*gateway.Solicitacao, error) {
	sol, err := s.gw.ApproveRequest(ctx, id, token, superAdminID)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	details := map[string]interface{}{"solicitacao_id": id}
	_ = s.audit.LogAction(ctx, &superAdminID, nil, auditlog.ActionPermissionApprove, details, ip, status)
	return sol, err
}

func (s *service) Deny(ctx context.Context, id uint, motivo, token string, superAdminID uint, ip string) (*gateway.Solicitacao, error) {
	sol, err := s.gw.DenyRequest(ctx, id, motivo, token, superAdminID)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	details := map[string]interface{}{"solicitacao_id": id, "motivo": motivo}
	_ = s.audit.LogAction(ctx, &superAdminID, nil, auditlog.ActionPermissionDeny, details, ip, status)
	return sol, err
}
