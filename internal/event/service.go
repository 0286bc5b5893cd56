package event

import (
	"context"
	"strings"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
)

type Service interface {
	List(ctx context.Context) []gateway.Evento
	ListByCategory(ctx context.Context, categoria, token string) ([]gateway.Evento, error)
	Get(ctx context.Context, id uint) (*gateway.Evento, error)

	Create(ctx context.Context, token string, req gateway.EventoRequest, userID uint, ip string) (*gateway.Evento, error)
	Update(ctx context.Context, token string, id uint, req gateway.EventoRequest, userID uint, ip string) (*gateway.Evento, error)
	Delete(ctx context.Context, token string, id uint, asAdmin bool, userID uint, ip string) error
	Cancel(ctx context.Context, token string, id uint, userID uint, ip string) error

	SetImageOverride(ctx context.Context, eventID uint, url string, userID uint, ip string) error
	ClearImageOverride(ctx context.Context, eventID uint, userID uint, ip string) error

	Refresh(ctx context.Context) feed.Outcome
}

type service struct {
	gw    *gateway.Client
	feed  *feed.Feed
	prefs prefs.Store
	audit auditlog.Service
}

func NewService(gw *gateway.Client, f *feed.Feed, store prefs.Store, audit auditlog.Service) Service {
	return &service{gw: gw, feed: f, prefs: store, audit: audit}
}

// decorate fills the display image in on the way out, so every caller
// sees the same resolution order.
func (s *service) decorate(ctx context.Context, ev gateway.Evento) gateway.Evento {
	ev.ImagemURL = ResolveImage(ctx, s.prefs, ev)
	return ev
}

// List serves the synchronized feed. No backend round trip per request.
func (s *service) List(ctx context.Context) []gateway.Evento {
	eventos := s.feed.Snapshot()
	for i := range eventos {
		eventos[i] = s.decorate(ctx, eventos[i])
	}
	return eventos
}

func (s *service) ListByCategory(ctx context.Context, categoria, token string) ([]gateway.Evento, error) {
	eventos, err := s.gw.GetEventsByCategory(ctx, strings.ToUpper(categoria), token)
	if err != nil {
		return nil, err
	}
	for i := range eventos {
		eventos[i] = s.decorate(ctx, eventos[i])
	}
	return eventos, nil
}

func (s *service) Get(ctx context.Context, id uint) (*gateway.Evento, error) {
	if ev, ok := s.feed.Get(id); ok {
		decorated := s.decorate(ctx, ev)
		return &decorated, nil
	}
	ev, err := s.gw.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	decorated := s.decorate(ctx, *ev)
	return &decorated, nil
}

func (s *service) Create(ctx context.Context, token string, req gateway.EventoRequest, userID uint, ip string) (*gateway.Evento, error) {
	ev, err := s.gw.CreateEvent(ctx, &req, token)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	var eventID *uint
	details := map[string]interface{}{"nome": req.Nome}
	if ev != nil {
		eventID = &ev.ID
		s.feed.Apply(*ev)
	}
	_ = s.audit.LogAction(ctx, &userID, eventID, auditlog.ActionEventCreate, details, ip, status)
	return ev, err
}

func (s *service) Update(ctx context.Context, token string, id uint, req gateway.EventoRequest, userID uint, ip string) (*gateway.Evento, error) {
	ev, err := s.gw.UpdateEvent(ctx, id, &req, token)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	if ev != nil {
		s.feed.Apply(*ev)
	}
	_ = s.audit.LogAction(ctx, &userID, &id, auditlog.ActionEventUpdate, map[string]interface{}{"nome": req.Nome}, ip, status)
	return ev, err
}

func (s *service) Delete(ctx context.Context, token string, id uint, asAdmin bool, userID uint, ip string) error {
	var err error
	if asAdmin {
		err = s.gw.DeleteEventAsAdmin(ctx, id, token)
	} else {
		err = s.gw.DeleteEvent(ctx, id, token)
	}
	status := auditlog.StatusSuccess
	if err == nil {
		// The backend pushes the deletion through the stream as well;
		// a refresh keeps the feed honest if that frame is missed.
		s.Refresh(ctx)
	} else {
		status = auditlog.StatusFailure
	}
	_ = s.audit.LogAction(ctx, &userID, &id, auditlog.ActionEventDelete, nil, ip, status)
	return err
}

func (s *service) Cancel(ctx context.Context, token string, id uint, userID uint, ip string) error {
	err := s.gw.CancelEvent(ctx, id, token)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	_ = s.audit.LogAction(ctx, &userID, &id, auditlog.ActionEventCancel, nil, ip, status)
	return err
}

func (s *service) SetImageOverride(ctx context.Context, eventID uint, url string, userID uint, ip string) error {
	err := s.prefs.SaveCustomImage(ctx, eventID, url)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	_ = s.audit.LogAction(ctx, &userID, &eventID, auditlog.ActionImageOverride, map[string]interface{}{"url": url}, ip, status)
	return err
}

func (s *service) ClearImageOverride(ctx context.Context, eventID uint, userID uint, ip string) error {
	err := s.prefs.RemoveCustomImage(ctx, eventID)
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	_ = s.audit.LogAction(ctx, &userID, &eventID, auditlog.ActionImageOverride, map[string]interface{}{"cleared": true}, ip, status)
	return err
}

func (s *service) Refresh(ctx context.Context) feed.Outcome {
	return s.feed.Refresh(ctx)
}
