package permission

import (
	"context"
	"testing"
	"time"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
	"github.com/codechella/console-backend/internal/rolewatch"
)

type scriptedChecker struct {
	status string
}

func (s *scriptedChecker) CheckRequestStatus(ctx context.Context, usuarioID uint, token string) (*gateway.StatusSolicitacao, error) {
	return &gateway.StatusSolicitacao{Status: s.status}, nil
}

type noopNotifier struct{}

func (noopNotifier) PromotionApproved(ctx context.Context, userID uint, userName string) {}

type auditStub struct{}

func (auditStub) LogAction(ctx context.Context, userID *uint, eventID *uint, action string, details map[string]interface{}, ip string, status string) error {
	return nil
}

func (auditStub) GetAuditLogs(ctx context.Context, filter auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return &auditlog.PaginatedAuditLogs{}, nil
}

func (auditStub) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func TestMyStatusArmsStatusPageCadence(t *testing.T) {
	store := prefs.NewMemoryStore()
	ctx := context.Background()
	_ = store.SaveSolicitation(ctx, &prefs.AdminSolicitation{
		UserID:      7,
		UserName:    "Maria",
		Status:      prefs.StatusPendente,
		RequestedAt: time.Now(),
	})

	// Background cadence too slow to matter: only the status-page
	// cadence passed to the service can settle the slot in time.
	watch := rolewatch.NewManager(&scriptedChecker{status: prefs.StatusAprovada}, store, noopNotifier{}, time.Hour)
	defer watch.StopAll()

	svc := NewService(gateway.NewClient("http://backend.invalid"), store, watch, auditStub{}, 5*time.Millisecond)

	status, err := svc.MyStatus(ctx, rolewatch.Session{UserID: 7, Nome: "Maria", Role: "USER", Token: "tk"})
	if err != nil {
		t.Fatalf("MyStatus: %v", err)
	}
	if !status.HasRequest || status.Status != prefs.StatusPendente {
		t.Fatalf("status = %+v", status)
	}

	deadline := time.After(2 * time.Second)
	for {
		slot, _ := store.GetSolicitation(ctx, 7)
		if slot != nil && slot.Status == prefs.StatusAprovada {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("slot = %+v, want APROVADA via the status-page cadence", slot)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestMyStatusEmptySlot(t *testing.T) {
	store := prefs.NewMemoryStore()
	watch := rolewatch.NewManager(&scriptedChecker{status: prefs.StatusPendente}, store, noopNotifier{}, time.Hour)
	defer watch.StopAll()

	svc := NewService(gateway.NewClient("http://backend.invalid"), store, watch, auditStub{}, 5*time.Millisecond)

	status, err := svc.MyStatus(context.Background(), rolewatch.Session{UserID: 7, Role: "USER"})
	if err != nil {
		t.Fatalf("MyStatus: %v", err)
	}
	if status.HasRequest {
		t.Fatalf("status = %+v, want no request", status)
	}
}

func TestMyStatusTerminalSlotDoesNotRearm(t *testing.T) {
	store := prefs.NewMemoryStore()
	ctx := context.Background()
	_ = store.SaveSolicitation(ctx, &prefs.AdminSolicitation{
		UserID:      7,
		UserName:    "Maria",
		Status:      prefs.StatusNegada,
		RequestedAt: time.Now(),
		Notified:    false,
	})

	// Checker would flip the slot to APROVADA if any watcher ran.
	watch := rolewatch.NewManager(&scriptedChecker{status: prefs.StatusAprovada}, store, noopNotifier{}, time.Hour)
	defer watch.StopAll()

	svc := NewService(gateway.NewClient("http://backend.invalid"), store, watch, auditStub{}, time.Millisecond)

	status, err := svc.MyStatus(ctx, rolewatch.Session{UserID: 7, Nome: "Maria", Role: "USER", Token: "tk"})
	if err != nil {
		t.Fatalf("MyStatus: %v", err)
	}
	if status.Status != prefs.StatusNegada {
		t.Fatalf("status = %+v", status)
	}

	time.Sleep(50 * time.Millisecond)
	slot, _ := store.GetSolicitation(ctx, 7)
	if slot.Status != prefs.StatusNegada {
		t.Fatalf("slot = %+v, terminal slot must stay put", slot)
	}
}
