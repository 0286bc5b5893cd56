package rolewatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
)

type fakeChecker struct {
	mu       sync.Mutex
	statuses []string
	err      error
	calls    int
}

func (f *fakeChecker) CheckRequestStatus(ctx context.Context, usuarioID uint, token string) (*gateway.StatusSolicitacao, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.statuses) == 0 {
		return nil, nil
	}
	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return &gateway.StatusSolicitacao{Status: status}, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []uint
}

func (f *fakeNotifier) PromotionApproved(ctx context.Context, userID uint, userName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func pendingSlot(t *testing.T, store prefs.Store, userID uint, name string) {
	t.Helper()
	err := store.SaveSolicitation(context.Background(), &prefs.AdminSolicitation{
		UserID:      userID,
		UserName:    name,
		Status:      prefs.StatusPendente,
		RequestedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("SaveSolicitation: %v", err)
	}
}

func TestReconcileNoSlotIsNoop(t *testing.T) {
	store := prefs.NewMemoryStore()
	w := New(&fakeChecker{}, store, &fakeNotifier{}, Session{UserID: 7, Role: "USER"}, time.Second)

	if got := w.Reconcile(context.Background()); got != OutcomeNoop {
		t.Fatalf("outcome = %v, want noop", got)
	}
}

func TestReconcileApprovalSignalsOnce(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{statuses: []string{prefs.StatusAprovada}}
	notifier := &fakeNotifier{}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, notifier, Session{UserID: 7, Nome: "Maria", Role: "USER", Token: "tk"}, time.Second)

	if got := w.Reconcile(context.Background()); got != OutcomeTerminal {
		t.Fatalf("outcome = %v, want terminal", got)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.count())
	}

	slot, _ := store.GetSolicitation(context.Background(), 7)
	if slot == nil || slot.Status != prefs.StatusAprovada {
		t.Fatalf("slot = %+v, want APROVADA", slot)
	}
	if !slot.Notified {
		t.Fatal("slot not marked notified")
	}

	// A later reconcile of the same terminal slot stays quiet.
	if got := w.Reconcile(context.Background()); got != OutcomeTerminal {
		t.Fatalf("second outcome = %v, want terminal", got)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier calls after second reconcile = %d, want 1", notifier.count())
	}
}

func TestReconcileApprovedSlotUnconsumedNoticeFires(t *testing.T) {
	store := prefs.NewMemoryStore()
	notifier := &fakeNotifier{}
	_ = store.SaveSolicitation(context.Background(), &prefs.AdminSolicitation{
		UserID:      7,
		UserName:    "Maria",
		Status:      prefs.StatusAprovada,
		RequestedAt: time.Now(),
	})

	w := New(&fakeChecker{}, store, notifier, Session{UserID: 7, Nome: "Maria", Role: "USER"}, time.Second)
	if got := w.Reconcile(context.Background()); got != OutcomeTerminal {
		t.Fatalf("outcome = %v, want terminal", got)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.count())
	}
}

func TestReconcileDenialStaysSilent(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{statuses: []string{prefs.StatusNegada}}
	notifier := &fakeNotifier{}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, notifier, Session{UserID: 7, Role: "USER", Token: "tk"}, time.Second)
	if got := w.Reconcile(context.Background()); got != OutcomeTerminal {
		t.Fatalf("outcome = %v, want terminal", got)
	}
	if notifier.count() != 0 {
		t.Fatalf("notifier calls = %d, want 0 on denial", notifier.count())
	}

	slot, _ := store.GetSolicitation(context.Background(), 7)
	if slot == nil || slot.Status != prefs.StatusNegada {
		t.Fatalf("slot = %+v, want NEGADA", slot)
	}
}

func TestReconcileBackendFailureKeepsPending(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{err: errors.New("backend down")}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, &fakeNotifier{}, Session{UserID: 7, Role: "USER", Token: "tk"}, time.Second)
	if got := w.Reconcile(context.Background()); got != OutcomeStale {
		t.Fatalf("outcome = %v, want stale", got)
	}

	slot, _ := store.GetSolicitation(context.Background(), 7)
	if slot == nil || slot.Status != prefs.StatusPendente {
		t.Fatalf("slot = %+v, want PENDENTE retained", slot)
	}
}

func TestReconcileElevatedSessionSettlesWithoutNotice(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{}
	notifier := &fakeNotifier{}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, notifier, Session{UserID: 7, Nome: "Maria", Role: "ADMIN", Token: "tk"}, time.Second)
	if got := w.Reconcile(context.Background()); got != OutcomeTerminal {
		t.Fatalf("outcome = %v, want terminal", got)
	}
	if notifier.count() != 0 {
		t.Fatalf("notifier calls = %d, want 0 for guard rail", notifier.count())
	}
	if checker.calls != 0 {
		t.Fatalf("checker calls = %d, want 0 for guard rail", checker.calls)
	}

	slot, _ := store.GetSolicitation(context.Background(), 7)
	if slot == nil || slot.Status != prefs.StatusAprovada || !slot.Notified {
		t.Fatalf("slot = %+v, want consumed APROVADA", slot)
	}
}

func TestReconcileForeignSlotIgnored(t *testing.T) {
	store := prefs.NewMemoryStore()
	pendingSlot(t, store, 99, "Outro")

	w := New(&fakeChecker{}, store, &fakeNotifier{}, Session{UserID: 7, Role: "USER"}, time.Second)
	if got := w.Reconcile(context.Background()); got != OutcomeNoop {
		t.Fatalf("outcome = %v, want noop for another user's slot", got)
	}
}

func TestReconcileStillPendingKeepsPolling(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{statuses: []string{prefs.StatusPendente}}
	notifier := &fakeNotifier{}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, notifier, Session{UserID: 7, Role: "USER", Token: "tk"}, time.Second)
	if got := w.Reconcile(context.Background()); got != OutcomePending {
		t.Fatalf("outcome = %v, want pending while the backend still reports PENDENTE", got)
	}
	if notifier.count() != 0 {
		t.Fatalf("notifier calls = %d, want 0", notifier.count())
	}

	slot, _ := store.GetSolicitation(context.Background(), 7)
	if slot == nil || slot.Status != prefs.StatusPendente {
		t.Fatalf("slot = %+v, want PENDENTE retained", slot)
	}
}

func TestRunKeepsPollingWhileBackendPending(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{statuses: []string{prefs.StatusPendente, prefs.StatusPendente, prefs.StatusAprovada}}
	notifier := &fakeNotifier{}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, notifier, Session{UserID: 7, Nome: "Maria", Role: "USER", Token: "tk"}, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run gave up before the backend flipped to APROVADA")
	}

	slot, _ := store.GetSolicitation(context.Background(), 7)
	if slot == nil || slot.Status != prefs.StatusAprovada {
		t.Fatalf("slot = %+v, want APROVADA after the backend flips", slot)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.count())
	}
	checker.mu.Lock()
	calls := checker.calls
	checker.mu.Unlock()
	if calls < 3 {
		t.Fatalf("checker calls = %d, want the poll to keep ticking", calls)
	}
}

func TestRunStopsOnTerminal(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{statuses: []string{prefs.StatusAprovada}}
	pendingSlot(t, store, 7, "Maria")

	w := New(checker, store, &fakeNotifier{}, Session{UserID: 7, Role: "USER", Token: "tk"}, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after terminal outcome")
	}
}

func TestManagerEnsureAtUsesGivenInterval(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{statuses: []string{prefs.StatusPendente, prefs.StatusAprovada}}
	pendingSlot(t, store, 7, "Maria")

	// Base cadence far too slow to matter; only the fast cadence handed
	// to EnsureAt can drive the second check within the deadline.
	m := NewManager(checker, store, &fakeNotifier{}, time.Hour)
	defer m.StopAll()

	m.EnsureAt(Session{UserID: 7, Nome: "Maria", Role: "USER", Token: "tk"}, 5*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for {
		slot, _ := store.GetSolicitation(context.Background(), 7)
		if slot != nil && slot.Status == prefs.StatusAprovada {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("slot = %+v, want APROVADA via the fast cadence", slot)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestManagerReplacesWatcherPerUser(t *testing.T) {
	store := prefs.NewMemoryStore()
	checker := &fakeChecker{err: errors.New("backend down")} // keeps watchers alive
	pendingSlot(t, store, 7, "Maria")

	m := NewManager(checker, store, &fakeNotifier{}, 10*time.Millisecond)
	defer m.StopAll()

	sess := Session{UserID: 7, Nome: "Maria", Role: "USER", Token: "tk"}
	m.Ensure(sess)
	m.Ensure(sess)

	m.mu.Lock()
	running := len(m.running)
	m.mu.Unlock()
	if running != 1 {
		t.Fatalf("running watchers = %d, want 1", running)
	}

	m.Stop(7)
	m.mu.Lock()
	running = len(m.running)
	m.mu.Unlock()
	if running != 0 {
		t.Fatalf("running watchers after Stop = %d, want 0", running)
	}
}
