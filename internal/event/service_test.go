package event

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
)

type auditSpy struct {
	mu      sync.Mutex
	actions []string
}

func (a *auditSpy) LogAction(ctx context.Context, userID *uint, eventID *uint, action string, details map[string]interface{}, ip string, status string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action+":"+status)
	return nil
}

func (a *auditSpy) GetAuditLogs(ctx context.Context, filter auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return &auditlog.PaginatedAuditLogs{}, nil
}

func (a *auditSpy) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func (a *auditSpy) has(entry string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, got := range a.actions {
		if got == entry {
			return true
		}
	}
	return false
}

type staticSource struct {
	eventos []gateway.Evento
}

func (s *staticSource) InitialEvents(ctx context.Context) ([]gateway.Evento, error) {
	return s.eventos, nil
}

func (s *staticSource) Subscribe(ctx context.Context, sink func(gateway.Evento)) *gateway.Subscription {
	return nil
}

func seededFeed(t *testing.T, eventos ...gateway.Evento) *feed.Feed {
	t.Helper()
	f := feed.New(&staticSource{eventos: eventos})
	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("feed start: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func TestListDecoratesImages(t *testing.T) {
	store := prefs.NewMemoryStore()
	_ = store.SaveCustomImage(context.Background(), 1, "https://cdn.example.com/custom.jpg")
	f := seededFeed(t,
		gateway.Evento{ID: 1, Nome: "Rock in Rio", Categoria: "SHOW"},
		gateway.Evento{ID: 2, Nome: "Hamlet", Categoria: "TEATRO"},
	)

	svc := NewService(gateway.NewClient("http://unused"), f, store, &auditSpy{})
	eventos := svc.List(context.Background())
	if len(eventos) != 2 {
		t.Fatalf("len = %d, want 2", len(eventos))
	}
	if eventos[0].ImagemURL != "https://cdn.example.com/custom.jpg" {
		t.Fatalf("image = %q, want the override applied", eventos[0].ImagemURL)
	}
	if eventos[1].ImagemURL == "" {
		t.Fatal("category default image missing")
	}
}

func TestGetPrefersFeedOverBackend(t *testing.T) {
	var backendHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
		json.NewEncoder(w).Encode(gateway.Evento{ID: 9, Nome: "Do backend"})
	}))
	defer srv.Close()

	f := seededFeed(t, gateway.Evento{ID: 1, Nome: "Do feed", Categoria: "SHOW"})
	svc := NewService(gateway.NewClient(srv.URL), f, prefs.NewMemoryStore(), &auditSpy{})

	ev, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ev.Nome != "Do feed" || backendHits != 0 {
		t.Fatalf("ev = %+v, backend hits = %d", ev, backendHits)
	}

	// Unknown id falls through to the backend
	ev, err = svc.Get(context.Background(), 9)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ev.Nome != "Do backend" || backendHits != 1 {
		t.Fatalf("ev = %+v, backend hits = %d", ev, backendHits)
	}
}

func TestCreateMergesAndAudits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.Evento{ID: 5, Nome: "Novo show", Categoria: "SHOW"})
	}))
	defer srv.Close()

	f := seededFeed(t)
	audit := &auditSpy{}
	svc := NewService(gateway.NewClient(srv.URL), f, prefs.NewMemoryStore(), audit)

	ev, err := svc.Create(context.Background(), "tk", gateway.EventoRequest{Nome: "Novo show"}, 3, "10.0.0.1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ev.ID != 5 {
		t.Fatalf("id = %d", ev.ID)
	}
	if _, ok := f.Get(5); !ok {
		t.Fatal("created event not merged into the feed")
	}
	if !audit.has(auditlog.ActionEventCreate + ":" + auditlog.StatusSuccess) {
		t.Fatalf("audit actions = %v", audit.actions)
	}
}

func TestCreateFailureAudited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Sem permissão"}`))
	}))
	defer srv.Close()

	audit := &auditSpy{}
	svc := NewService(gateway.NewClient(srv.URL), seededFeed(t), prefs.NewMemoryStore(), audit)

	if _, err := svc.Create(context.Background(), "tk", gateway.EventoRequest{Nome: "x"}, 3, "10.0.0.1"); err == nil {
		t.Fatal("backend rejection must surface")
	}
	if !audit.has(auditlog.ActionEventCreate + ":" + auditlog.StatusFailure) {
		t.Fatalf("audit actions = %v", audit.actions)
	}
}

func TestImageOverrideRoundTrip(t *testing.T) {
	store := prefs.NewMemoryStore()
	f := seededFeed(t, gateway.Evento{ID: 1, Nome: "Rock in Rio", Categoria: "SHOW"})
	svc := NewService(gateway.NewClient("http://unused"), f, store, &auditSpy{})

	if err := svc.SetImageOverride(context.Background(), 1, "https://cdn.example.com/a.jpg", 3, "10.0.0.1"); err != nil {
		t.Fatalf("SetImageOverride: %v", err)
	}
	ev, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ev.ImagemURL != "https://cdn.example.com/a.jpg" {
		t.Fatalf("image = %q", ev.ImagemURL)
	}

	if err := svc.ClearImageOverride(context.Background(), 1, 3, "10.0.0.1"); err != nil {
		t.Fatalf("ClearImageOverride: %v", err)
	}
	ev, _ = svc.Get(context.Background(), 1)
	if ev.ImagemURL == "https://cdn.example.com/a.jpg" {
		t.Fatal("override not cleared")
	}
}
