package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func testClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(srv.URL)
	return c, srv
}

func TestLoginTierPriority(t *testing.T) {
	var mu sync.Mutex
	var tried []string
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		tried = append(tried, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/auth/admin/login" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":3,"nome":"Ana","email":"ana@x.com","token":"tk-admin"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Credenciais inválidas"}`))
	}))
	defer srv.Close()

	result, err := c.Login(context.Background(), "ana@x.com", "senha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token != "tk-admin" {
		t.Fatalf("token = %q", result.Token)
	}
	// tipoUsuario absent from the body: the winning tier tags the session
	if result.TipoUsuario != "ADMIN" {
		t.Fatalf("tipoUsuario = %q, want ADMIN from endpoint tier", result.TipoUsuario)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"/auth/super-admin/login", "/auth/admin/login"}
	if len(tried) != 2 || tried[0] != want[0] || tried[1] != want[1] {
		t.Fatalf("endpoints tried = %v, want %v", tried, want)
	}
}

func TestLoginBodyTipoWins(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tk","tipoUsuario":"SUPER"}`))
	}))
	defer srv.Close()

	result, err := c.Login(context.Background(), "root@x.com", "senha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.TipoUsuario != "SUPER" {
		t.Fatalf("tipoUsuario = %q, want body value kept", result.TipoUsuario)
	}
}

func TestLoginAllTiersRejected(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := c.Login(context.Background(), "x@x.com", "errada")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c.LoginTimeout = 50 * time.Millisecond
	_, err := c.Login(context.Background(), "x@x.com", "senha")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestGetAllEventsUnauthenticated401ReadsEmpty(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id":1,"nome":"Rock in Rio"}]`))
	}))
	defer srv.Close()

	eventos, err := c.GetAllEvents(context.Background(), "")
	if err != nil {
		t.Fatalf("unauthenticated 401 should not error: %v", err)
	}
	if eventos == nil || len(eventos) != 0 {
		t.Fatalf("eventos = %v, want empty (non-nil) slice", eventos)
	}

	eventos, err = c.GetAllEvents(context.Background(), "tk")
	if err != nil {
		t.Fatalf("GetAllEvents: %v", err)
	}
	if len(eventos) != 1 || eventos[0].Nome != "Rock in Rio" {
		t.Fatalf("eventos = %+v", eventos)
	}
}

func TestGetAllEventsAuthenticatedErrorSurfaces(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Erro interno"}`))
	}))
	defer srv.Close()

	_, err := c.GetAllEvents(context.Background(), "tk")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != 500 || apiErr.Message != "Erro interno" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Evento não encontrado"}`, "Evento não encontrado"},
		{"error field", `{"error":"Sem permissão"}`, "Sem permissão"},
		{"unparseable body", `<html>oops</html>`, "Erro ao buscar evento"},
		{"empty body", ``, "Erro ao buscar evento"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := c.GetEvent(context.Background(), 42)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Message != tt.want {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestCreateEventSendsBearer(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tk-admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":9,"nome":"Novo show"}`))
	}))
	defer srv.Close()

	preco := 120.0
	ev, err := c.CreateEvent(context.Background(), &EventoRequest{Nome: "Novo show", Preco: &preco}, "tk-admin")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if ev.ID != 9 {
		t.Fatalf("id = %d, want 9", ev.ID)
	}
}

func TestReadEventStreamFrames(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(":ok\n\n"))
		w.Write([]byte("event: evento\ndata: {\"id\":1,\"nome\":\"a\"}\n\n"))
		w.Write([]byte("data: not-json\n\n"))
		w.Write([]byte("data: {\"id\":2,\"nome\":\"b\"}\n\n"))
	}))
	defer srv.Close()

	var mu sync.Mutex
	var got []Evento
	err := c.readEventStream(context.Background(), srv.URL+"/eventos", decodeInto(func(ev Evento) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}))
	if err != nil {
		t.Fatalf("readEventStream: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// the malformed frame is dropped, not surfaced
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("frames = %+v, want ids [1 2]", got)
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	frames := make(chan struct{})
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		w.Write([]byte("data: {\"id\":1}\n\n"))
		flusher.Flush()
		<-frames
	}))
	defer srv.Close()
	defer close(frames)

	received := make(chan Evento, 1)
	sub := c.SubscribeEvents(context.Background(), func(ev Evento) {
		select {
		case received <- ev:
		default:
		}
	})

	select {
	case ev := <-received:
		if ev.ID != 1 {
			t.Fatalf("id = %d, want 1", ev.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}

	sub.Close()
	sub.Close() // idempotent
}

func TestSubscribePendingRequestsPollFallback(t *testing.T) {
	c, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") == "text/event-stream" {
			// stream rejected: the subscription must degrade to polling
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id":4,"usuarioId":7,"nomeUsuario":"Maria","status":"PENDENTE"}]`))
	}))
	defer srv.Close()

	c.PollFallback = 20 * time.Millisecond
	received := make(chan Solicitacao, 4)
	sub := c.SubscribePendingRequests(context.Background(), "tk", func(s Solicitacao) {
		select {
		case received <- s:
		default:
		}
	})
	defer sub.Close()

	select {
	case s := <-received:
		if s.ID != 4 || s.Status != "PENDENTE" {
			t.Fatalf("solicitacao = %+v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poll fallback never delivered")
	}
}
