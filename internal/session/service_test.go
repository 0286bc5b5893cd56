package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codechella/console-backend/config"
	"github.com/codechella/console-backend/internal/gateway"
)

func loginBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/usuario/login":
			w.Write([]byte(`{"id":7,"nome":"Maria","email":"maria@x.com","token":"backend-tk"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func testService(t *testing.T, backendURL string) (Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(
		gateway.NewClient(backendURL),
		store,
		NewSealer("seal-secret"),
		&config.Config{JWTAccessSecret: "jwt-secret", JWTAccessTTLHours: 1},
	)
	return svc, store
}

func TestLoginStoresSealedSession(t *testing.T) {
	srv := loginBackend(t)
	defer srv.Close()
	svc, store := testService(t, srv.URL)

	token, access, err := svc.Login(context.Background(), "maria@x.com", "senha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("no console token issued")
	}
	if access.Role != "USER" || access.UserID != 7 || access.BackendToken != "backend-tk" {
		t.Fatalf("access = %+v", access)
	}

	sess, err := store.Get(context.Background(), access.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// The raw backend token must never reach the store
	if sess.SealedToken == "backend-tk" || sess.SealedToken == "" {
		t.Fatalf("sealed token = %q", sess.SealedToken)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	srv := loginBackend(t)
	defer srv.Close()
	svc, _ := testService(t, srv.URL)

	token, issued, err := svc.Login(context.Background(), "maria@x.com", "senha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	access, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if access.SessionID != issued.SessionID || access.BackendToken != "backend-tk" {
		t.Fatalf("access = %+v", access)
	}
}

func TestResolveRejectsBadToken(t *testing.T) {
	srv := loginBackend(t)
	defer srv.Close()
	svc, _ := testService(t, srv.URL)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Resolve(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Resolve(%q) err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestResolveAfterLogout(t *testing.T) {
	srv := loginBackend(t)
	defer srv.Close()
	svc, _ := testService(t, srv.URL)

	token, access, err := svc.Login(context.Background(), "maria@x.com", "senha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(context.Background(), access.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	svc, _ := testService(t, srv.URL)

	_, _, err := svc.Login(context.Background(), "x@x.com", "errada")
	if !errors.Is(err, gateway.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
