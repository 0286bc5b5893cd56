package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codechella/console-backend/internal/session"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withAccess(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(session.ContextKey, &session.Access{UserID: 7, Nome: "Maria", Role: role})
	}
}

func performRBAC(t *testing.T, guard gin.HandlerFunc, seed gin.HandlerFunc, method, accept string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	handlers := []gin.HandlerFunc{}
	if seed != nil {
		handlers = append(handlers, seed)
	}
	handlers = append(handlers, guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.Handle(method, "/protegido", handlers...)

	req := httptest.NewRequest(method, "/protegido", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRoleExactMatch(t *testing.T) {
	w := performRBAC(t, RequireRole(RoleAdmin), withAccess(RoleAdmin), http.MethodGet, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	// Roles do not nest: SUPER is not an ADMIN for routing purposes.
	for _, role := range []string{RoleUser, RoleSuper} {
		w := performRBAC(t, RequireRole(RoleAdmin), withAccess(role), http.MethodGet, "application/json")
		if w.Code != http.StatusForbidden {
			t.Fatalf("role %s: status = %d, want 403", role, w.Code)
		}
	}
}

func TestRequireAnyRole(t *testing.T) {
	guard := RequireAnyRole(RoleAdmin, RoleSuper)
	for role, want := range map[string]int{
		RoleAdmin: http.StatusOK,
		RoleSuper: http.StatusOK,
		RoleUser:  http.StatusForbidden,
	} {
		w := performRBAC(t, guard, withAccess(role), http.MethodGet, "application/json")
		if w.Code != want {
			t.Fatalf("role %s: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestRequireRoleBrowserRedirects(t *testing.T) {
	w := performRBAC(t, RequireRole(RoleSuper), withAccess(RoleUser), http.MethodGet, "text/html,application/xhtml+xml")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("location = %q, want /login", loc)
	}
}

func TestRequireRoleHTMLPostStaysJSON(t *testing.T) {
	// Only GET navigations redirect; a POST with an html Accept header
	// still gets the API answer.
	w := performRBAC(t, RequireRole(RoleSuper), withAccess(RoleUser), http.MethodPost, "text/html")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireRoleWithoutSession(t *testing.T) {
	w := performRBAC(t, RequireRole(RoleAdmin), nil, http.MethodGet, "application/json")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
