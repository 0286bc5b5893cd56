package middleware

import (
	"net/http"
	"strings"

	"github.com/codechella/console-backend/internal/session"
	"github.com/gin-gonic/gin"
)

// Role names as the remote backend reports them.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
	RoleSuper = "SUPER"
)

// AuthMiddleware validates the console JWT and loads the backing
// session into the request context.
func AuthMiddleware(sessions session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			abortUnauthenticated(c, "missing Authorization header")
			return
		}

		access, err := sessions.Resolve(c.Request.Context(), tokenStr)
		if err != nil {
			abortUnauthenticated(c, "invalid or expired session")
			return
		}

		c.Set(session.ContextKey, access)
		c.Set("user_id", access.UserID)
		c.Next()
	}
}

// bearerToken pulls the token from the Authorization header, falling
// back to the token query parameter for EventSource connections, which
// cannot set headers.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// abortUnauthenticated answers 401 for API clients, redirect for
// browsers navigating to a protected page.
func abortUnauthenticated(c *gin.Context, msg string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func wantsHTML(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}
