package middleware

import (
	"net/http"

	"github.com/codechella/console-backend/internal/session"
	"github.com/gin-gonic/gin"
)

// RequireRole allows only an exact role: an ADMIN is not a USER for
// routing purposes, each role has its own surface.
func RequireRole(role string) gin.HandlerFunc {
	return requireRoles(role)
}

// RequireAnyRole allows any of the given roles.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return requireRoles(roles...)
}

func requireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := session.FromContext(c)
		if !ok {
			abortUnauthenticated(c, "unauthenticated")
			return
		}

		for _, role := range roles {
			if access.Role == role {
				c.Next()
				return
			}
		}

		if wantsHTML(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	}
}
