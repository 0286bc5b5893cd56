package session

import "github.com/gin-gonic/gin"

// ContextKey is where the auth middleware stores the resolved Access.
const ContextKey = "access"

// FromContext returns the resolved access for the request, if any.
func FromContext(c *gin.Context) (*Access, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	access, ok := v.(*Access)
	return access, ok
}

// MustAccess is for handlers behind the auth middleware, where a
// missing access means a wiring bug rather than a client error.
func MustAccess(c *gin.Context) *Access {
	access, ok := FromContext(c)
	if !ok {
		panic("session: access missing from context; route not behind auth middleware")
	}
	return access
}
