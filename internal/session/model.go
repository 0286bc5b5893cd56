package session

import "time"

// Session is the server-side record behind a console JWT. The backend
// token is sealed at rest and only opened when a request needs to talk
// to the remote API.
type Session struct {
	ID          string    `json:"id"`
	UserID      uint      `json:"userId"`
	Nome        string    `json:"nome"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	SealedToken string    `json:"sealedToken"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Access is a resolved session: what the middleware hands to handlers.
type Access struct {
	SessionID    string
	UserID       uint
	Nome         string
	Email        string
	Role         string
	BackendToken string
}

// Elevated reports whether the access carries admin-or-above rights.
func (a *Access) Elevated() bool {
	return a.Role == "ADMIN" || a.Role == "SUPER"
}
