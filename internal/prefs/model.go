package prefs

import "time"

// Role-request status values, mirrored from the backend contract
const (
	StatusPendente = "PENDENTE"
	StatusAprovada = "APROVADA"
	StatusNegada   = "NEGADA"
)

// AdminSolicitation is the single pending-role-request slot a user
// holds: one record per user, overwritten by a new request, cleared on
// logout. Notified marks the one-time promotion notice as consumed.
type AdminSolicitation struct {
	UserID      uint       `gorm:"primaryKey" json:"userId"`
	UserName    string     `gorm:"size:150" json:"userName"`
	Status      string     `gorm:"size:20;not null" json:"status"`
	Notified    bool       `gorm:"default:false" json:"notified"`
	RequestedAt time.Time  `json:"requestedAt"`
	LastChecked *time.Time `json:"lastChecked,omitempty"`
}

func (AdminSolicitation) TableName() string {
	return "admin_solicitations"
}

// Terminal reports whether the slot reached APROVADA or NEGADA
func (s *AdminSolicitation) Terminal() bool {
	return s.Status == StatusAprovada || s.Status == StatusNegada
}

// ImageOverride is one client-side cosmetic substitution of an event's
// display image. Purely console state, no backend mirror.
type ImageOverride struct {
	EventID   uint      `gorm:"primaryKey" json:"eventId"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ImageOverride) TableName() string {
	return "image_overrides"
}
