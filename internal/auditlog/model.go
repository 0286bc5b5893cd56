package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Console actions worth an audit trail.
const (
	ActionLogin             = "LOGIN"
	ActionLoginFailed       = "LOGIN_FAILED"
	ActionLogout            = "LOGOUT"
	ActionRegister          = "REGISTER"
	ActionEventCreate       = "EVENT_CREATE"
	ActionEventUpdate       = "EVENT_UPDATE"
	ActionEventDelete       = "EVENT_DELETE"
	ActionEventCancel       = "EVENT_CANCEL"
	ActionEventReactivate   = "EVENT_REACTIVATE"
	ActionTicketPurchase    = "TICKET_PURCHASE"
	ActionTicketCancel      = "TICKET_CANCEL"
	ActionPermissionRequest = "PERMISSION_REQUEST"
	ActionPermissionApprove = "PERMISSION_APPROVE"
	ActionPermissionDeny    = "PERMISSION_DENY"
	ActionAdminCreate       = "ADMIN_CREATE"
	ActionAdminRemove       = "ADMIN_REMOVE"
	ActionUserRemove        = "USER_REMOVE"
	ActionUserPromote       = "USER_PROMOTE"
	ActionUserDemote        = "USER_DEMOTE"
	ActionImageOverride     = "IMAGE_OVERRIDE"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"` // nullable (e.g. failed login)
	EventID   *uint          `gorm:"index" json:"event_id"`
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   *uint      `json:"user_id"`
	EventID  *uint      `json:"event_id"`
	Action   string     `json:"action"`
	Status   string     `json:"status"`
	FromDate *time.Time `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// PaginatedAuditLogs represents a paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
