package reports

import "time"

// Report types the console can export.
const (
	ReportTypeEvents    = "events"
	ReportTypeUsers     = "users"
	ReportTypeRequests  = "requests"
	ReportTypeAuditLogs = "auditlogs"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// EventReportRow is one event line in an export.
type EventReportRow struct {
	ID        uint
	Nome      string
	Data      string
	Local     string
	Categoria string
	Preco     float64
	Ingressos int
	Status    string
	CriadorID uint
}

// UserReportRow is one storefront user line in an export.
type UserReportRow struct {
	ID          uint
	Nome        string
	Email       string
	TipoUsuario string
}

// RequestReportRow is one pending role-elevation request in an export.
type RequestReportRow struct {
	ID          uint
	UsuarioID   uint
	NomeUsuario string
	Motivo      string
	Status      string
	CriadaEm    string
}

// AuditLogReportRow is one audit entry line in an export.
type AuditLogReportRow struct {
	ID        uint
	UserID    *uint
	Action    string
	Status    string
	IPAddress string
	Timestamp time.Time
	Details   string
}

// ReportData carries whichever dataset the requested report needs.
type ReportData struct {
	Events    []EventReportRow
	Users     []UserReportRow
	Requests  []RequestReportRow
	AuditLogs []AuditLogReportRow
}
