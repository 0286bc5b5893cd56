package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func sampleEvents() []EventReportRow {
	return []EventReportRow{
		{ID: 1, Nome: "Rock in Rio", Data: "2026-09-20", Local: "Rio de Janeiro", Categoria: "SHOW", Preco: 250.5, Ingressos: 1000, Status: "ATIVO", CriadorID: 3},
		{ID: 2, Nome: "Hamlet", Data: "2026-10-02", Local: "São Paulo", Categoria: "TEATRO", Preco: 80, Ingressos: 200, Status: "ATIVO", CriadorID: 3},
	}
}

func TestExportEventsCSV(t *testing.T) {
	data, filename, contentType, err := NewReportExporter().Export(ReportTypeEvents, FormatCSV, ReportData{Events: sampleEvents()})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("content type = %q", contentType)
	}
	if !strings.HasPrefix(filename, "events_report_") || !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("filename = %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][0] != "ID" || records[0][1] != "Nome" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][1] != "Rock in Rio" || records[2][4] != "TEATRO" {
		t.Fatalf("rows = %v", records[1:])
	}
}

func TestExportUsersCSV(t *testing.T) {
	users := []UserReportRow{
		{ID: 3, Nome: "Carlos Souza", Email: "carlos@email.com", TipoUsuario: "ADMIN"},
		{ID: 7, Nome: "Maria Silva", Email: "maria@email.com", TipoUsuario: "USER"},
	}

	data, filename, contentType, err := NewReportExporter().Export(ReportTypeUsers, FormatCSV, ReportData{Users: users})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("content type = %q", contentType)
	}
	if !strings.HasPrefix(filename, "users_report_") || !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("filename = %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][3] != "Tipo" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][1] != "Carlos Souza" || records[2][3] != "USER" {
		t.Fatalf("rows = %v", records[1:])
	}
}

func TestExportRequestsCSV(t *testing.T) {
	requests := []RequestReportRow{
		{ID: 1, UsuarioID: 7, NomeUsuario: "Maria Silva", Motivo: "Organizo eventos na faculdade", Status: "PENDENTE", CriadaEm: "2026-08-29T10:00:00Z"},
	}

	data, filename, _, err := NewReportExporter().Export(ReportTypeRequests, FormatCSV, ReportData{Requests: requests})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(filename, "role_requests_report_") {
		t.Fatalf("filename = %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(records))
	}
	if records[1][2] != "Maria Silva" || records[1][4] != "PENDENTE" {
		t.Fatalf("row = %v", records[1])
	}
}

func TestExportAuditLogsCSV(t *testing.T) {
	userID := uint(7)
	logs := []AuditLogReportRow{
		{ID: 1, UserID: &userID, Action: "LOGIN", Status: "SUCCESS", IPAddress: "10.0.0.1", Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)},
		{ID: 2, Action: "LOGIN_FAILED", Status: "FAILURE", IPAddress: "10.0.0.2", Timestamp: time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC)},
	}

	data, filename, _, err := NewReportExporter().Export(ReportTypeAuditLogs, FormatCSV, ReportData{AuditLogs: logs})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(filename, "audit_logs_report_") {
		t.Fatalf("filename = %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
}

func TestExportExcelAndPDFMagicBytes(t *testing.T) {
	exporter := NewReportExporter()
	events := ReportData{Events: sampleEvents()}

	xlsx, _, contentType, err := exporter.Export(ReportTypeEvents, FormatExcel, events)
	if err != nil {
		t.Fatalf("Export xlsx: %v", err)
	}
	if !bytes.HasPrefix(xlsx, []byte("PK")) {
		t.Fatal("xlsx output is not a zip container")
	}
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", contentType)
	}

	pdf, _, contentType, err := exporter.Export(ReportTypeEvents, FormatPDF, events)
	if err != nil {
		t.Fatalf("Export pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("pdf output lacks the %PDF header")
	}
	if contentType != "application/pdf" {
		t.Fatalf("content type = %q", contentType)
	}
}

func TestExportRejectsUnknownTypeAndFormat(t *testing.T) {
	exporter := NewReportExporter()
	if _, _, _, err := exporter.Export("tickets", FormatCSV, ReportData{}); err == nil {
		t.Fatal("unknown report type must error")
	}
	if _, _, _, err := exporter.Export(ReportTypeEvents, "xml", ReportData{}); err == nil {
		t.Fatal("unknown format must error")
	}
}
