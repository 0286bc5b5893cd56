package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders a dataset as a downloadable file. Returns the
// bytes, filename and content type.
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeEvents:
		return e.exportEventsByFormat(format, timestamp, data.Events)
	case ReportTypeUsers:
		return e.exportUsersByFormat(format, timestamp, data.Users)
	case ReportTypeRequests:
		return e.exportRequestsByFormat(format, timestamp, data.Requests)
	case ReportTypeAuditLogs:
		return e.exportAuditLogsByFormat(format, timestamp, data.AuditLogs)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// EVENTS EXPORTS
//// ============================

func (e *reportExporter) exportEventsByFormat(format, timestamp string, rows []EventReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportEventsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := e.exportEventsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportEventsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for events: %s", format)
	}
}

func (e *reportExporter) exportEventsCSV(rows []EventReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Nome", "Data", "Local", "Categoria", "Preco", "Ingressos", "Status", "Criador ID"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Nome,
			r.Data,
			r.Local,
			r.Categoria,
			strconv.FormatFloat(r.Preco, 'f', 2, 64),
			strconv.Itoa(r.Ingressos),
			r.Status,
			strconv.FormatUint(uint64(r.CriadorID), 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsExcel(rows []EventReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Events"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Nome", "Data", "Local", "Categoria", "Preco", "Ingressos", "Status", "Criador ID"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Nome)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Data)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Local)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Categoria)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Preco)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Ingressos)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.CriadorID)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsPDF(rows []EventReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Events Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"ID", "Nome", "Data", "Local", "Categoria", "Preco", "Ingressos", "Status"}
	widths := []float64{15, 70, 35, 55, 30, 25, 25, 25}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, fmt.Sprint(r.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Nome, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Data, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Local, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Categoria, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, strconv.FormatFloat(r.Preco, 'f', 2, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, strconv.Itoa(r.Ingressos), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[7], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// USERS EXPORTS
//// ============================

func (e *reportExporter) exportUsersByFormat(format, timestamp string, rows []UserReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportUsersCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("users_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := e.exportUsersExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("users_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportUsersPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("users_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for users: %s", format)
	}
}

func (e *reportExporter) exportUsersCSV(rows []UserReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Nome", "Email", "Tipo"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Nome,
			r.Email,
			r.TipoUsuario,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportUsersExcel(rows []UserReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Users"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Nome", "Email", "Tipo"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Nome)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Email)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.TipoUsuario)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportUsersPDF(rows []UserReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Users Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"ID", "Nome", "Email", "Tipo"}
	widths := []float64{15, 90, 110, 30}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, fmt.Sprint(r.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Nome, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.TipoUsuario, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// ROLE REQUESTS EXPORTS
//// ============================

func (e *reportExporter) exportRequestsByFormat(format, timestamp string, rows []RequestReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportRequestsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("role_requests_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := e.exportRequestsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("role_requests_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportRequestsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("role_requests_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for role requests: %s", format)
	}
}

func (e *reportExporter) exportRequestsCSV(rows []RequestReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Usuario ID", "Nome", "Motivo", "Status", "Criada Em"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatUint(uint64(r.UsuarioID), 10),
			r.NomeUsuario,
			r.Motivo,
			r.Status,
			r.CriadaEm,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportRequestsExcel(rows []RequestReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Role Requests"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Usuario ID", "Nome", "Motivo", "Status", "Criada Em"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.UsuarioID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.NomeUsuario)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Motivo)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.CriadaEm)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportRequestsPDF(rows []RequestReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Role Requests Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"ID", "Usuario ID", "Nome", "Motivo", "Status", "Criada Em"}
	widths := []float64{15, 25, 60, 80, 30, 45}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, fmt.Sprint(r.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprint(r.UsuarioID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.NomeUsuario, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Motivo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.CriadaEm, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// AUDIT LOGS EXPORTS
//// ============================

func (e *reportExporter) exportAuditLogsByFormat(format, timestamp string, logs []AuditLogReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportAuditLogsCSV(logs)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("audit_logs_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := e.exportAuditLogsExcel(logs)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("audit_logs_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportAuditLogsPDF(logs)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("audit_logs_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for audit logs: %s", format)
	}
}

func (e *reportExporter) exportAuditLogsCSV(logs []AuditLogReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "User ID", "Action", "Status", "IP Address", "Timestamp", "Details"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, log := range logs {
		userID := ""
		if log.UserID != nil {
			userID = strconv.FormatUint(uint64(*log.UserID), 10)
		}

		record := []string{
			strconv.FormatUint(uint64(log.ID), 10),
			userID,
			log.Action,
			log.Status,
			log.IPAddress,
			log.Timestamp.Format("2006-01-02 15:04:05"),
			log.Details,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportAuditLogsExcel(logs []AuditLogReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Audit Logs"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "User ID", "Action", "Status", "IP Address", "Timestamp", "Details"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, log := range logs {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), log.ID)
		if log.UserID != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), *log.UserID)
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), log.Action)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), log.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), log.IPAddress)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), log.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), log.Details)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAuditLogsPDF(logs []AuditLogReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Audit Logs Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"ID", "User ID", "Action", "Status", "IP Address", "Timestamp"}
	widths := []float64{15, 25, 60, 25, 45, 45}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, log := range logs {
		userID := ""
		if log.UserID != nil {
			userID = strconv.FormatUint(uint64(*log.UserID), 10)
		}
		pdf.CellFormat(widths[0], 6, fmt.Sprint(log.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, userID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, log.Action, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, log.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, log.IPAddress, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, log.Timestamp.Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
