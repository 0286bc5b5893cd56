package reports

import (
	"context"
	"fmt"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
)

type Service interface {
	Generate(ctx context.Context, reportType, format, token string) ([]byte, string, string, error)
}

type service struct {
	feed     *feed.Feed
	gw       *gateway.Client
	audit    auditlog.Service
	exporter ReportExporter
}

func NewService(f *feed.Feed, gw *gateway.Client, audit auditlog.Service, exporter ReportExporter) Service {
	return &service{feed: f, gw: gw, audit: audit, exporter: exporter}
}

// Generate assembles the dataset for one report type and hands it to
// the exporter. Events come from the local feed; users and role
// requests are fetched from the backend with the caller's token.
func (s *service) Generate(ctx context.Context, reportType, format, token string) ([]byte, string, string, error) {
	var data ReportData

	switch reportType {
	case ReportTypeEvents:
		for _, ev := range s.feed.Snapshot() {
			ingressos := 0
			if ev.IngressosDisponiveis != nil {
				ingressos = *ev.IngressosDisponiveis
			}
			status := ev.Status
			if status == "" {
				status = ev.StatusEvento
			}
			data.Events = append(data.Events, EventReportRow{
				ID:        ev.ID,
				Nome:      ev.Nome,
				Data:      ev.Data,
				Local:     ev.Local,
				Categoria: ev.CategoriaEfetiva(),
				Preco:     ev.PrecoEfetivo(),
				Ingressos: ingressos,
				Status:    status,
				CriadorID: ev.CriadorID(),
			})
		}

	case ReportTypeUsers:
		usuarios, err := s.gw.ListUsers(ctx, token)
		if err != nil {
			return nil, "", "", err
		}
		for _, u := range usuarios {
			data.Users = append(data.Users, UserReportRow{
				ID:          u.ID,
				Nome:        u.Nome,
				Email:       u.Email,
				TipoUsuario: u.TipoUsuario,
			})
		}

	case ReportTypeRequests:
		solicitacoes, err := s.gw.PendingRequests(ctx, token)
		if err != nil {
			return nil, "", "", err
		}
		for _, sol := range solicitacoes {
			data.Requests = append(data.Requests, RequestReportRow{
				ID:          sol.ID,
				UsuarioID:   sol.UsuarioID,
				NomeUsuario: sol.NomeUsuario,
				Motivo:      sol.Motivo,
				Status:      sol.Status,
				CriadaEm:    sol.CriadaEm,
			})
		}

	case ReportTypeAuditLogs:
		page, err := s.audit.GetAuditLogs(ctx, auditlog.AuditLogFilter{Page: 1, Limit: 1000})
		if err != nil {
			return nil, "", "", err
		}
		for _, log := range page.Data {
			data.AuditLogs = append(data.AuditLogs, AuditLogReportRow{
				ID:        log.ID,
				UserID:    log.UserID,
				Action:    log.Action,
				Status:    log.Status,
				IPAddress: log.IPAddress,
				Timestamp: log.CreatedAt,
				Details:   string(log.Details),
			})
		}

	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}

	return s.exporter.Export(reportType, format, data)
}
