package reports

import (
	"net/http"

	"github.com/codechella/console-backend/internal/session"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// Download handles GET /reports?type=events&format=csv
// @Summary Download a report
// @Description Export events, users, role requests or audit logs as CSV, Excel or PDF (admin and super admin)
// @Tags Reports
// @Produce octet-stream
// @Param type query string true "Report type (events, users, requests, auditlogs)"
// @Param format query string true "Format (csv, excel, pdf)"
// @Success 200 {file} binary
// @Failure 400 {object} gin.H
// @Router /api/v1/reports [get]
func (h *Handler) Download(c *gin.Context) {
	access := session.MustAccess(c)
	reportType := c.DefaultQuery("type", ReportTypeEvents)
	format := c.DefaultQuery("format", FormatCSV)

	data, filename, contentType, err := h.service.Generate(c.Request.Context(), reportType, format, access.BackendToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
