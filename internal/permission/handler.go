package permission

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/rolewatch"
	"github.com/codechella/console-backend/internal/session"
	"github.com/codechella/console-backend/middleware"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	gw      *gateway.Client
}

func NewHandler(s Service, gw *gateway.Client) *Handler {
	return &Handler{service: s, gw: gw}
}

func respondGatewayError(c *gin.Context, err error) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// ===========================
// Storefront (USER)
// ===========================

type submitReq struct {
	Motivo string `json:"motivo" binding:"required"`
}

// Submit handles POST /permissoes/solicitar
func (h *Handler) Submit(c *gin.Context) {
	access := session.MustAccess(c)
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := rolewatch.Session{
		UserID: access.UserID,
		Nome:   access.Nome,
		Role:   access.Role,
		Token:  access.BackendToken,
	}
	sol, err := h.service.Submit(c.Request.Context(), sess, req.Motivo, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sol)
}

// MyStatus handles GET /permissoes/minha
func (h *Handler) MyStatus(c *gin.Context) {
	access := session.MustAccess(c)
	status, err := h.service.MyStatus(c.Request.Context(), rolewatch.Session{
		UserID: access.UserID,
		Nome:   access.Nome,
		Role:   access.Role,
		Token:  access.BackendToken,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load request status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// ClearMine handles DELETE /permissoes/minha
func (h *Handler) ClearMine(c *gin.Context) {
	access := session.MustAccess(c)
	if err := h.service.ClearMine(c.Request.Context(), access.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Solicitação removida"})
}

// ===========================
// Console (SUPER)
// ===========================

// Pending handles GET /permissoes/pendentes
func (h *Handler) Pending(c *gin.Context) {
	access := session.MustAccess(c)
	pendentes, err := h.service.Pending(c.Request.Context(), access.BackendToken)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	if pendentes == nil {
		pendentes = []gateway.Solicitacao{}
	}
	c.JSON(http.StatusOK, pendentes)
}

// PendingStream handles GET /permissoes/pendentes/stream (SSE). Each
// connection bridges the backend's pending-request stream, which
// degrades to polling when the upstream stream drops.
func (h *Handler) PendingStream(c *gin.Context) {
	access := session.MustAccess(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	frames := make(chan []byte, 16)
	sub := h.gw.SubscribePendingRequests(c.Request.Context(), access.BackendToken, func(sol gateway.Solicitacao) {
		payload, err := json.Marshal(sol)
		if err != nil {
			return
		}
		select {
		case frames <- payload:
		default: // slow client, drop the frame
		}
	})
	defer sub.Close()

	for {
		select {
		case payload := <-frames:
			_, _ = c.Writer.Write([]byte("event: solicitacao\n"))
			_, _ = c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// Approve handles PUT /permissoes/:id/aprovar
func (h *Handler) Approve(c *gin.Context) {
	access := session.MustAccess(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	sol, err := h.service.Approve(c.Request.Context(), uint(id), access.BackendToken, access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, sol)
}

type denyReq struct {
	Motivo string `json:"motivo"`
}

// Deny handles PUT /permissoes/:id/negar
func (h *Handler) Deny(c *gin.Context) {
	access := session.MustAccess(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	var req denyReq
	_ = c.ShouldBindJSON(&req)

	sol, err := h.service.Deny(c.Request.Context(), uint(id), req.Motivo, access.BackendToken, access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, sol)
}
