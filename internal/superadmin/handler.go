package superadmin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/codechella/console-backend/internal/gateway"
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

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ===========================
// Admin management
// ===========================

type adminReq struct {
	Nome  string `json:"nome" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required,min=6"`
}

// CreateAdmin handles POST /super-admin/admins
func (h *Handler) CreateAdmin(c *gin.Context) {
	access := session.MustAccess(c)
	var req adminReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.service.CreateAdmin(c.Request.Context(), access.BackendToken, gateway.AdminDTO(req), access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// ListAdmins handles GET /super-admin/admins
func (h *Handler) ListAdmins(c *gin.Context) {
	access := session.MustAccess(c)
	admins, err := h.service.ListAdmins(c.Request.Context(), access.BackendToken)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	if admins == nil {
		admins = []gateway.Usuario{}
	}
	c.JSON(http.StatusOK, admins)
}

// RemoveAdmin handles DELETE /super-admin/admins/:id
func (h *Handler) RemoveAdmin(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveAdmin(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Administrador removido"})
}

// ===========================
// User management
// ===========================

// ListUsers handles GET /super-admin/usuarios
func (h *Handler) ListUsers(c *gin.Context) {
	access := session.MustAccess(c)
	users, err := h.service.ListUsers(c.Request.Context(), access.BackendToken)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	if users == nil {
		users = []gateway.Usuario{}
	}
	c.JSON(http.StatusOK, users)
}

// RemoveUser handles DELETE /super-admin/usuarios/:id
func (h *Handler) RemoveUser(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveUser(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário removido"})
}

// ListDeletedUsers handles GET /super-admin/usuarios/removidos
func (h *Handler) ListDeletedUsers(c *gin.Context) {
	access := session.MustAccess(c)
	users, err := h.service.ListDeletedUsers(c.Request.Context(), access.BackendToken)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	if users == nil {
		users = []gateway.Usuario{}
	}
	c.JSON(http.StatusOK, users)
}

// Promote handles PUT /super-admin/usuarios/:id/promover
func (h *Handler) Promote(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.service.PromoteToAdmin(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Demote handles PUT /super-admin/usuarios/:id/rebaixar
func (h *Handler) Demote(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.service.DemoteToUser(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ===========================
// Event oversight
// ===========================

// DeleteEvent handles DELETE /super-admin/eventos/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAnyEvent(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evento removido"})
}

// ListCancelledEvents handles GET /super-admin/eventos/cancelados
func (h *Handler) ListCancelledEvents(c *gin.Context) {
	access := session.MustAccess(c)
	eventos, err := h.service.ListCancelledEvents(c.Request.Context(), access.BackendToken, access.UserID)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	if eventos == nil {
		eventos = []gateway.Evento{}
	}
	c.JSON(http.StatusOK, eventos)
}

// ReactivateEvent handles PUT /super-admin/eventos/:id/reativar
func (h *Handler) ReactivateEvent(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	ev, err := h.service.ReactivateEvent(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// ===========================
// Live lists (SSE bridges)
// ===========================

func (h *Handler) streamBridge(c *gin.Context, event string, subscribe func(sink func([]byte)) *gateway.Subscription) {
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
	sub := subscribe(func(payload []byte) {
		select {
		case frames <- payload:
		default:
		}
	})
	defer sub.Close()

	for {
		select {
		case payload := <-frames:
			_, _ = c.Writer.Write([]byte("event: " + event + "\n"))
			_, _ = c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// StreamAdmins handles GET /super-admin/admins/stream (SSE)
func (h *Handler) StreamAdmins(c *gin.Context) {
	h.streamBridge(c, "admin", func(sink func([]byte)) *gateway.Subscription {
		return h.gw.SubscribeAdmins(c.Request.Context(), func(u gateway.Usuario) {
			if payload, err := json.Marshal(u); err == nil {
				sink(payload)
			}
		})
	})
}

// StreamUsers handles GET /super-admin/usuarios/stream (SSE)
func (h *Handler) StreamUsers(c *gin.Context) {
	h.streamBridge(c, "usuario", func(sink func([]byte)) *gateway.Subscription {
		return h.gw.SubscribeUsers(c.Request.Context(), func(u gateway.Usuario) {
			if payload, err := json.Marshal(u); err == nil {
				sink(payload)
			}
		})
	})
}
