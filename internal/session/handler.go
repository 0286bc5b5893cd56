package session

import (
	"errors"
	"net/http"

	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
	"github.com/codechella/console-backend/internal/rolewatch"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	prefs   prefs.Store
	watch   *rolewatch.Manager
	audit   auditlog.Service
}

func NewHandler(s Service, store prefs.Store, watch *rolewatch.Manager, audit auditlog.Service) *Handler {
	return &Handler{service: s, prefs: store, watch: watch, audit: audit}
}

// clientIP reads the address the audit middleware resolved. The session
// package cannot import middleware (it would cycle), so the context key
// is read directly.
func clientIP(c *gin.Context) string {
	if ip := c.GetString("client_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// ===============================
// Login
// ===============================

type loginReq struct {
	Email string `json:"email" binding:"required,email" example:"maria@email.com"`
	Senha string `json:"senha" binding:"required" example:"secret123"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consoleToken, access, err := h.service.Login(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		details := map[string]interface{}{"email": req.Email}
		_ = h.audit.LogAction(c.Request.Context(), nil, nil, auditlog.ActionLoginFailed, details, clientIP(c), auditlog.StatusFailure)

		status := http.StatusUnauthorized
		if errors.Is(err, gateway.ErrBackendUnavailable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	_ = h.audit.LogAction(c.Request.Context(), &access.UserID, nil, auditlog.ActionLogin, map[string]interface{}{"role": access.Role}, clientIP(c), auditlog.StatusSuccess)

	// Resume the promotion watcher if this user still has an open
	// admin request from a previous session.
	h.resumeWatcher(c, access)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": consoleToken,
		"user": gin.H{
			"id":          access.UserID,
			"nome":        access.Nome,
			"email":       access.Email,
			"tipoUsuario": access.Role,
		},
	})
}

func (h *Handler) resumeWatcher(c *gin.Context, access *Access) {
	if access.Elevated() {
		return
	}
	pending, err := h.prefs.HasPendingSolicitation(c.Request.Context(), access.UserID)
	if err != nil || !pending {
		return
	}
	h.watch.Ensure(rolewatch.Session{
		UserID: access.UserID,
		Nome:   access.Nome,
		Role:   access.Role,
		Token:  access.BackendToken,
	})
}

// ===============================
// Registration
// ===============================

type registerReq struct {
	Nome  string `json:"nome" binding:"required" example:"Maria Silva"`
	Email string `json:"email" binding:"required,email" example:"maria@email.com"`
	Senha string `json:"senha" binding:"required,min=6" example:"secret123"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Register(c.Request.Context(), gateway.RegisterRequest{
		Nome:  req.Nome,
		Email: req.Email,
		Senha: req.Senha,
	})
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	_ = h.audit.LogAction(c.Request.Context(), nil, nil, auditlog.ActionRegister, map[string]interface{}{"email": req.Email}, clientIP(c), status)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Cadastro realizado com sucesso"})
}

// ===============================
// Logout
// ===============================

func (h *Handler) Logout(c *gin.Context) {
	access := MustAccess(c)

	// Logging out ends the watch entirely: the watcher stops and the
	// stored request slot is cleared. The backend keeps the request
	// itself; a later login re-submits interest through the status page.
	h.watch.Stop(access.UserID)
	if err := h.prefs.ClearSolicitation(c.Request.Context(), access.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Logout(c.Request.Context(), access.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = h.audit.LogAction(c.Request.Context(), &access.UserID, nil, auditlog.ActionLogout, nil, clientIP(c), auditlog.StatusSuccess)

	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado"})
}

// ===============================
// Me
// ===============================

func (h *Handler) Me(c *gin.Context) {
	access := MustAccess(c)
	c.JSON(http.StatusOK, gin.H{
		"id":          access.UserID,
		"nome":        access.Nome,
		"email":       access.Email,
		"tipoUsuario": access.Role,
	})
}
