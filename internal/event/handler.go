package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/session"
	"github.com/codechella/console-backend/middleware"
	"github.com/codechella/console-backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func parseEventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
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
// Public storefront
// ===========================

// List handles GET /eventos
// @Summary List events
// @Description List all active events from the synchronized feed
// @Tags Events
// @Produce json
// @Success 200 {array} gateway.Evento
// @Router /api/v1/eventos [get]
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.List(c.Request.Context()))
}

// ListByCategory handles GET /eventos/categoria/:categoria
func (h *Handler) ListByCategory(c *gin.Context) {
	token := ""
	if access, ok := session.FromContext(c); ok {
		token = access.BackendToken
	}

	eventos, err := h.service.ListByCategory(c.Request.Context(), c.Param("categoria"), token)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventos)
}

// Get handles GET /eventos/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	ev, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Stream handles GET /eventos/stream (SSE). Every feed mutation picked
// up from the backend is re-broadcast here through Redis pub/sub.
func (h *Handler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	sub := utils.RedisClient.Subscribe(c, utils.EventsChannel)
	defer sub.Close()

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: evento\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// ===========================
// Admin console
// ===========================

type eventoReq struct {
	Nome                 string   `json:"nome" binding:"required"`
	Data                 string   `json:"data" binding:"required"`
	Local                string   `json:"local" binding:"required"`
	Preco                *float64 `json:"preco"`
	Categoria            string   `json:"categoria"`
	Descricao            string   `json:"descricao"`
	ImagemURL            string   `json:"imagemUrl"`
	IngressosDisponiveis *int     `json:"ingressosDisponiveis"`
}

func (r eventoReq) toGateway() gateway.EventoRequest {
	return gateway.EventoRequest{
		Nome:                 r.Nome,
		Data:                 r.Data,
		Local:                r.Local,
		Preco:                r.Preco,
		Categoria:            r.Categoria,
		Descricao:            r.Descricao,
		ImagemURL:            r.ImagemURL,
		IngressosDisponiveis: r.IngressosDisponiveis,
	}
}

// Create handles POST /eventos
func (h *Handler) Create(c *gin.Context) {
	access := session.MustAccess(c)
	var req eventoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.service.Create(c.Request.Context(), access.BackendToken, req.toGateway(), access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Update handles PUT /eventos/:id
func (h *Handler) Update(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	var req eventoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.service.Update(c.Request.Context(), access.BackendToken, id, req.toGateway(), access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /eventos/:id
func (h *Handler) Delete(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	asAdmin := access.Role == middleware.RoleAdmin
	if err := h.service.Delete(c.Request.Context(), access.BackendToken, id, asAdmin, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evento removido"})
}

// Cancel handles PATCH /eventos/:id/cancelar
func (h *Handler) Cancel(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), access.BackendToken, id, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evento cancelado"})
}

// Refresh handles POST /eventos/refresh
func (h *Handler) Refresh(c *gin.Context) {
	outcome := h.service.Refresh(c.Request.Context())
	if outcome == feed.OutcomeStale {
		c.JSON(http.StatusOK, gin.H{"message": "Backend indisponível; lista anterior mantida", "stale": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lista atualizada", "stale": false})
}

// ===========================
// Image overrides
// ===========================

type imageReq struct {
	URL string `json:"url" binding:"required,url"`
}

// SetImage handles PUT /eventos/:id/imagem
func (h *Handler) SetImage(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	var req imageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetImageOverride(c.Request.Context(), id, req.URL, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Imagem atualizada"})
}

// ClearImage handles DELETE /eventos/:id/imagem
func (h *Handler) ClearImage(c *gin.Context) {
	access := session.MustAccess(c)
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	if err := h.service.ClearImageOverride(c.Request.Context(), id, access.UserID, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Imagem removida"})
}
