package ticket

import (
	"errors"
	"net/http"
	"strconv"

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

func respondGatewayError(c *gin.Context, err error) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// ===========================
// Admin: ticket registration
// ===========================

type ingressoReq struct {
	EventoID   uint     `json:"eventoId" binding:"required"`
	Quantidade int      `json:"quantidade" binding:"required,min=1"`
	Preco      *float64 `json:"preco"`
}

// Create handles POST /ingressos
func (h *Handler) Create(c *gin.Context) {
	access := session.MustAccess(c)
	var req ingressoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingresso, err := h.service.Create(c.Request.Context(), access.BackendToken, gateway.IngressoRequest{
		EventoID:   req.EventoID,
		Quantidade: req.Quantidade,
		Preco:      req.Preco,
	})
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingresso)
}

// GetByEvent handles GET /ingressos/evento/:eventoId
func (h *Handler) GetByEvent(c *gin.Context) {
	access := session.MustAccess(c)
	eventoID, err := strconv.ParseUint(c.Param("eventoId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ingresso, err := h.service.GetByEvent(c.Request.Context(), access.BackendToken, uint(eventoID))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	if ingresso == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, ingresso)
}

// Update handles PUT /ingressos/:id
func (h *Handler) Update(c *gin.Context) {
	access := session.MustAccess(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	var req ingressoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingresso, err := h.service.Update(c.Request.Context(), access.BackendToken, uint(id), gateway.IngressoRequest{
		EventoID:   req.EventoID,
		Quantidade: req.Quantidade,
		Preco:      req.Preco,
	})
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingresso)
}

// ===========================
// Storefront: purchase / cancel
// ===========================

// Purchase handles POST /ingressos/comprar?eventoId=&quantidade=
func (h *Handler) Purchase(c *gin.Context) {
	access := session.MustAccess(c)

	eventoID, err := strconv.ParseUint(c.Query("eventoId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid eventoId"})
		return
	}
	quantidade, err := strconv.Atoi(c.DefaultQuery("quantidade", "1"))
	if err != nil || quantidade < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantidade"})
		return
	}

	ingresso, err := h.service.Purchase(c.Request.Context(), access.BackendToken, uint(eventoID), quantidade, access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingresso)
}

// Cancel handles PUT /ingressos/:id/cancelar
func (h *Handler) Cancel(c *gin.Context) {
	access := session.MustAccess(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ingresso, err := h.service.Cancel(c.Request.Context(), access.BackendToken, uint(id), access.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingresso)
}

// Stream handles GET /ingressos/stream (SSE), relaying ticket updates
// the synchronizer picked up from the backend.
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

	sub := utils.RedisClient.Subscribe(c, utils.TicketsChannel)
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
			_, _ = c.Writer.Write([]byte("event: ingresso\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
