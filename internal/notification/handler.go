package notification

import (
	"net/http"
	"strconv"

	"github.com/codechella/console-backend/internal/session"
	"github.com/codechella/console-backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Service: svc}
}

// GET /api/v1/notifications
func (h *Handler) ListInApp(c *gin.Context) {
	access := session.MustAccess(c)

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.Service.ListInAppByUser(c.Request.Context(), access.UserID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	if items == nil {
		items = []InAppNotification{}
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GET /api/v1/notifications/unread-count
func (h *Handler) UnreadCount(c *gin.Context) {
	access := session.MustAccess(c)
	count, err := h.Service.CountUnread(c.Request.Context(), access.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// PUT /api/v1/notifications/:id/read
func (h *Handler) MarkInAppRead(c *gin.Context) {
	access := session.MustAccess(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.Service.MarkInAppAsRead(c.Request.Context(), uint(id), access.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// PUT /api/v1/notifications/read-all
func (h *Handler) MarkAllInAppRead(c *gin.Context) {
	access := session.MustAccess(c)
	if err := h.Service.MarkAllInAppAsRead(c.Request.Context(), access.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark all as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all marked as read"})
}

// GET /api/v1/notifications/stream (SSE)
func (h *Handler) StreamInApp(c *gin.Context) {
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

	channel := utils.UserNotificationChannel(access.UserID)
	sub := utils.RedisClient.Subscribe(c, channel)
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
			_, _ = c.Writer.Write([]byte("event: inapp\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
