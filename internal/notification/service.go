package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codechella/console-backend/utils"
)

type Service interface {
	// Publish hands the event to Kafka when a broker is configured,
	// otherwise delivers it straight to the store.
	Publish(ctx context.Context, ev Event) error

	CreateInAppNotification(ctx context.Context, userID uint, title, message, category string) error
	ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	MarkAllInAppAsRead(ctx context.Context, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Publish(ctx context.Context, ev Event) error {
	if utils.IsKafkaEnabled() {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("user-%d", ev.UserID)
		return utils.PublishNotificationEvent(ctx, key, payload)
	}
	return s.CreateInAppNotification(ctx, ev.UserID, ev.Title, ev.Message, ev.Category)
}

// CreateInAppNotification stores a bell notification for a specific user
// and fans it out to any live SSE stream via Redis pub/sub.
func (s *service) CreateInAppNotification(ctx context.Context, userID uint, title, message, category string) error {
	item := &InAppNotification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Category:  category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.CreateInApp(ctx, item); err != nil {
		return err
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"id":         item.ID,
		"user_id":    item.UserID,
		"title":      item.Title,
		"message":    item.Message,
		"category":   item.Category,
		"is_read":    item.IsRead,
		"created_at": item.CreatedAt,
	})
	channel := utils.UserNotificationChannel(userID)
	_ = utils.RedisClient.Publish(utils.Ctx, channel, string(payload)).Err()
	return nil
}

func (s *service) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	return s.repo.ListInAppByUser(ctx, userID, limit)
}

func (s *service) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

func (s *service) MarkAllInAppAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllInAppAsRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
