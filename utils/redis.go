package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/codechella/console-backend/config"
)

// RedisClient is the shared client for sessions and SSE fan-out
var RedisClient *redis.Client

// Ctx is the background context used for fire-and-forget publishes
var Ctx = context.Background()

// InitRedis connects the global Redis client
func InitRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := RedisClient.Ping(Ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Println("✅ Redis connected")
	return nil
}

// EventsChannel is the pub/sub channel carrying merged feed updates
const EventsChannel = "feed:eventos"

// PendingRequestsChannel carries role requests awaiting approval
const PendingRequestsChannel = "feed:solicitacoes-pendentes"

// TicketsChannel carries ticket registration and purchase updates
const TicketsChannel = "feed:ingressos"

// AdminsChannel / UsersChannel carry super-admin list updates
const (
	AdminsChannel = "feed:admins"
	UsersChannel  = "feed:usuarios"
)

// UserNotificationChannel returns the per-user bell notification channel
func UserNotificationChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}
