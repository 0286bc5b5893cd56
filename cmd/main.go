package main

import (
	"context"
	"log"
	"time"

	"github.com/codechella/console-backend/config"
	"github.com/codechella/console-backend/database"
	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/notification"
	"github.com/codechella/console-backend/internal/prefs"
	"github.com/codechella/console-backend/internal/rolewatch"
	"github.com/codechella/console-backend/internal/session"
	"github.com/codechella/console-backend/routes"
	"github.com/codechella/console-backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka (optional; no brokers means direct delivery)
	utils.InitializeKafka(cfg)

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&prefs.AdminSolicitation{},
		&prefs.ImageOverride{},
		&notification.InAppNotification{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Remote backend gateway
	gw := gateway.NewClient(cfg.BackendBaseURL)
	gw.LoginTimeout = cfg.LoginTimeout
	gw.PollFallback = cfg.StreamPollFallback

	prefsStore := prefs.NewStore(db)

	// Notification pipeline
	notifRepo := notification.NewRepository(db)
	notifSvc := notification.NewService(notifRepo)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notification.StartKafkaConsumer(rootCtx, notifSvc)

	// Promotion watchers
	notifier := notification.NewPromotionNotifier(notifSvc)
	watch := rolewatch.NewManager(gw, prefsStore, notifier, cfg.RoleWatchInterval)
	defer watch.StopAll()

	// Event feed synchronizer: seed from the backend, then keep the
	// local list current from the backend's stream.
	source := &feed.GatewaySource{Client: gw}
	eventFeed := feed.New(source, feed.WithBroadcast(feed.RedisBroadcast))
	if err := eventFeed.Start(rootCtx); err != nil {
		log.Println("⚠️ Backend unreachable at startup; serving an empty event list until it recovers")
	}
	defer eventFeed.Close()

	// Sessions
	sealer := session.NewSealer(cfg.SessionSealKey)
	sessionStore := session.NewRedisStore(utils.RedisClient)
	sessions := session.NewService(gw, sessionStore, sealer, cfg)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "Cache-Control", "Pragma", "Expires"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, routes.Deps{
		Gateway:       gw,
		Feed:          eventFeed,
		Prefs:         prefsStore,
		Watch:         watch,
		Sessions:      sessions,
		Notifications: notifSvc,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 CodeChella console listening on :%s (backend: %s)", port, cfg.BackendBaseURL)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("❌ Server exited: %v", err)
	}
}
