package routes

import (
	"github.com/codechella/console-backend/config"
	"github.com/codechella/console-backend/database"
	"github.com/codechella/console-backend/internal/auditlog"
	"github.com/codechella/console-backend/internal/event"
	"github.com/codechella/console-backend/internal/feed"
	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/notification"
	"github.com/codechella/console-backend/internal/permission"
	"github.com/codechella/console-backend/internal/prefs"
	"github.com/codechella/console-backend/internal/reports"
	"github.com/codechella/console-backend/internal/rolewatch"
	"github.com/codechella/console-backend/internal/session"
	"github.com/codechella/console-backend/internal/superadmin"
	"github.com/codechella/console-backend/internal/ticket"
	"github.com/codechella/console-backend/middleware"
	"github.com/gin-gonic/gin"

	_ "github.com/codechella/console-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries the long-lived pieces built in main: the backend
// gateway, the running feed synchronizer and the watcher manager.
type Deps struct {
	Gateway       *gateway.Client
	Feed          *feed.Feed
	Prefs         prefs.Store
	Watch         *rolewatch.Manager
	Sessions      session.Service
	Notifications notification.Service
}

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth / Sessions ==========
	sessionHandler := session.NewHandler(deps.Sessions, deps.Prefs, deps.Watch, auditSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/registrar", sessionHandler.Register)
		authGroup.POST("/login", middleware.LoginRateLimiter(), sessionHandler.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(deps.Sessions), sessionHandler.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(deps.Sessions), sessionHandler.Me)
	}

	// ========== Events (public storefront) ==========
	eventSvc := event.NewService(deps.Gateway, deps.Feed, deps.Prefs, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	api.GET("/eventos", eventHandler.List)
	api.GET("/eventos/stream", eventHandler.Stream)
	api.GET("/eventos/categoria/:categoria", eventHandler.ListByCategory)
	api.GET("/eventos/:id", eventHandler.Get)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Sessions))

	// ========== Notifications (any authenticated user) ==========
	notifHandler := notification.NewHandler(deps.Notifications)

	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", notifHandler.ListInApp)
		notifGroup.GET("/unread-count", notifHandler.UnreadCount)
		notifGroup.GET("/stream", notifHandler.StreamInApp)
		notifGroup.PUT("/read-all", notifHandler.MarkAllInAppRead)
		notifGroup.PUT("/:id/read", notifHandler.MarkInAppRead)
	}

	// ========== Tickets ==========
	ticketSvc := ticket.NewService(deps.Gateway, auditSvc)
	ticketHandler := ticket.NewHandler(ticketSvc)

	elevated := middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleSuper)

	ticketGroup := protected.Group("/ingressos")
	{
		ticketGroup.GET("/stream", ticketHandler.Stream)
		ticketGroup.POST("/comprar", ticketHandler.Purchase)
		ticketGroup.PUT("/:id/cancelar", ticketHandler.Cancel)

		ticketGroup.POST("", elevated, ticketHandler.Create)
		ticketGroup.GET("/evento/:eventoId", elevated, ticketHandler.GetByEvent)
		ticketGroup.PUT("/:id", elevated, ticketHandler.Update)
	}

	// ========== Permissions ==========
	permSvc := permission.NewService(deps.Gateway, deps.Prefs, deps.Watch, auditSvc, cfg.StatusPageInterval)
	permHandler := permission.NewHandler(permSvc, deps.Gateway)

	permGroup := protected.Group("/permissoes")
	{
		permGroup.POST("/solicitar", middleware.RequireRole(middleware.RoleUser), permHandler.Submit)
		permGroup.GET("/minha", permHandler.MyStatus)
		permGroup.DELETE("/minha", permHandler.ClearMine)

		superOnly := middleware.RequireRole(middleware.RoleSuper)
		permGroup.GET("/pendentes", superOnly, permHandler.Pending)
		permGroup.GET("/pendentes/stream", superOnly, permHandler.PendingStream)
		permGroup.PUT("/:id/aprovar", superOnly, permHandler.Approve)
		permGroup.PUT("/:id/negar", superOnly, permHandler.Deny)
	}

	// ========== Event management (Admin + Super) ==========
	eventAdmin := protected.Group("/eventos")
	eventAdmin.Use(elevated)
	{
		eventAdmin.POST("", eventHandler.Create)
		eventAdmin.POST("/refresh", eventHandler.Refresh)
		eventAdmin.PUT("/:id", eventHandler.Update)
		eventAdmin.DELETE("/:id", eventHandler.Delete)
		eventAdmin.PATCH("/:id/cancelar", eventHandler.Cancel)
		eventAdmin.PUT("/:id/imagem", eventHandler.SetImage)
		eventAdmin.DELETE("/:id/imagem", eventHandler.ClearImage)
	}

	// ========== Reports (Admin + Super) ==========
	reportSvc := reports.NewService(deps.Feed, deps.Gateway, auditSvc, reports.NewReportExporter())
	reportHandler := reports.NewHandler(reportSvc)

	protected.GET("/reports", elevated, reportHandler.Download)

	// ========== Super Admin ==========
	saSvc := superadmin.NewService(deps.Gateway, deps.Feed, auditSvc)
	saHandler := superadmin.NewHandler(saSvc, deps.Gateway)

	saGroup := protected.Group("/super-admin")
	saGroup.Use(middleware.RequireRole(middleware.RoleSuper))
	{
		saGroup.POST("/admins", saHandler.CreateAdmin)
		saGroup.GET("/admins", saHandler.ListAdmins)
		saGroup.GET("/admins/stream", saHandler.StreamAdmins)
		saGroup.DELETE("/admins/:id", saHandler.RemoveAdmin)

		saGroup.GET("/usuarios", saHandler.ListUsers)
		saGroup.GET("/usuarios/stream", saHandler.StreamUsers)
		saGroup.GET("/usuarios/removidos", saHandler.ListDeletedUsers)
		saGroup.DELETE("/usuarios/:id", saHandler.RemoveUser)
		saGroup.PUT("/usuarios/:id/promover", saHandler.Promote)
		saGroup.PUT("/usuarios/:id/rebaixar", saHandler.Demote)

		saGroup.DELETE("/eventos/:id", saHandler.DeleteEvent)
		saGroup.GET("/eventos/cancelados", saHandler.ListCancelledEvents)
		saGroup.PUT("/eventos/:id/reativar", saHandler.ReactivateEvent)
	}

	// ========== Audit Logs (Super Admin only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RequireRole(middleware.RoleSuper))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}
}
