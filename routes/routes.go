package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/config"
	"github.com/sharath018/temple-directory-backend/internal/auditlog"
	"github.com/sharath018/temple-directory-backend/internal/auth"
	"github.com/sharath018/temple-directory-backend/internal/notification"
	"github.com/sharath018/temple-directory-backend/internal/place"
	"github.com/sharath018/temple-directory-backend/internal/reports"
	"github.com/sharath018/temple-directory-backend/internal/search"
	"github.com/sharath018/temple-directory-backend/internal/upload"
	"github.com/sharath018/temple-directory-backend/internal/users"
	"github.com/sharath018/temple-directory-backend/middleware"
)

// Deps bundles the externally constructed pieces the router needs.
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier place.Notifier
	Storage  upload.Storage
}

// Setup wires repositories, services, and handlers onto the router in the
// repo -> service -> handler order.
func Setup(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auditRepo := auditlog.NewRepository(d.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	authRepo := auth.NewRepository(d.DB)
	authSvc := auth.NewService(authRepo, d.Cfg)
	authHandler := auth.NewHandler(authSvc, auditSvc)

	placeRepo := place.NewRepository(d.DB)
	placeSvc := place.NewService(placeRepo, auditSvc, d.Notifier)
	placeHandler := place.NewHandler(placeSvc)

	searchHandler := search.NewHandler(placeRepo, search.DefaultConfig())

	userRepo := users.NewRepository(d.DB)
	userSvc := users.NewService(userRepo, auditSvc)
	userHandler := users.NewHandler(userSvc)

	notifRepo := notification.NewRepository(d.DB)
	notifHandler := notification.NewHandler(notifRepo)

	reportHandler := reports.NewHandler(reports.NewService(placeRepo))

	uploadHandler := upload.NewHandler(d.Storage)

	requireAuth := middleware.AuthMiddleware(d.Cfg, authSvc)
	optionalAuth := middleware.OptionalAuthMiddleware(d.Cfg, authSvc)

	api := r.Group("/api/v1", middleware.RateLimiter(), middleware.AuditMiddleware())

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
	}

	// Public directory, with privileged widening under optional auth.
	api.GET("/places", optionalAuth, searchHandler.Search)
	api.GET("/places/query", optionalAuth, searchHandler.Query)
	api.GET("/places/:slug", optionalAuth, placeHandler.GetBySlug)
	api.GET("/temples/tags", searchHandler.BrowseByTag)
	api.GET("/temples/tags/options", searchHandler.TagOptions)

	// Content management
	managed := api.Group("", requireAuth, middleware.RequirePrivileged())
	{
		managed.POST("/places", placeHandler.Create)
		managed.PUT("/places/:slug", placeHandler.Update)
		managed.DELETE("/places/:slug", placeHandler.Delete)
		managed.POST("/places/images", uploadHandler.UploadImage)
	}

	// Moderation
	moderation := api.Group("", requireAuth, middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleEvaluator))
	{
		moderation.POST("/places/approve", placeHandler.Moderate)
		moderation.POST("/places/edit-approve", placeHandler.EditModerate)
	}

	// Notifications for the signed-in user
	notif := api.Group("/notifications", requireAuth)
	{
		notif.GET("", notifHandler.List)
		notif.PATCH("/:id/read", notifHandler.MarkRead)
		notif.PATCH("/read-all", notifHandler.MarkAllRead)
	}

	// Admin
	admin := api.Group("", requireAuth, middleware.RBACMiddleware(auth.RoleAdmin))
	{
		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.GET("/users/:id", userHandler.Get)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)

		admin.GET("/audit-logs", auditHandler.GetAuditLogs)
		admin.GET("/audit-logs/:id", auditHandler.GetAuditLogByID)

		admin.GET("/reports/places/export", reportHandler.Export)
	}
}
