package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
	"document-downloader/api/pkg/config"
)

var startTime = time.Now()

// Dependencies holds everything the API handlers need
type Dependencies struct {
	DB        *sqlx.DB
	Redis     *redis.Client
	Config    *config.Config
	Settings  *core.SettingsWatcher
	Nonces    *core.NonceService
	Limiter   core.RateLimiter
	Cache     *core.ResultCache
	Notifier  *core.Notifier
	Documents repository.DocumentRepository
	Downloads repository.DownloadRepository
}

// SetupRouter configures all API routes
func SetupRouter(r *gin.Engine, deps *Dependencies) {
	secret := deps.Config.Auth.SecretKey

	// Public widget endpoints. These speak the bare wire contract the
	// widgets expect, not the admin response envelope.
	queryHandler := NewQueryHandler(deps.Documents, deps.Settings, deps.Cache)
	logHandler := NewLogHandler(deps.Downloads, deps.Notifier, deps.Redis)
	widgetHandler := NewWidgetHandler(deps.Documents, deps.Settings, deps.Nonces)

	public := r.Group("/api/v1")
	public.Use(SameOriginMiddleware(deps.Config.Server.PublicHost, secret))
	{
		public.GET("/widget/config", widgetHandler.Config)

		gated := public.Group("")
		gated.Use(NonceMiddleware(deps.Nonces, secret))
		{
			gated.POST("/documents/query", RateLimitMiddleware(deps.Limiter), queryHandler.Query)
			gated.POST("/downloads/log", logHandler.Log)
		}
	}

	// Auth routes (public - no middleware required)
	authHandler := NewAuthHandler(deps.Config.Auth)
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)

		authProtected := authGroup.Group("")
		authProtected.Use(AuthMiddleware(secret))
		{
			authProtected.GET("/profile", authHandler.Profile)
		}
	}

	// Admin routes (require JWT)
	downloadsHandler := NewDownloadsHandler(deps.Downloads)
	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware(secret))
	{
		admin.GET("/downloads", downloadsHandler.List)
		admin.GET("/downloads/export", downloadsHandler.Export)

		admin.GET("/settings", settingsHandler(deps))
		admin.POST("/settings/reload", settingsReloadHandler(deps))
		admin.POST("/cache/purge", cachePurgeHandler(deps))
		admin.GET("/health", healthHandler(deps))
	}

	// WebSocket live feed (token passed via query string by the admin UI)
	liveHandler := NewLiveHandler(deps.Redis, secret)
	r.GET("/ws/downloads", liveHandler.Downloads)
}

// settingsHandler GET /settings - current hot-reloadable settings
func settingsHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings := deps.Settings.Current()
		core.Success(c, gin.H{
			"downloads":     settings.Downloads,
			"notifications": settings.Notifications,
		})
	}
}

// settingsReloadHandler POST /settings/reload - force a reload from disk
func settingsReloadHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Settings.Reload(); err != nil {
			core.FailWithMessage(c, core.ErrInternalServer, err.Error())
			return
		}
		deps.Cache.Purge()
		core.Success(c, gin.H{"reloaded": true})
	}
}

// cachePurgeHandler POST /cache/purge - drop all cached query results
func cachePurgeHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Cache.Purge()
		core.Success(c, gin.H{"purged": true})
	}
}

// healthHandler GET /health - liveness of the backing services
func healthHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		checks := make(map[string]string)

		if err := deps.DB.PingContext(c.Request.Context()); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			checks["database"] = "healthy"
		}

		if deps.Redis != nil {
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				checks["redis"] = "unhealthy: " + err.Error()
				status = "degraded"
			} else {
				checks["redis"] = "healthy"
			}
		} else {
			checks["redis"] = "disabled"
		}

		core.Success(c, gin.H{
			"status": status,
			"checks": checks,
			"uptime": time.Since(startTime).String(),
		})
	}
}
