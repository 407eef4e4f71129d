// Package main is the entry point for the document downloader server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"document-downloader/api/internal/di"
	api "document-downloader/api/internal/handler"
	database "document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
	"document-downloader/api/pkg/config"
)

func main() {
	projectRoot := findProjectRoot()

	// Load configuration
	configPath := filepath.Join(projectRoot, "config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	if err := core.SetupLogger(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("debug", cfg.Server.Debug).
		Msg("Configuration loaded")

	// Initialize database connection
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	db := database.GetDB()

	// Initialize Redis connection (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis, falling back to in-memory rate limiting, live feed disabled")
			redisClient = nil
		} else {
			log.Info().
				Str("host", cfg.Redis.Host).
				Int("port", cfg.Redis.Port).
				Msg("Redis connected")
		}
		cancel()
	} else {
		log.Info().Msg("Redis is disabled in configuration")
	}

	container := di.NewContainer(db, cfg)
	container.SetRedis(redisClient)

	// Make sure the download log table exists before serving
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := container.GetDownloadRepository().EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Failed to ensure downloads schema")
	}
	cancel()

	// Hot-reloadable settings (match mode, excluded terms, gate flags,
	// notification options)
	settings := core.NewSettingsWatcher(configPath, cfg)
	if err := settings.WatchChanges(); err != nil {
		log.Warn().Err(err).Msg("Settings hot reload unavailable")
	}
	defer settings.Stop()

	cache := container.GetResultCache()
	settings.OnChange(func(*core.Settings) {
		// Match mode or exclusions may have changed; cached result sets
		// are no longer trustworthy.
		cache.Purge()
	})

	// Mail plumbing: per-download notifications and scheduled reports
	mailer := core.NewSMTPMailer(cfg.SMTP)
	notifier := core.NewNotifier(mailer, settings)

	reports := core.NewReportScheduler(container.GetDownloadRepository(), mailer, settings)
	if err := reports.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start report scheduler")
	}
	defer reports.Stop()

	// Setup Gin
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(core.RequestLogger())
	r.Use(core.Recovery())

	deps := &api.Dependencies{
		DB:        db,
		Redis:     redisClient,
		Config:    cfg,
		Settings:  settings,
		Nonces:    container.GetNonceService(),
		Limiter:   container.GetRateLimiter(),
		Cache:     cache,
		Notifier:  notifier,
		Documents: container.GetDocumentRepository(),
		Downloads: container.GetDownloadRepository(),
	}
	api.SetupRouter(r, deps)

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// In-flight requests keep using the rate limiter and live feed until
	// the server has drained, so Redis goes down last.
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}

	log.Info().Msg("Server stopped")
}

// findProjectRoot locates the directory holding config.yaml: the executable's
// grandparent, the parent of the working directory, then the working
// directory itself.
func findProjectRoot() string {
	const configFile = "config.yaml"
	cwd, _ := os.Getwd()

	candidates := []string{
		filepath.Dir(cwd),
		cwd,
	}

	if execPath, err := os.Executable(); err == nil {
		candidates = append([]string{filepath.Dir(filepath.Dir(execPath))}, candidates...)
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(filepath.Join(candidate, configFile)); err == nil {
			return candidate
		}
	}

	return cwd
}
