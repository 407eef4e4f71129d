// Package di provides the dependency injection container for the
// application. It manages repositories and shared services with lazy
// initialization.
package di

import (
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
	"document-downloader/api/pkg/config"
)

// Container holds the application dependencies as lazily initialized
// singletons
type Container struct {
	db     *sqlx.DB
	redis  *redis.Client
	config *config.Config

	mu sync.RWMutex

	documentRepo repository.DocumentRepository
	downloadRepo repository.DownloadRepository

	nonces  *core.NonceService
	limiter core.RateLimiter
	cache   *core.ResultCache
}

// NewContainer creates a dependency injection container
func NewContainer(db *sqlx.DB, cfg *config.Config) *Container {
	return &Container{
		db:     db,
		config: cfg,
	}
}

// SetRedis sets the Redis client; nil means Redis-backed features fall back
// to in-memory implementations
func (c *Container) SetRedis(redis *redis.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redis = redis
}

// GetDB returns the database connection
func (c *Container) GetDB() *sqlx.DB {
	return c.db
}

// GetRedis returns the Redis client (may be nil)
func (c *Container) GetRedis() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redis
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDocumentRepository returns the catalog repository
func (c *Container) GetDocumentRepository() repository.DocumentRepository {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.documentRepo == nil {
		c.documentRepo = repository.NewDocumentRepository(c.db)
	}
	return c.documentRepo
}

// GetDownloadRepository returns the download log repository
func (c *Container) GetDownloadRepository() repository.DownloadRepository {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.downloadRepo == nil {
		c.downloadRepo = repository.NewDownloadRepository(c.db)
	}
	return c.downloadRepo
}

// GetNonceService returns the widget nonce issuer/verifier
func (c *Container) GetNonceService() *core.NonceService {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nonces == nil {
		c.nonces = core.NewNonceService(c.config.Auth.SecretKey, 24*time.Hour)
	}
	return c.nonces
}

// GetRateLimiter returns the per-IP query limiter. Redis-backed when Redis
// is up, in-memory otherwise.
func (c *Container) GetRateLimiter() core.RateLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limiter == nil {
		window := time.Duration(c.config.Downloads.RateLimitWindow) * time.Second
		c.limiter = core.NewRateLimiter(c.redis, c.config.Downloads.RateLimit, window)
	}
	return c.limiter
}

// GetResultCache returns the shared query result cache
func (c *Container) GetResultCache() *core.ResultCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		c.cache = core.NewResultCache(256, 30*time.Second)
	}
	return c.cache
}
