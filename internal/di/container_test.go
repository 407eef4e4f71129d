package di

import (
	"testing"

	"github.com/stretchr/testify/assert"

	testutil "document-downloader/api/internal/testing"
	"document-downloader/api/pkg/config"
)

func TestContainer(t *testing.T) {
	db, _, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	cfg := &config.Config{}
	cfg.Auth.SecretKey = "test-secret"
	cfg.Downloads.RateLimit = 30
	cfg.Downloads.RateLimitWindow = 60

	container := NewContainer(db, cfg)

	t.Run("provides repositories", func(t *testing.T) {
		assert.NotNil(t, container.GetDocumentRepository())
		assert.NotNil(t, container.GetDownloadRepository())
	})

	t.Run("provides services", func(t *testing.T) {
		assert.NotNil(t, container.GetNonceService())
		assert.NotNil(t, container.GetRateLimiter())
		assert.NotNil(t, container.GetResultCache())
	})

	t.Run("singleton pattern", func(t *testing.T) {
		repo1 := container.GetDownloadRepository()
		repo2 := container.GetDownloadRepository()
		assert.Same(t, repo1, repo2)

		cache1 := container.GetResultCache()
		cache2 := container.GetResultCache()
		assert.Same(t, cache1, cache2)
	})

	t.Run("provides database", func(t *testing.T) {
		assert.Same(t, db, container.GetDB())
	})

	t.Run("provides config", func(t *testing.T) {
		assert.Same(t, cfg, container.GetConfig())
	})
}

func TestContainerWithRedis(t *testing.T) {
	db, _, cleanup := testutil.NewMockDB(t)
	defer cleanup()

	container := NewContainer(db, &config.Config{})

	t.Run("redis is nil by default", func(t *testing.T) {
		assert.Nil(t, container.GetRedis())
	})
}
