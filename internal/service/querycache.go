package core

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	models "document-downloader/api/internal/model"
)

// ResultCache is a short-TTL cache of fully filtered query result sets. It
// absorbs the per-keystroke query traffic the search widgets produce; entries
// expire quickly so edits to the catalog show up without invalidation
// plumbing.
type ResultCache struct {
	cache *expirable.LRU[string, []*models.Document]
}

// NewResultCache creates a result cache with the given size and TTL
func NewResultCache(size int, ttl time.Duration) *ResultCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResultCache{
		cache: expirable.NewLRU[string, []*models.Document](size, nil, ttl),
	}
}

// Key builds the cache key for a query
func (c *ResultCache) Key(term string, tax []string, exact bool) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(term)))
	for _, slug := range tax {
		b.WriteByte(0)
		b.WriteString(slug)
	}
	if exact {
		b.WriteString("\x00exact")
	}
	return b.String()
}

// Get returns the cached result set for a key
func (c *ResultCache) Get(key string) ([]*models.Document, bool) {
	return c.cache.Get(key)
}

// Set stores a result set under a key
func (c *ResultCache) Set(key string, docs []*models.Document) {
	c.cache.Add(key, docs)
}

// Purge drops every cached result set
func (c *ResultCache) Purge() {
	c.cache.Purge()
}
