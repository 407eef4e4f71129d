// Package core provides per-IP rate limiting for the public endpoints.
package core

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client key (IP address).
type RateLimiter interface {
	// Allow reports whether the key may make another request now.
	Allow(ctx context.Context, key string) bool
}

// NewRateLimiter returns a Redis-backed fixed-window limiter when a client is
// available, otherwise an in-process fallback.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) RateLimiter {
	if rdb != nil {
		return NewRedisRateLimiter(rdb, limit, window)
	}
	return NewMemoryRateLimiter(limit, window)
}

// RedisRateLimiter counts requests in fixed windows keyed by (ip, window
// number), so limits hold across server instances.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a Redis fixed-window limiter
func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	bucket := fmt.Sprintf("dl:rl:%s:%d", key, time.Now().UnixNano()/int64(l.window))

	count, err := l.rdb.Incr(ctx, bucket).Result()
	if err != nil {
		// Fail open: a broken limiter must not take the catalog down.
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, bucket, l.window)
	}

	return count <= int64(l.limit)
}

// MemoryRateLimiter is the in-process fallback: a token bucket per IP with
// burst equal to the window limit, kept in a bounded LRU so idle clients age
// out.
type MemoryRateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	limit    int
	window   time.Duration
}

// NewMemoryRateLimiter creates the in-process fallback limiter
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	cache, _ := lru.New[string, *rate.Limiter](4096)
	return &MemoryRateLimiter{
		limiters: cache,
		limit:    limit,
		window:   window,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) bool {
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.limit)/l.window.Seconds()), l.limit)
		l.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}
