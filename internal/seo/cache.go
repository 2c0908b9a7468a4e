package seo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
)

// Cache keys for rendered SEO artifacts.
const (
	cacheKeySitemap = "seo:sitemap"
	cacheKeyRSS     = "seo:rss"
	cacheKeyAtom    = "seo:atom"
)

// Cache stores rendered artifacts with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// RedisCache is a Redis-backed artifact cache. Failures degrade to cache
// misses; rendering always has the repository to fall back on.
type RedisCache struct {
	client  redis.UniversalClient
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client redis.UniversalClient, m *metrics.Metrics, log logger.Logger) *RedisCache {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisCache{client: client, metrics: m, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("SEO cache read failed",
				logger.String("redis_key", key),
				logger.Error(err),
			)
		}
		c.track(key, "miss")
		return "", false
	}
	c.track(key, "hit")
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("SEO cache write failed",
			logger.String("redis_key", key),
			logger.Error(err),
		)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("SEO cache invalidation failed",
			logger.Int("key_count", len(keys)),
			logger.Error(err),
		)
	}
}

func (c *RedisCache) track(key, result string) {
	if c.metrics != nil {
		c.metrics.SEOCacheHits.WithLabelValues(key, result).Inc()
	}
}

// nopCache is used when no Redis client is configured; every lookup is a
// miss.
type nopCache struct{}

func (nopCache) Get(context.Context, string) (string, bool)         { return "", false }
func (nopCache) Set(context.Context, string, string, time.Duration) {}
func (nopCache) Invalidate(context.Context, ...string)              {}
