package geo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fraudgate/pkg/platform/sentinel"
)

const (
	cacheKeyPrefix = "geo:ip:"
	notFoundMarker = "-"
)

// RedisCache caches a Resolver's answers, including not-found answers.
// Cache failures fall through to the wrapped resolver.
type RedisCache struct {
	next   Resolver
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache wraps next.
func NewRedisCache(next Resolver, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) ResolveCountry(ctx context.Context, ip string) (string, error) {
	key := cacheKeyPrefix + ip
	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == notFoundMarker {
			return "", sentinel.ErrNotFound
		}
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "geo cache read failed", "error", err)
	}

	country, err := c.next.ResolveCountry(ctx, ip)
	value := country
	if errors.Is(err, sentinel.ErrNotFound) {
		value = notFoundMarker
	} else if err != nil {
		return "", err
	}
	if setErr := c.client.Set(ctx, key, value, c.ttl).Err(); setErr != nil {
		c.logger.WarnContext(ctx, "geo cache write failed", "error", setErr)
	}
	return country, err
}
