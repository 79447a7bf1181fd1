package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const recencyKeyPrefix = "escalation:"

// RedisStore keeps one sorted set per key, scored by occurrence time in
// milliseconds, so every instance sees the same history.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Hit trims, counts, and records in one MULTI so concurrent hits on the same
// key each see a consistent prior count.
func (s *RedisStore) Hit(ctx context.Context, key string, at time.Time, window time.Duration) (int, error) {
	k := recencyKeyPrefix + key
	cutoff := strconv.FormatInt(at.Add(-window).UnixMilli(), 10)

	var card *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, k, "-inf", cutoff)
		card = p.ZCard(ctx, k)
		p.ZAdd(ctx, k, redis.Z{Score: float64(at.UnixMilli()), Member: uuid.NewString()})
		p.PExpire(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record recency hit: %w", err)
	}
	return int(card.Val()), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, recencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset recency key: %w", err)
	}
	return nil
}
