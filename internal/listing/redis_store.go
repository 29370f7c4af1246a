package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "viewstate:"

// RedisStore keeps view state in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore. A zero ttl keeps keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements ViewStateStore.
func (s *RedisStore) Get(ctx context.Context, key string) (Query, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Query{}, false, nil
		}
		return Query{}, false, fmt.Errorf("listing: redis get: %w", err)
	}
	q, err := DecodeState(raw)
	if err != nil {
		return Query{}, false, err
	}
	return q, true, nil
}

// Set implements ViewStateStore.
func (s *RedisStore) Set(ctx context.Context, key string, q Query) error {
	raw, err := EncodeState(q)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("listing: redis set: %w", err)
	}
	return nil
}

// Delete implements ViewStateStore.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("listing: redis del: %w", err)
	}
	return nil
}

var _ ViewStateStore = (*RedisStore)(nil)
