package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore implements the idempotency store on redis so every
// server instance shares the claimed keys
type RedisIdempotencyStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on a shared client. Keys are
// namespaced by keyPrefix.
func NewRedisIdempotencyStore(client redis.Cmdable, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "ramen:idempotency:"
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisIdempotencyStore) claimKey(key string) string {
	return s.keyPrefix + key
}

func (s *RedisIdempotencyStore) resultKey(key string) string {
	return s.keyPrefix + "result:" + key
}

// MarkProcessed claims key with SETNX
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.claimKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

// IsProcessed checks whether key is claimed
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.claimKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return n > 0, nil
}

// Remember stores the outcome of the request that claimed key
func (s *RedisIdempotencyStore) Remember(ctx context.Context, key, result string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.resultKey(key), result, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent result: %w", err)
	}
	return nil
}

// Recall returns the stored outcome for key, if any
func (s *RedisIdempotencyStore) Recall(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.resultKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotent result: %w", err)
	}
	return v, true, nil
}

// Forget releases a claim so the key can be retried, used when the claimed
// operation failed
func (s *RedisIdempotencyStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.claimKey(key), s.resultKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
