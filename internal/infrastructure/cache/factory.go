package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResultStore is an idempotency store that also remembers what the
// claiming request produced, so a retried request can be answered with
// the original outcome
type ResultStore interface {
	shared.IdempotencyStore
	Remember(ctx context.Context, key, result string, ttl time.Duration) error
	Recall(ctx context.Context, key string) (string, bool, error)
	Forget(ctx context.Context, key string) error
}

var (
	_ ResultStore = (*RedisIdempotencyStore)(nil)
	_ ResultStore = (*InMemoryIdempotencyStore)(nil)
)

// NewRedisClient connects to redis and pings it. It returns nil without
// error when redis is disabled.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory stores")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))
	return client, nil
}

// NewIdempotencyStore returns a redis-backed store when client is set and
// an in-memory one otherwise. The returned closer stops background work.
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) (ResultStore, func() error) {
	if client != nil {
		return NewRedisIdempotencyStore(client, ""), func() error { return nil }
	}
	logger.Warn("Using in-memory idempotency store; duplicate requests are only detected per instance")
	s := NewInMemoryIdempotencyStore()
	return s, s.Close
}
