package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already handled
type IdempotencyStore interface {
	// MarkProcessed atomically claims key for ttl. It returns false when
	// the key was already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
}
