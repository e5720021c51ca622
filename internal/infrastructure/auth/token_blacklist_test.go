package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "jti-expired", 0))

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked, "zero ttl means the token is already expired")

	revoked, err = bl.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpiredEntriesAreDropped(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.Revoke(ctx, "jti", time.Minute))
	now = now.Add(2 * time.Minute)

	revoked, err := bl.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, bl.jtis)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err := bl.IsUserRevoked(ctx, "user-1", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked, "older tokens are rejected")

	revoked, err = bl.IsUserRevoked(ctx, "user-1", now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued later are accepted")

	revoked, err = bl.IsUserRevoked(ctx, "user-2", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked)
}
