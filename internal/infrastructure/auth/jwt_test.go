package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "ramen-test",
		MaxRefreshCount:        2,
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:      uuid.New(),
		Email:       "chef@ramen.test",
		Role:        shared.RoleEmployee,
		Permissions: []string{"inventory:write", "timeclock:use"},
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret"})
	assert.Equal(t, []byte("test-secret"), svc.refreshSecret)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.Equal(t, shared.RoleEmployee, claims.Role)
	assert.True(t, claims.HasPermission("inventory:write"))
	assert.False(t, claims.HasPermission("users:manage"))
	assert.True(t, claims.HasAnyPermission("users:manage", "timeclock:use"))

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, actor.UserID)
	assert.False(t, actor.Service)
}

func TestValidateToken_Failures(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token used as access token", func(t *testing.T) {
		// signed with the refresh secret, so the signature check fails first
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token used as refresh token with shared secret", func(t *testing.T) {
		one := NewJWTService(config.JWTConfig{
			Secret:                 "one-secret-for-both-token-kinds!!",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "ramen-test",
		})
		p, err := one.GenerateTokenPair(newTestInput())
		require.NoError(t, err)
		_, err = one.ValidateRefreshToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTestJWTService()
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		p, err := past.GenerateTokenPair(newTestInput())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-of-enough-size",
			AccessTokenExpiration: time.Minute,
			Issuer:                "ramen-test",
		})
		p, err := other.GenerateTokenPair(newTestInput())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other := newTestJWTService()
		other.issuer = "someone-else"
		p, err := other.GenerateTokenPair(newTestInput())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("carries the reloaded role", func(t *testing.T) {
		next, err := svc.RefreshTokenPair(pair.RefreshToken, shared.RoleAdmin, []string{"users:manage"})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, shared.RoleAdmin, claims.Role)
		assert.Equal(t, input.Email, claims.Email)
		assert.Equal(t, []string{"users:manage"}, claims.Permissions)

		refresh, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refresh.RefreshCount)
	})

	t.Run("stops after the max refresh count", func(t *testing.T) {
		token := pair.RefreshToken
		for range 2 {
			next, err := svc.RefreshTokenPair(token, input.Role, input.Permissions)
			require.NoError(t, err)
			token = next.RefreshToken
		}
		_, err := svc.RefreshTokenPair(token, input.Role, input.Permissions)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects access tokens", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken, input.Role, nil)
		assert.Error(t, err)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
	assert.Zero(t, (&Claims{}).GetRemainingTTL())
}
