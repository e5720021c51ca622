package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Enabled:         true,
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "ramen-images",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	cfg := testStorageConfig()
	cfg.Bucket = ""
	_, err := NewS3ObjectStorage(ctx, cfg)
	assert.ErrorContains(t, err, "bucket is required")

	cfg = testStorageConfig()
	cfg.Endpoint = "not a url"
	_, err = NewS3ObjectStorage(ctx, cfg)
	assert.ErrorContains(t, err, "invalid storage endpoint")
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*config.StorageConfig)
		want string
	}{
		{"cdn base wins", func(c *config.StorageConfig) { c.PublicBaseURL = "https://cdn.ramen.test/" }, "https://cdn.ramen.test"},
		{"path style endpoint", func(c *config.StorageConfig) {}, "http://localhost:9000/ramen-images"},
		{"virtual host endpoint", func(c *config.StorageConfig) {
			c.Endpoint = "https://r2.example.com"
			c.UsePathStyle = false
		}, "https://ramen-images.r2.example.com"},
		{"aws default", func(c *config.StorageConfig) {
			c.Endpoint = ""
			c.Region = "eu-west-1"
		}, "https://ramen-images.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig()
			tt.mod(&cfg)
			assert.Equal(t, tt.want, publicBase(cfg))
		})
	}
}

func TestS3ObjectStorage_PresignPut(t *testing.T) {
	s, err := NewS3ObjectStorage(context.Background(), testStorageConfig())
	require.NoError(t, err)

	raw, expiresAt, err := s.PresignPut(context.Background(), "products/2026/03/bowl.jpg", "image/jpeg", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/ramen-images/products/2026/03/bowl.jpg", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))

	_, _, err = s.PresignPut(context.Background(), "", "image/jpeg", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)

	assert.Equal(t, "http://localhost:9000/ramen-images/products/a.png", s.PublicURL("/products/a.png"))
}

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage("http://localhost:8080/static/")

	require.NoError(t, s.Put(ctx, "recipes/shoyu.webp", strings.NewReader("webp-bytes"), 10, "image/webp"))
	b, ok := s.Object("recipes/shoyu.webp")
	require.True(t, ok)
	assert.Equal(t, "webp-bytes", string(b))
	assert.Equal(t, "http://localhost:8080/static/recipes/shoyu.webp", s.PublicURL("recipes/shoyu.webp"))

	presigned, _, err := s.PresignPut(ctx, "recipes/shoyu.webp", "image/webp", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(presigned, "http://localhost:8080/static/upload/recipes/shoyu.webp?expires="))

	require.NoError(t, s.Delete(ctx, "recipes/shoyu.webp"))
	_, ok = s.Object("recipes/shoyu.webp")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Put(ctx, "", strings.NewReader(""), 0, ""), ErrEmptyKey)
}
