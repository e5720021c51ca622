package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ramenshop/backend/internal/application/media"
)

var _ media.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage keeps uploads in memory. It backs development setups
// without S3; presigned URLs point at BaseURL and are never reachable.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a stub serving from baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/static"
	}
	return &StubObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// PresignPut returns a fake upload URL
func (s *StubObjectStorage) PresignPut(_ context.Context, key, _ string, expires time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expires)
	return s.BaseURL + "/upload/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// Put stores the object in memory
func (s *StubObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if key == "" {
		return ErrEmptyKey
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	return nil
}

// Delete drops the object
func (s *StubObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// PublicURL returns BaseURL/key
func (s *StubObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}

// Object returns a stored object
func (s *StubObjectStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}
