package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStorage struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) PresignPut(_ context.Context, key, _ string, expires time.Duration) (string, time.Time, error) {
	return "https://bucket.test/" + key + "?sig=abc", time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC).Add(expires), nil
}

func (m *memStorage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// smallest valid PNG header plus IHDR chunk
var pngBytes = []byte{
	0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func newService(storage ObjectStorage, maxBytes int64) *MediaService {
	svc := NewMediaService(storage, maxBytes, 0, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestMediaService_Presign(t *testing.T) {
	svc := newService(newMemStorage(), 0)

	resp, err := svc.Presign(context.Background(), PresignRequest{Filename: "bowl.webp", ContentType: "image/webp", Folder: "products"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "products/2026/03/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".webp"))
	assert.Equal(t, "PUT", resp.Method)
	assert.Equal(t, "image/webp", resp.Headers["Content-Type"])
	assert.Equal(t, "https://cdn.test/"+resp.Key, resp.PublicURL)
	assert.Equal(t, time.Date(2026, 3, 14, 12, 15, 0, 0, time.UTC), resp.ExpiresAt)
}

func TestMediaService_PresignRejectsNonImages(t *testing.T) {
	svc := newService(newMemStorage(), 0)
	_, err := svc.Presign(context.Background(), PresignRequest{Filename: "x.svg", ContentType: "image/svg+xml"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", de.Code)
}

func TestMediaService_UploadSniffsContent(t *testing.T) {
	storage := newMemStorage()
	svc := newService(storage, 0)

	resp, err := svc.Upload(context.Background(), "../../etc", "chashu.jpg", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.Key, "misc/2026/03/"), "unknown folders collapse to misc")
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Equal(t, pngBytes, storage.objects[resp.Key])
	assert.Equal(t, int64(len(pngBytes)), resp.Size)
}

func TestMediaService_UploadRejections(t *testing.T) {
	svc := newService(newMemStorage(), 16)
	var de *shared.DomainError

	_, err := svc.Upload(context.Background(), "products", "big.png", bytes.NewReader(pngBytes))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "FILE_TOO_LARGE", de.Code)

	_, err = svc.Upload(context.Background(), "products", "note.txt", strings.NewReader("hello"))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", de.Code)

	_, err = svc.Upload(context.Background(), "products", "empty.png", bytes.NewReader(nil))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "EMPTY_FILE", de.Code)
}

func TestMediaService_UploadStorageFailure(t *testing.T) {
	storage := newMemStorage()
	storage.putErr = errors.New("bucket gone")
	svc := newService(storage, 0)

	_, err := svc.Upload(context.Background(), "products", "a.png", bytes.NewReader(pngBytes))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}
