package media

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores uploaded images. Keys are relative object paths
// such as "products/2026/03/<uuid>.jpg".
type ObjectStorage interface {
	// PresignPut returns a URL the browser can PUT the object to directly
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, time.Time, error)
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// PublicURL is where the stored object is served from
	PublicURL(key string) string
}
