package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultMaxBytes      = 5 << 20
	defaultPresignExpiry = 15 * time.Minute
)

// allowedTypes maps accepted image content types to their extension
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PresignRequest asks for a direct-to-storage upload URL
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Folder      string `json:"folder" binding:"omitempty,oneof=products recipes classes misc"`
}

// PresignResponse tells the browser where to PUT the file and where it
// will be served from afterwards
type PresignResponse struct {
	Key       string            `json:"key"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	PublicURL string            `json:"public_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// UploadResponse describes a stored image
type UploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// MediaService stores product, recipe and class images
type MediaService struct {
	storage  ObjectStorage
	maxBytes int64
	expiry   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewMediaService creates a new MediaService. Zero limits fall back to
// 5 MiB and 15 minutes.
func NewMediaService(storage ObjectStorage, maxBytes int64, presignExpiry time.Duration, logger *zap.Logger) *MediaService {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if presignExpiry <= 0 {
		presignExpiry = defaultPresignExpiry
	}
	return &MediaService{storage: storage, maxBytes: maxBytes, expiry: presignExpiry, logger: logger, now: time.Now}
}

// MaxBytes is the largest accepted image
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// Presign returns a URL the browser can upload the image to
func (s *MediaService) Presign(ctx context.Context, req PresignRequest) (*PresignResponse, error) {
	ext, ok := allowedTypes[req.ContentType]
	if !ok {
		return nil, unsupportedType(req.ContentType)
	}
	key := s.key(req.Folder, ext)
	url, expires, err := s.storage.PresignPut(ctx, key, req.ContentType, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	s.logger.Debug("Presigned image upload", zap.String("key", key), zap.String("filename", req.Filename))
	return &PresignResponse{
		Key:       key,
		UploadURL: url,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": req.ContentType},
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expires,
	}, nil
}

// Upload sniffs and stores an image sent through the API. The declared
// content type is ignored; the bytes decide.
func (s *MediaService) Upload(ctx context.Context, folder, filename string, body io.Reader) (*UploadResponse, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", fmt.Sprintf("Images cannot exceed %d KiB", s.maxBytes>>10))
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "The uploaded file is empty")
	}

	contentType := mimetype.Detect(data).String()
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, unsupportedType(contentType)
	}
	key := s.key(folder, ext)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	s.logger.Info("Image uploaded",
		zap.String("key", key),
		zap.String("filename", path.Base(filename)),
		zap.Int("bytes", len(data)),
		zap.String("uploaded_by", shared.ActorFrom(ctx).UserID.String()))
	return &UploadResponse{Key: key, URL: s.storage.PublicURL(key), ContentType: contentType, Size: int64(len(data))}, nil
}

// key places objects under folder/YYYY/MM with a random name so user
// supplied filenames never reach the bucket
func (s *MediaService) key(folder, ext string) string {
	folder = strings.Trim(strings.ToLower(folder), "/")
	switch folder {
	case "products", "recipes", "classes":
	default:
		folder = "misc"
	}
	return fmt.Sprintf("%s/%s/%s%s", folder, s.now().UTC().Format("2006/01"), uuid.NewString(), ext)
}

func unsupportedType(contentType string) error {
	return shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE",
		fmt.Sprintf("%q is not an accepted image type (jpeg, png, webp, gif)", contentType))
}
