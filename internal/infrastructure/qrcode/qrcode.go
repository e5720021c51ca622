// Package qrcode renders the QR labels stuck on fridges, production
// item bins and employee badges.
package qrcode

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels
const DefaultSize = 512

const (
	minSize = 128
	maxSize = 2048
)

// ErrEmptyToken is returned when there is nothing to encode
var ErrEmptyToken = errors.New("qr token is required")

// Generator encodes tokens as links under the public base URL, so a phone
// camera opens the scanner page directly
type Generator struct {
	baseURL string
	level   qr.RecoveryLevel
}

// NewGenerator creates a generator for links under baseURL
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		// labels get splashed in the kitchen
		level: qr.High,
	}
}

// URLFor returns the link encoded for token
func (g *Generator) URLFor(token string) string {
	return g.baseURL + "/qr/" + url.PathEscape(token)
}

// BadgeURLFor returns the link encoded on an employee badge
func (g *Generator) BadgeURLFor(token string) string {
	return g.baseURL + "/timeclock/badge/" + url.PathEscape(token)
}

// PNG renders the label for token. size is clamped to a printable range;
// zero picks DefaultSize.
func (g *Generator) PNG(token string, size int) ([]byte, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}
	return g.encode(g.URLFor(token), size)
}

// BadgePNG renders an employee badge
func (g *Generator) BadgePNG(token string, size int) ([]byte, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}
	return g.encode(g.BadgeURLFor(token), size)
}

func (g *Generator) encode(content string, size int) ([]byte, error) {
	png, err := qr.Encode(content, g.level, ClampSize(size))
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// ClampSize bounds a requested edge length
func ClampSize(size int) int {
	if size == 0 {
		return DefaultSize
	}
	return min(max(size, minSize), maxSize)
}
