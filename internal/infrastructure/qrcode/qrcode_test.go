package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_URLs(t *testing.T) {
	g := NewGenerator("https://ramen.test/")
	assert.Equal(t, "https://ramen.test/qr/abc123", g.URLFor("abc123"))
	assert.Equal(t, "https://ramen.test/timeclock/badge/abc123", g.BadgeURLFor("abc123"))
	assert.Equal(t, "https://ramen.test/qr/a%2Fb", g.URLFor("a/b"))
}

func TestGenerator_PNG(t *testing.T) {
	g := NewGenerator("https://ramen.test")

	data, err := g.PNG("4f09ac0c2a6e4b7f9f5c1d2e3a4b5c6d", 256)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())

	data, err = g.BadgePNG("badge", 0)
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())

	_, err = g.PNG(" ", 256)
	assert.ErrorIs(t, err, ErrEmptyToken)
	_, err = g.BadgePNG("", 256)
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, DefaultSize, ClampSize(0))
	assert.Equal(t, 128, ClampSize(10))
	assert.Equal(t, 2048, ClampSize(10000))
	assert.Equal(t, 300, ClampSize(300))
	assert.Equal(t, 128, ClampSize(-5))
}
