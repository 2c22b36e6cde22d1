package avatar

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b64 string) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func hasWhiteIn(img image.Image, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if rgbaAt(img, x, y) == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				return true
			}
		}
	}
	return false
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"User1 Account1", "UA"},
		{"ada lovelace", "AL"},
		{"  spaced   out  ", "SO"},
		{"single", "S"},
		{"", ""},
		{"élise noël", "ÉN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Initials(tt.name), "name %q", tt.name)
	}
}

func TestColorFor(t *testing.T) {
	g := New()

	for id := 0; id < 20; id++ {
		assert.Equal(t, DefaultPalette[id%len(DefaultPalette)], g.ColorFor(id))
	}
	assert.Equal(t, g.ColorFor(3), g.ColorFor(11))
	assert.Equal(t, DefaultPalette[7], g.ColorFor(-1))
}

func TestBase64_DecodesToFixedSizePNG(t *testing.T) {
	g := New()

	for _, id := range []int{1, 2, 8, 300} {
		b64, err := g.Base64(id, "User Account")
		require.NoError(t, err)

		img := decode(t, b64)
		assert.Equal(t, image.Rect(0, 0, DefaultSize, DefaultSize), img.Bounds())
		assert.Equal(t, g.ColorFor(id), rgbaAt(img, 0, 0))
		assert.Equal(t, g.ColorFor(id), rgbaAt(img, DefaultSize-1, DefaultSize-1))
	}
}

func TestRender_Deterministic(t *testing.T) {
	g := New()

	a, err := g.Render(5, "User5 Account5")
	require.NoError(t, err)
	b, err := g.Render(5, "User5 Account5")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRender_CenteredInitials(t *testing.T) {
	g := New()

	b64, err := g.Base64(1, "User1 Account1")
	require.NoError(t, err)
	img := decode(t, b64)

	assert.True(t, hasWhiteIn(img, image.Rect(50, 50, 150, 150)))
	assert.False(t, hasWhiteIn(img, image.Rect(0, 0, 40, 40)))
}

func TestRender_FallbackForUnsupportedGlyphs(t *testing.T) {
	g := New()

	b64, err := g.Base64(2, "Жанна Иванова")
	require.NoError(t, err)
	img := decode(t, b64)

	assert.Equal(t, g.ColorFor(2), rgbaAt(img, 0, 0))
	assert.True(t, hasWhiteIn(img, image.Rect(78, 75, 100, 95)))
}

func TestRender_FallbackForWideText(t *testing.T) {
	g := New()

	b64, err := g.Base64(4, "a b c d e f g h")
	require.NoError(t, err)
	img := decode(t, b64)

	assert.True(t, hasWhiteIn(img, image.Rect(78, 75, 140, 95)))
}

func TestRender_EmptyName(t *testing.T) {
	g := New()

	b64, err := g.Base64(3, "")
	require.NoError(t, err)
	img := decode(t, b64)

	assert.False(t, hasWhiteIn(img, img.Bounds()))
}

func TestRender_InvalidGenerator(t *testing.T) {
	_, err := (&Generator{Size: 0, Palette: DefaultPalette}).Render(1, "x")
	assert.Error(t, err)

	_, err = (&Generator{Size: 10}).Render(1, "x")
	assert.Error(t, err)
}
