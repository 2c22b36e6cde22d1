// Package avatar renders placeholder profile pictures: a solid square in a
// palette colour with the owner's initials on top.
package avatar

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"unicode"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// DefaultSize is the edge length of generated avatars in pixels.
	DefaultSize = 200

	// textScale enlarges the 7x13 bitmap font to something legible at 200px.
	textScale = 6
)

// DefaultPalette holds the background colours, picked by id modulo length.
var DefaultPalette = []color.RGBA{
	{R: 255, G: 107, B: 107, A: 255}, // red
	{R: 255, G: 159, B: 64, A: 255},  // orange
	{R: 255, G: 206, B: 86, A: 255},  // yellow
	{R: 75, G: 192, B: 192, A: 255},  // teal
	{R: 54, G: 162, B: 235, A: 255},  // blue
	{R: 153, G: 102, B: 255, A: 255}, // purple
	{R: 255, G: 159, B: 243, A: 255}, // pink
	{R: 99, G: 255, B: 132, A: 255},  // green
}

// Generator renders avatars.
type Generator struct {
	Size       int
	Palette    []color.RGBA
	Foreground color.Color
	face       *basicfont.Face
}

// New returns a Generator with the default size and palette and white text.
func New() *Generator {
	return &Generator{
		Size:       DefaultSize,
		Palette:    DefaultPalette,
		Foreground: color.White,
		face:       basicfont.Face7x13,
	}
}

// ColorFor returns the background colour for id.
func (g *Generator) ColorFor(id int) color.RGBA {
	n := len(g.Palette)
	idx := id % n
	if idx < 0 {
		idx += n
	}
	return g.Palette[idx]
}

// Initials returns the upper-cased first letter of every word in name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Render returns the PNG encoding of the avatar for id and name.
func (g *Generator) Render(id int, name string) ([]byte, error) {
	if g.Size <= 0 {
		return nil, fmt.Errorf("invalid avatar size %d", g.Size)
	}
	if len(g.Palette) == 0 {
		return nil, fmt.Errorf("empty avatar palette")
	}

	img := image.NewRGBA(image.Rect(0, 0, g.Size, g.Size))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(g.ColorFor(id)), image.Point{}, xdraw.Src)

	initials := Initials(name)
	if initials != "" {
		if !g.drawCentered(img, initials) {
			g.drawFixed(img, initials)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode avatar png: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 returns the standard base64 encoding of Render.
func (g *Generator) Base64(id int, name string) (string, error) {
	raw, err := g.Render(id, name)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// drawCentered draws text enlarged and centered. It reports false, leaving
// dst untouched, when the font lacks a glyph or the text would not fit.
func (g *Generator) drawCentered(dst *image.RGBA, text string) bool {
	for _, r := range text {
		if !g.hasGlyph(r) {
			return false
		}
	}

	metrics := g.fontFace().Metrics()
	width := font.MeasureString(g.fontFace(), text).Ceil()
	height := metrics.Height.Ceil()
	if width <= 0 || width*textScale > g.Size || height*textScale > g.Size {
		return false
	}

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(g.foreground()),
		Face: g.fontFace(),
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(text)

	scaledW, scaledH := width*textScale, height*textScale
	x0 := (g.Size - scaledW) / 2
	y0 := (g.Size - scaledH) / 2
	xdraw.NearestNeighbor.Scale(dst, image.Rect(x0, y0, x0+scaledW, y0+scaledH), small, small.Bounds(), xdraw.Over, nil)
	return true
}

// drawFixed draws text unscaled at a fixed offset, replacing runes the font
// cannot render.
func (g *Generator) drawFixed(dst *image.RGBA, text string) {
	safe := strings.Map(func(r rune) rune {
		if g.hasGlyph(r) {
			return r
		}
		return '?'
	}, text)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(g.foreground()),
		Face: g.fontFace(),
		Dot:  fixed.P(80*g.Size/DefaultSize, 90*g.Size/DefaultSize),
	}
	d.DrawString(safe)
}

func (g *Generator) hasGlyph(r rune) bool {
	for _, rg := range g.fontFace().Ranges {
		if r >= rg.Low && r < rg.High {
			return true
		}
	}
	return false
}

func (g *Generator) fontFace() *basicfont.Face {
	if g.face == nil {
		return basicfont.Face7x13
	}
	return g.face
}

func (g *Generator) foreground() color.Color {
	if g.Foreground == nil {
		return color.White
	}
	return g.Foreground
}
