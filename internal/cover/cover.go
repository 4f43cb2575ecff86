// Package cover renders the cover art of a loop pack: a soft metaball
// gradient in the style's palette with the loop title on top.
package cover

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"strings"
)

var ErrTextOverlayUnavailable = errors.New("cover text overlay unavailable")

const (
	DefaultSize  = 800
	epsilon      = 1e-9
	minInfluence = 1e-6
)

var palettes = map[string][]color.RGBA{
	"rock":   {{200, 30, 30, 255}, {10, 10, 10, 255}, {255, 100, 0, 255}, {80, 80, 80, 255}},
	"funk":   {{230, 50, 200, 255}, {255, 150, 0, 255}, {100, 0, 150, 255}, {255, 255, 0, 255}},
	"jazz":   {{10, 20, 80, 255}, {180, 150, 100, 255}, {200, 200, 220, 255}, {50, 50, 50, 255}},
	"blues":  {{0, 40, 120, 255}, {100, 80, 50, 255}, {10, 10, 10, 255}, {180, 180, 180, 255}},
	"reggae": {{200, 0, 0, 255}, {255, 220, 0, 255}, {0, 150, 50, 255}, {10, 10, 10, 255}},
}

var fallbackPalette = []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}}

// Palette returns the colours of a style, black and white when unknown
func Palette(style string) []color.RGBA {
	if p, ok := palettes[strings.ToLower(style)]; ok {
		return p
	}
	return fallbackPalette
}

// Options controls a cover rendering
type Options struct {
	Style    string
	Title    string // defaults to "STYLE LOOP"
	Subtitle string
	Width    int
	Height   int
	FontPath string // TrueType/OpenType file; the Go fonts when empty
}

// DefaultTitle is the title used when a loop has no cover title
func DefaultTitle(style string) string {
	return strings.ToUpper(style) + " LOOP"
}

// Subtitle formats the key and tempo line
func Subtitle(key string, bpm int) string {
	return fmt.Sprintf("%s - %d BPM", strings.ToUpper(key), bpm)
}

type blob struct {
	x, y float64
	r2   float64
	c    color.RGBA
}

// Render paints the cover. When the text cannot be drawn the gradient is
// still returned, together with an error wrapping ErrTextOverlayUnavailable.
func Render(opts Options, rng *rand.Rand) (*image.RGBA, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultSize
	}
	if opts.Height <= 0 {
		opts.Height = DefaultSize
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle(opts.Style)
	}

	img := gradient(opts.Width, opts.Height, Palette(opts.Style), rng)
	if err := overlay(img, opts); err != nil {
		return img, fmt.Errorf("%w: %v", ErrTextOverlayUnavailable, err)
	}
	return img, nil
}

// gradient blends 3-5 blobs, each pixel weighted by r^2 / d^2
func gradient(width, height int, palette []color.RGBA, rng *rand.Rand) *image.RGBA {
	short := min(width, height)
	blobs := make([]blob, 3+rng.IntN(3))
	for i := range blobs {
		r := float64(short/4 + rng.IntN(short/2-short/4+1))
		blobs[i] = blob{
			x:  float64(rng.IntN(width + 1)),
			y:  float64(rng.IntN(height + 1)),
			r2: r * r,
			c:  palette[rng.IntN(len(palette))],
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for py := range height {
		for px := range width {
			var red, green, blue, total float64
			for _, b := range blobs {
				dx, dy := float64(px)-b.x, float64(py)-b.y
				influence := b.r2 / (dx*dx + dy*dy + epsilon)
				red += influence * float64(b.c.R)
				green += influence * float64(b.c.G)
				blue += influence * float64(b.c.B)
				total += influence
			}
			if total <= minInfluence {
				img.SetRGBA(px, py, color.RGBA{A: 255})
				continue
			}
			img.SetRGBA(px, py, color.RGBA{
				R: channel(red / total),
				G: channel(green / total),
				B: channel(blue / total),
				A: 255,
			})
		}
	}
	return img
}

func channel(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// Encode writes img as PNG
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode cover: %w", err)
	}
	return nil
}

// WriteFile writes img as a PNG file
func WriteFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cover file: %w", err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
