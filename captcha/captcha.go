// Package captcha renders a short one-time challenge code as an image and
// validates guesses against it. The plaintext code never leaves the
// Challenge: callers get the rendered image and a boolean verdict, nothing
// else.
package captcha

import (
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/big"
	mathrand "math/rand"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// alphabet excludes glyphs that read ambiguously in a small bitmap font
// (0/O, 1/I).
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	defaultLength  = 4
	defaultWidth   = 120
	defaultHeight  = 40
	defaultStrokes = 3
)

// ErrGeneration is returned when the system entropy source fails.
var ErrGeneration = errors.New("captcha generation failed")

// Config sizes the challenge. Zero values fall back to the 4-glyph 120x40
// rendering with 3 decoy strokes.
type Config struct {
	Length  int
	Width   int
	Height  int
	Strokes int
}

func (c Config) withDefaults() Config {
	if c.Length <= 0 {
		c.Length = defaultLength
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Strokes < 0 {
		c.Strokes = defaultStrokes
	}
	return c
}

// Challenge holds one live code and its rendering. Exactly one code is live
// at a time; Refresh is the only way to invalidate it. Validate never
// mutates the held code.
type Challenge struct {
	mu   sync.Mutex
	cfg  Config
	code string
	img  *image.RGBA
}

// New generates the initial code and rendering.
func New(cfg Config) (*Challenge, error) {
	c := &Challenge{cfg: cfg.withDefaults()}
	if err := c.regenerate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports whether guess matches the held code, ignoring case. It
// is a pure predicate: a mismatch does not consume or regenerate the code;
// the caller decides when to Refresh.
func (c *Challenge) Validate(guess string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.ToUpper(strings.TrimSpace(guess)) == c.code
}

// Refresh replaces the code and rendering. The previous code stops being
// valid immediately.
func (c *Challenge) Refresh() error {
	return c.regenerate()
}

// Image returns the current rendering. The returned image is replaced, not
// mutated, on Refresh, so callers may keep it.
func (c *Challenge) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}

// PNG encodes the current rendering to w.
func (c *Challenge) PNG(w io.Writer) error {
	return png.Encode(w, c.Image())
}

func (c *Challenge) regenerate() error {
	code, err := randomCode(c.cfg.Length)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.code = code
	c.img = render(c.cfg, code)
	return nil
}

func randomCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

func render(cfg Config, code string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))

	bg := color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	for i := range img.Pix {
		switch i % 4 {
		case 0, 1, 2:
			img.Pix[i] = bg.R
		case 3:
			img.Pix[i] = 0xff
		}
	}

	fg := image.NewUniform(color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  fg,
		Face: face,
	}

	// Space the glyphs across the canvas with a little vertical jitter so
	// adjacent codes do not render pixel-identically.
	step := (cfg.Width - 30) / len(code)
	if step < face.Advance {
		step = face.Advance
	}
	for i := 0; i < len(code); i++ {
		x := 15 + i*step
		y := cfg.Height/2 + face.Ascent/2 + mathrand.Intn(5) - 2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(code[i : i+1])
	}

	stroke := color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	for i := 0; i < cfg.Strokes; i++ {
		drawLine(img,
			mathrand.Intn(cfg.Width), mathrand.Intn(cfg.Height),
			mathrand.Intn(cfg.Width), mathrand.Intn(cfg.Height),
			stroke)
	}

	return img
}

// drawLine plots an integer Bresenham segment.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
