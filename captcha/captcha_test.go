package captcha

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)

	assert.Len(t, c.code, 4)
	for _, r := range c.code {
		assert.Contains(t, alphabet, string(r), "code %q uses a glyph outside the alphabet", c.code)
	}

	bounds := c.Image().Bounds()
	assert.Equal(t, 120, bounds.Dx())
	assert.Equal(t, 40, bounds.Dy())
}

func TestConfigOverrides(t *testing.T) {
	c, err := New(Config{Length: 6, Width: 200, Height: 80})
	require.NoError(t, err)

	assert.Len(t, c.code, 6)
	assert.Equal(t, 200, c.Image().Bounds().Dx())
	assert.Equal(t, 80, c.Image().Bounds().Dy())
}

func TestValidateIsPureAndCaseInsensitive(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	code := c.code

	assert.True(t, c.Validate(code))
	assert.True(t, c.Validate(strings.ToLower(code)))
	assert.True(t, c.Validate("  "+code+"  "))
	assert.False(t, c.Validate(""))
	assert.False(t, c.Validate("~~~~"))

	// Neither the mismatch nor the matches consumed the code.
	assert.Equal(t, code, c.code)
	assert.True(t, c.Validate(code))
}

func TestRefreshReplacesCodeAndImage(t *testing.T) {
	c, err := New(Config{Length: 8})
	require.NoError(t, err)
	before := c.code
	beforeImg := c.Image()

	require.NoError(t, c.Refresh())

	// Eight glyphs over a 32-rune alphabet; a collision would be a bug in
	// the generator, not bad luck.
	assert.NotEqual(t, before, c.code)
	assert.NotSame(t, beforeImg, c.Image())
	assert.False(t, c.Validate(before))
	assert.True(t, c.Validate(c.code))
}

func TestPNGEncodes(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.PNG(&buf))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.Image().Bounds(), decoded.Bounds())
}

func TestRenderBackgroundDiffersFromInk(t *testing.T) {
	c, err := New(Config{Strokes: 0})
	require.NoError(t, err)

	img := c.img
	dark := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r < 0x8000 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "rendering has no ink pixels")
}
