// Package colors resolves background and paint color specifications into
// explicit RGBA values.
//
// An unset specification resolves to fully transparent black, which is the
// compositing backdrop for every resize and extend operation.
package colors

import (
	"image/color"
	"math"
	"strings"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// Transparent is the default backdrop.
var Transparent = color.NRGBA{}

// Parse converts "#rgb" or "#rrggbb" (leading '#' optional) to an opaque
// color. Each digit of the short form is doubled, so "#abc" == "#aabbcc".
func Parse(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	var digits [6]byte
	switch len(s) {
	case 3:
		for i := 0; i < 3; i++ {
			digits[2*i], digits[2*i+1] = s[i], s[i]
		}
	case 6:
		copy(digits[:], s)
	default:
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %q", hex)
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := nibble(digits[2*i])
		lo, ok2 := nibble(digits[2*i+1])
		if !ok1 || !ok2 {
			return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %q", hex)
		}
		rgb[i] = hi<<4 | lo
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func nibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Resolve converts a background specification to a color. Nil or empty
// specifications yield Transparent.
func Resolve(c *asset.Color) (color.NRGBA, error) {
	if c.IsZero() {
		return Transparent, nil
	}
	if c.RGBA != nil {
		a := c.RGBA.Alpha
		if a < 0 || a > 1 || math.IsNaN(a) {
			return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "alpha must be between 0 and 1, got %v", a)
		}
		return color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: uint8(math.Round(a * 255))}, nil
	}
	return Parse(c.Hex)
}

// Hex formats an opaque color as "#rrggbb".
func Hex(c color.NRGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

// IsWhite reports whether hex names pure white in either notation.
func IsWhite(hex string) bool {
	s := strings.ToLower(strings.TrimSpace(hex))
	return s == "#ffffff" || s == "#fff"
}

// IsBlack reports whether hex names pure black in either notation.
func IsBlack(hex string) bool {
	s := strings.ToLower(strings.TrimSpace(hex))
	return s == "#000000" || s == "#000"
}
