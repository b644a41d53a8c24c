// Package margin resolves margin specifications into pixel insets.
//
// Margins are interior insets: content is fitted into the box left after
// subtracting the insets from the target, and the canvas is padded back to
// exactly the target size. They never grow the final image.
package margin

import (
	"math"

	"github.com/matzehuels/assetforge/pkg/asset"
)

// Insets holds resolved edge insets in pixels. All values are >= 0.
type Insets struct {
	Top, Right, Bottom, Left int
}

// IsZero reports whether all insets are zero.
func (i Insets) IsZero() bool {
	return i == Insets{}
}

// Calculate resolves m against a width x height canvas.
//
// Percentages are taken of min(width, height) for All, of width for
// Horizontal and the left/right edges, and of height for Vertical and the
// top/bottom edges. Values are rounded to the nearest pixel.
func Calculate(m *asset.Margin, width, height int) Insets {
	if m.IsZero() {
		return Insets{}
	}

	base := min(width, height)
	all := resolve(m.All, base)

	horizontal := all
	if m.Horizontal != nil {
		horizontal = resolve(m.Horizontal, width)
	}
	vertical := all
	if m.Vertical != nil {
		vertical = resolve(m.Vertical, height)
	}

	return Insets{
		Top:    edge(m.Top, height, vertical),
		Right:  edge(m.Right, width, horizontal),
		Bottom: edge(m.Bottom, height, vertical),
		Left:   edge(m.Left, width, horizontal),
	}
}

func edge(l *asset.Length, dim, fallback int) int {
	if l == nil {
		return fallback
	}
	return resolve(l, dim)
}

func resolve(l *asset.Length, dim int) int {
	if l == nil {
		return 0
	}
	v := l.Value
	if l.Percent {
		v = float64(dim) * l.Value / 100
	}
	// JavaScript-style rounding: halves round up.
	px := int(math.Floor(v + 0.5))
	if px < 0 {
		return 0
	}
	return px
}

// Content returns the size of the content box inside a target canvas, each
// axis clamped to at least 1 pixel.
func Content(targetW, targetH int, in Insets) (w, h int) {
	w = max(1, targetW-in.Left-in.Right)
	h = max(1, targetH-in.Top-in.Bottom)
	return w, h
}

// Offset returns where a content box of cw x ch is placed inside the target
// canvas. The left/top insets are honored while they fit; oversized margins
// are shrunk so the content always lands inside the canvas.
func Offset(targetW, targetH int, in Insets, cw, ch int) (x, y int) {
	x = min(in.Left, targetW-cw)
	y = min(in.Top, targetH-ch)
	return max(0, x), max(0, y)
}
