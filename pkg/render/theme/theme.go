// Package theme implements the dark and monochrome color treatments.
//
// Both treatments work on non-premultiplied pixels and never touch the
// alpha channel, so transparent regions stay transparent.
package theme

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/render/colors"
)

const (
	// DefaultThreshold is the binarization cutoff when none is configured.
	DefaultThreshold = 128

	// DefaultColor is the monochrome paint color when none is configured.
	DefaultColor = "#000000"

	// fallbackThreshold replaces thresholds >= 100 for white and custom
	// paint colors.
	fallbackThreshold = 64
)

// Kind is the treatment selected for a variant.
type Kind int

// Treatments.
const (
	None Kind = iota
	Dark
	Monochrome
)

// Select picks the treatment for a variant. Dark wins over monochrome; a
// monochrome value on the variant implies the monochrome treatment.
func Select(v asset.Variant, opts asset.Options) Kind {
	if v.Theme == asset.ThemeDark || opts.Theme == asset.ThemeDark {
		return Dark
	}
	if v.Theme == asset.ThemeMonochrome || opts.Theme == asset.ThemeMonochrome || v.Monochrome != nil {
		return Monochrome
	}
	return None
}

// ResolveMonochrome applies precedence: variant value, then the pipeline's
// monochrome theme default, then {#000000, 128}. Missing fields of the
// winning value are filled from the built-in default.
func ResolveMonochrome(variant, pipelineDefault *asset.Monochrome) asset.Monochrome {
	src := variant
	if src == nil {
		src = pipelineDefault
	}
	out := asset.Monochrome{Color: DefaultColor, Threshold: DefaultThreshold}
	if src != nil {
		if src.Color != "" {
			out.Color = src.Color
		}
		if src.Threshold > 0 {
			out.Threshold = src.Threshold
		}
	}
	return out
}

// EffectiveThreshold returns the cutoff actually used for a paint color.
// Black uses the configured threshold as-is; white and custom colors use it
// only below 100 and fall back to 64 otherwise.
func EffectiveThreshold(cfg asset.Monochrome) int {
	t := cfg.Threshold
	if t <= 0 {
		t = DefaultThreshold
	}
	if colors.IsBlack(cfg.Color) {
		return t
	}
	if t < 100 {
		return t
	}
	return fallbackThreshold
}

// ApplyDark inverts the color channels in place.
func ApplyDark(img *image.NRGBA) {
	eachPixel(img, func(p []uint8) {
		p[0] = 255 - p[0]
		p[1] = 255 - p[1]
		p[2] = 255 - p[2]
	})
}

// ApplyMonochrome converts img in place to a two-level image. Pixels whose
// luma reaches the effective threshold become white, or the paint color for
// custom colors; the rest become black. Alpha is preserved.
func ApplyMonochrome(img *image.NRGBA, cfg asset.Monochrome) error {
	thr := EffectiveThreshold(cfg)

	hi := color.NRGBA{255, 255, 255, 255}
	if !colors.IsWhite(cfg.Color) && !colors.IsBlack(cfg.Color) {
		tint, err := colors.Parse(cfg.Color)
		if err != nil {
			return err
		}
		hi = tint
	}

	eachPixel(img, func(p []uint8) {
		if p[3] == 0 {
			return
		}
		if Luma(p[0], p[1], p[2]) >= thr {
			p[0], p[1], p[2] = hi.R, hi.G, hi.B
		} else {
			p[0], p[1], p[2] = 0, 0, 0
		}
	})
	return nil
}

// Luma returns the ITU-R BT.601 luma of an RGB triple, rounded.
func Luma(r, g, b uint8) int {
	return int(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}

// ToNRGBA returns img as an *image.NRGBA with origin (0,0), copying when
// necessary.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func eachPixel(img *image.NRGBA, fn func(p []uint8)) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			fn(row[i : i+4])
		}
	}
}
