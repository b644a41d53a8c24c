package markup

import (
	"github.com/charmbracelet/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

const svgMediaType = "image/svg+xml"

// Options controls a vector transform. Build it with Merge.
type Options struct {
	Monochrome          string
	Simplified          bool
	ViewBox             string
	PreserveAspectRatio string
	ColorTransforms     []asset.ColorTransform
	Width, Height       int
}

// Merge collects the vector options of a variant. Fields set in the nested
// svg block override the top-level variant fields.
func Merge(v asset.Variant) Options {
	opts := Options{
		Simplified:          v.Simplified,
		ViewBox:             v.ViewBox,
		PreserveAspectRatio: v.PreserveAspectRatio,
		ColorTransforms:     v.ColorTransforms,
		Width:               v.Width,
		Height:              v.Height,
	}
	if v.Monochrome != nil {
		opts.Monochrome = v.Monochrome.Color
		if opts.Monochrome == "" {
			opts.Monochrome = "#000000"
		}
	}

	if s := v.SVG; s != nil {
		if s.Monochrome != "" {
			opts.Monochrome = s.Monochrome
		}
		if s.Simplified {
			opts.Simplified = true
		}
		if s.ViewBox != "" {
			opts.ViewBox = s.ViewBox
		}
		if s.PreserveAspectRatio != "" {
			opts.PreserveAspectRatio = s.PreserveAspectRatio
		}
		if len(s.ColorTransforms) > 0 {
			opts.ColorTransforms = s.ColorTransforms
		}
	}
	return opts
}

// Optimizer is a text-in, text-out markup cleanup pass.
type Optimizer interface {
	Optimize(svg string) (string, error)
}

// MinifyOptimizer cleans markup with the tdewolff SVG minifier.
type MinifyOptimizer struct {
	m *minify.M
}

// NewMinifyOptimizer returns an optimizer with the SVG and CSS minifiers
// registered.
func NewMinifyOptimizer() *MinifyOptimizer {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add(svgMediaType, &svg.Minifier{})
	return &MinifyOptimizer{m: m}
}

// Optimize implements Optimizer.
func (o *MinifyOptimizer) Optimize(doc string) (string, error) {
	out, err := o.m.String(svgMediaType, doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRender, err, "optimize svg")
	}
	return out, nil
}

// NopOptimizer returns markup unchanged.
type NopOptimizer struct{}

// Optimize implements Optimizer.
func (NopOptimizer) Optimize(doc string) (string, error) { return doc, nil }

// Transform runs the full vector rewrite: recolor and simplify, optimize,
// strip effect attributes, then inject root attributes.
func Transform(doc string, opts Options, opt Optimizer, logger *log.Logger) (string, error) {
	if opt == nil {
		opt = NopOptimizer{}
	}

	if opts.Monochrome != "" {
		doc = Recolor(doc, opts.Monochrome)
		if opts.Simplified {
			doc = Simplify(doc)
		}
	}

	if len(opts.ColorTransforms) > 0 && logger != nil {
		logger.Warn("Color transforms are not yet supported in SVG processing", "count", len(opts.ColorTransforms))
	}

	doc, err := opt.Optimize(doc)
	if err != nil {
		return "", err
	}

	if opts.Simplified {
		doc = StripEffects(doc)
	}

	if opts.ViewBox != "" {
		doc = SetViewBox(doc, opts.ViewBox)
	}
	if opts.PreserveAspectRatio != "" {
		doc = SetPreserveAspectRatio(doc, opts.PreserveAspectRatio)
	}
	return SetDimensions(doc, opts.Width, opts.Height), nil
}
