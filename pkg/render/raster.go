package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/render/colors"
	"github.com/matzehuels/assetforge/pkg/render/margin"
	"github.com/matzehuels/assetforge/pkg/render/theme"
)

// state is the value threaded through the raster stages.
type state struct {
	source   *image.NRGBA // decoded input, never modified
	fg       *image.NRGBA // current foreground canvas
	backdrop color.NRGBA
	flatten  bool     // a background was explicitly requested
	steps    []string // transform log
}

func (s state) with(fg *image.NRGBA, step string) state {
	s.fg = fg
	s.steps = append(s.steps[:len(s.steps):len(s.steps)], step)
	return s
}

// frame is the per-variant geometry and color request after precedence
// has been applied.
type frame struct {
	width, height int
	margin        *asset.Margin
	background    *asset.Color
	theme         theme.Kind
	monochrome    asset.Monochrome
}

func (e *Engine) frameFor(v asset.Variant, opts asset.Options) frame {
	f := frame{
		width:      v.Width,
		height:     v.Height,
		margin:     v.Margin,
		background: v.Background,
		theme:      theme.Select(v, opts),
		monochrome: theme.ResolveMonochrome(v.Monochrome, e.Defaults.Monochrome),
	}
	if f.margin.IsZero() {
		f.margin = opts.Margin
	}
	if f.background.IsZero() {
		f.background = opts.Background
	}
	return f
}

func (e *Engine) renderRaster(ctx context.Context, src asset.Source, v asset.Variant, opts asset.Options) (Artifact, error) {
	s, err := e.decode(ctx, src)
	if err != nil {
		return Artifact{}, err
	}
	canvas, err := e.compose(s, e.frameFor(v, opts))
	if err != nil {
		return Artifact{}, err
	}

	data, err := e.Codec.Encode(ctx, canvas.fg, v.Format, e.Quality(v, opts))
	if err != nil {
		return Artifact{}, err
	}
	b := canvas.fg.Bounds()
	e.Logger.Debug("raster stages", "variant", v.Name, "steps", canvas.steps)
	return Artifact{Name: v.Name, Format: v.Format, Data: data, Width: b.Dx(), Height: b.Dy()}, nil
}

// decode is stage 1.
func (e *Engine) decode(ctx context.Context, src asset.Source) (state, error) {
	img, err := e.Codec.Decode(ctx, src.Path)
	if err != nil {
		return state{}, err
	}
	n := theme.ToNRGBA(img)
	b := n.Bounds()
	return state{source: n, fg: n, steps: []string{fmt.Sprintf("decode %dx%d", b.Dx(), b.Dy())}}, nil
}

// compose runs stages 2 to 5 on a decoded state.
func (e *Engine) compose(s state, f frame) (state, error) {
	bg, err := colors.Resolve(f.background)
	if err != nil {
		return state{}, err
	}
	s.backdrop = bg
	// The backdrop belongs to the resize step; without a requested size the
	// source keeps its own transparency.
	s.flatten = !f.background.IsZero() && (f.width > 0 || f.height > 0)

	s = resize(s, f.width, f.height)
	s = applyMargin(s, f.margin, f.width, f.height)
	if s, err = applyTheme(s, f.theme, f.monochrome); err != nil {
		return state{}, err
	}
	return flatten(s), nil
}

// resize is stage 2. With both dimensions the source is contain-fitted and
// centered on a transparent canvas of exactly width x height; with one
// dimension it is scaled proportionally.
func resize(s state, width, height int) state {
	b := s.fg.Bounds()
	switch {
	case width > 0 && height > 0:
		return s.with(containCanvas(s.fg, width, height), fmt.Sprintf("contain %dx%d", width, height))
	case width > 0:
		h := max(1, int(math.Round(float64(b.Dy())*float64(width)/float64(b.Dx()))))
		return s.with(scale(s.fg, width, h), fmt.Sprintf("scale %dx%d", width, h))
	case height > 0:
		w := max(1, int(math.Round(float64(b.Dx())*float64(height)/float64(b.Dy()))))
		return s.with(scale(s.fg, w, height), fmt.Sprintf("scale %dx%d", w, height))
	}
	return s
}

// applyMargin is stage 3. The target is the requested size, or the current
// canvas size on unset axes. The source is contain-fitted into the content
// box and padded back out to exactly the target.
func applyMargin(s state, m *asset.Margin, width, height int) state {
	if m.IsZero() {
		return s
	}
	b := s.fg.Bounds()
	tw, th := width, height
	if tw <= 0 {
		tw = b.Dx()
	}
	if th <= 0 {
		th = b.Dy()
	}

	in := margin.Calculate(m, tw, th)
	cw, ch := margin.Content(tw, th, in)
	content := containCanvas(s.source, cw, ch)

	x, y := margin.Offset(tw, th, in, cw, ch)
	canvas := imaging.New(tw, th, color.NRGBA{})
	canvas = imaging.Paste(canvas, content, image.Pt(x, y))
	return s.with(canvas, fmt.Sprintf("margin %d,%d,%d,%d", in.Top, in.Right, in.Bottom, in.Left))
}

// applyTheme is stage 4. It works on a copy so earlier states stay intact.
func applyTheme(s state, kind theme.Kind, mono asset.Monochrome) (state, error) {
	switch kind {
	case theme.Dark:
		fg := imaging.Clone(s.fg)
		theme.ApplyDark(fg)
		return s.with(fg, "dark"), nil
	case theme.Monochrome:
		fg := imaging.Clone(s.fg)
		if err := theme.ApplyMonochrome(fg, mono); err != nil {
			return state{}, err
		}
		return s.with(fg, fmt.Sprintf("monochrome %s/%d", mono.Color, theme.EffectiveThreshold(mono))), nil
	}
	return s, nil
}

// flatten is stage 5: composite the foreground over the requested backdrop.
func flatten(s state) state {
	if !s.flatten {
		return s
	}
	b := s.fg.Bounds()
	out := imaging.New(b.Dx(), b.Dy(), s.backdrop)
	out = imaging.Overlay(out, s.fg, image.Pt(0, 0), 1.0)
	return s.with(out, "flatten "+colors.Hex(s.backdrop))
}

// containCanvas scales img to fit inside w x h preserving aspect ratio and
// centers it on a transparent canvas of exactly w x h.
func containCanvas(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	r := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	nw := min(w, max(1, int(math.Round(float64(b.Dx())*r))))
	nh := min(h, max(1, int(math.Round(float64(b.Dy())*r))))

	scaled := scale(img, nw, nh)
	canvas := imaging.New(w, h, color.NRGBA{})
	return imaging.Paste(canvas, scaled, image.Pt((w-nw)/2, (h-nh)/2))
}

func scale(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
