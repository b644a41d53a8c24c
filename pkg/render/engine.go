package render

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/codec"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/render/markup"
	"github.com/matzehuels/assetforge/pkg/render/overwrite"
)

// DefaultQuality is the per-format quality used when neither the variant
// nor the options set one.
var DefaultQuality = map[asset.Format]int{
	asset.FormatPNG:  90,
	asset.FormatJPEG: 85,
	asset.FormatJPG:  85,
	asset.FormatWebP: 80,
	asset.FormatAVIF: 75,
	asset.FormatSVG:  100,
}

// Defaults are the pipeline-level fallbacks, lowest in precedence.
type Defaults struct {
	Quality    map[asset.Format]int
	Monochrome *asset.Monochrome
	Overwrite  asset.OverwriteMode
}

// Engine renders variants. The zero value is not usable; use NewEngine.
type Engine struct {
	Codec     codec.Codec
	Optimizer markup.Optimizer
	Logger    *log.Logger
	Defaults  Defaults
}

// NewEngine creates an engine. Nil arguments fall back to the default
// codec, a no-op optimizer and a discarding logger.
func NewEngine(c codec.Codec, opt markup.Optimizer, logger *log.Logger) *Engine {
	if c == nil {
		c = codec.Default()
	}
	if opt == nil {
		opt = markup.NopOptimizer{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{Codec: c, Optimizer: opt, Logger: logger}
}

// Artifact is an encoded variant that has not been written yet.
type Artifact struct {
	Name   string       `json:"name"`
	Format asset.Format `json:"format"`
	Data   []byte       `json:"data"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

// Render produces the variant and writes it to dest. Any failure is
// reported as RENDER_FAILED wrapping the stage error, so the stage code
// (FILE_EXISTS, UNSUPPORTED_CONVERSION, ...) stays reachable via errors.Is.
func (e *Engine) Render(ctx context.Context, src asset.Source, v asset.Variant, dest string, opts asset.Options) (asset.Generated, error) {
	start := time.Now()

	art, err := e.produce(ctx, src, v, opts)
	if err != nil {
		return asset.Generated{}, Failure(src, v, err)
	}
	gen, err := e.Write(ctx, art, v, dest, opts)
	if err != nil {
		return asset.Generated{}, Failure(src, v, err)
	}

	e.Logger.Debug("rendered variant",
		"name", v.Name,
		"format", gen.Format,
		"size", gen.FileSize,
		"width", gen.Width,
		"height", gen.Height,
		"duration", time.Since(start))
	return gen, nil
}

// RenderBytes produces the encoded variant without touching the output
// filesystem.
func (e *Engine) RenderBytes(ctx context.Context, src asset.Source, v asset.Variant, opts asset.Options) (Artifact, error) {
	art, err := e.produce(ctx, src, v, opts)
	if err != nil {
		return Artifact{}, Failure(src, v, err)
	}
	return art, nil
}

// Failure wraps a stage error the way Render reports it.
func Failure(src asset.Source, v asset.Variant, err error) error {
	return errors.Wrap(errors.ErrCodeRender, err, "Failed to process image %s for variant %s", src.Path, v.Name)
}

func (e *Engine) produce(ctx context.Context, src asset.Source, v asset.Variant, opts asset.Options) (Artifact, error) {
	if !asset.OutputFormats[v.Format] {
		return Artifact{}, errors.New(errors.ErrCodeUnsupportedFormat, "Unsupported output format: %s", v.Format)
	}

	switch v.Format {
	case asset.FormatSVG:
		return e.renderVector(src, v)
	case asset.FormatICO:
		return e.renderIcon(ctx, src, v, opts)
	default:
		return e.renderRaster(ctx, src, v, opts)
	}
}

// Write runs the overwrite gate, writes the artifact and reads its metadata
// back from disk.
func (e *Engine) Write(ctx context.Context, art Artifact, v asset.Variant, dest string, opts asset.Options) (asset.Generated, error) {
	mode := overwrite.Resolve(v.Overwrite, opts.Overwrite, e.Defaults.Overwrite)
	if err := overwrite.Check(dest, mode, e.Logger); err != nil {
		return asset.Generated{}, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return asset.Generated{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
	}
	if err := os.WriteFile(dest, art.Data, 0o644); err != nil {
		return asset.Generated{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", dest)
	}

	gen := asset.Generated{
		Name:      v.Name,
		Path:      dest,
		Format:    art.Format,
		Width:     art.Width,
		Height:    art.Height,
		Optimised: true,
	}

	if art.Format == asset.FormatSVG {
		st, err := os.Stat(dest)
		if err != nil {
			return asset.Generated{}, errors.Wrap(errors.ErrCodeInternal, err, "stat %s", dest)
		}
		gen.FileSize = st.Size()
		return gen, nil
	}

	info, err := e.Codec.Metadata(ctx, dest, art.Format)
	if err != nil {
		return asset.Generated{}, err
	}
	gen.Width, gen.Height, gen.FileSize = info.Width, info.Height, info.Size
	return gen, nil
}

// Quality resolves variant > options > engine defaults > built-in defaults.
func (e *Engine) Quality(v asset.Variant, opts asset.Options) int {
	if v.Quality > 0 {
		return v.Quality
	}
	if opts.Quality > 0 {
		return opts.Quality
	}
	if q := e.Defaults.Quality[v.Format]; q > 0 {
		return q
	}
	if q := DefaultQuality[v.Format]; q > 0 {
		return q
	}
	return 90
}
