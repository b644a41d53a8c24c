package codec

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/observability"
	"github.com/matzehuels/assetforge/pkg/render/markup"
)

// DefaultMaxSide caps the longest edge of a rasterized vector source.
const DefaultMaxSide = 8192

// Native is the pure-Go codec.
type Native struct {
	// Density is the vector rasterization DPI. Zero means Density.
	Density float64

	// MaxSide caps the longest edge of rasterized vectors. Zero means
	// DefaultMaxSide.
	MaxSide int

	// External encodes WebP and AVIF. Nil means a default ExternalEncoder.
	External *ExternalEncoder
}

// NewNative returns a Native codec with default settings.
func NewNative() *Native {
	return &Native{Density: Density, MaxSide: DefaultMaxSide, External: NewExternalEncoder()}
}

// Decode implements Codec. The result is always an *image.NRGBA.
func (n *Native) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	format := normalize(asset.FormatFromPath(path))

	img, err := n.decode(path, format)
	observability.Codec().OnDecode(ctx, string(format), time.Since(start), err)
	return img, err
}

func (n *Native) decode(path string, format asset.Format) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "read %s", path)
	}

	if format == asset.FormatSVG {
		return n.rasterize(data)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "decode %s", path)
	}
	return imaging.Clone(img), nil
}

// rasterize draws an SVG document at the configured density.
func (n *Native) rasterize(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "parse svg")
	}

	w, h, ok := markup.Dimensions(string(data))
	if !ok {
		w, h = icon.ViewBox.W, icon.ViewBox.H
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeCodec, "svg has no intrinsic size")
	}

	pw, ph := n.rasterSize(w, h)
	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))
	icon.SetTarget(0, 0, float64(pw), float64(ph))
	scanner := rasterx.NewScannerGV(pw, ph, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(pw, ph, scanner), 1)

	return imaging.Clone(dst), nil
}

func (n *Native) rasterSize(w, h float64) (int, int) {
	density := n.Density
	if density <= 0 {
		density = Density
	}
	maxSide := n.MaxSide
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}

	scale := density / 72
	if longest := math.Max(w, h) * scale; longest > float64(maxSide) {
		scale *= float64(maxSide) / longest
	}
	pw := max(1, int(math.Round(w*scale)))
	ph := max(1, int(math.Round(h*scale)))
	return pw, ph
}

// Encode implements Codec.
func (n *Native) Encode(ctx context.Context, img image.Image, format asset.Format, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := n.encode(ctx, img, normalize(format), quality)
	observability.Codec().OnEncode(ctx, string(format), len(data), time.Since(start), err)
	return data, err
}

func (n *Native) encode(ctx context.Context, img image.Image, format asset.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case asset.FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCodec, err, "encode png")
		}
	case asset.FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(clampQuality(quality))); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCodec, err, "encode jpeg")
		}
	case asset.FormatWebP, asset.FormatAVIF:
		ext := n.External
		if ext == nil {
			ext = NewExternalEncoder()
		}
		return ext.Encode(ctx, img, format, clampQuality(quality))
	case asset.FormatSVG:
		return nil, errors.New(errors.ErrCodeUnsupportedConversion, "cannot encode a raster canvas as svg")
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported output format: %s", format)
	}
	return buf.Bytes(), nil
}

// Metadata implements Codec.
func (n *Native) Metadata(ctx context.Context, path string, format asset.Format) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	return ProbeFileAs(path, format)
}

func clampQuality(q int) int {
	switch {
	case q <= 0:
		return 100
	case q > 100:
		return 100
	}
	return q
}
