//go:build vips

package codec

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"github.com/h2non/bimg"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/observability"
)

// Vips is a libvips-backed codec. It encodes WebP and AVIF in-process
// instead of shelling out, and decodes every format libvips knows.
type Vips struct{}

// NewVips returns a libvips codec.
func NewVips() *Vips { return &Vips{} }

var vipsTypes = map[asset.Format]bimg.ImageType{
	asset.FormatPNG:  bimg.PNG,
	asset.FormatJPEG: bimg.JPEG,
	asset.FormatWebP: bimg.WEBP,
	asset.FormatAVIF: bimg.AVIF,
}

// Decode implements Codec.
func (v *Vips) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	format := normalize(asset.FormatFromPath(path))

	img, err := v.decode(path)
	observability.Codec().OnDecode(ctx, string(format), time.Since(start), err)
	return img, err
}

func (v *Vips) decode(path string) (image.Image, error) {
	buf, err := bimg.Read(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	out, err := bimg.NewImage(buf).Process(bimg.Options{
		Type:           bimg.PNG,
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "vips decode %s", path)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "decode vips output")
	}
	return img, nil
}

// Encode implements Codec.
func (v *Vips) Encode(ctx context.Context, img image.Image, format asset.Format, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := v.encode(img, normalize(format), quality)
	observability.Codec().OnEncode(ctx, string(format), len(data), time.Since(start), err)
	return data, err
}

func (v *Vips) encode(img image.Image, format asset.Format, quality int) ([]byte, error) {
	t, ok := vipsTypes[format]
	if !ok {
		if format == asset.FormatSVG {
			return nil, errors.New(errors.ErrCodeUnsupportedConversion, "cannot encode a raster canvas as svg")
		}
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported output format: %s", format)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "encode intermediate png")
	}
	if format == asset.FormatPNG {
		return buf.Bytes(), nil
	}

	out, err := bimg.NewImage(buf.Bytes()).Process(bimg.Options{
		Type:    t,
		Quality: clampQuality(quality),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "vips encode %s", format)
	}
	return out, nil
}

// Metadata implements Codec. Icon containers and vector files go through
// Probe; everything else is sized by libvips.
func (v *Vips) Metadata(ctx context.Context, path string, format asset.Format) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	if format == "" {
		format = asset.FormatFromPath(path)
	}
	format = normalize(format)
	if format == asset.FormatICO || format == asset.FormatSVG {
		return ProbeFileAs(path, format)
	}

	buf, err := bimg.Read(path)
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	size, err := bimg.NewImage(buf).Size()
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeCodec, err, "vips size %s", path)
	}
	return Info{Format: format, Width: size.Width, Height: size.Height, Size: int64(len(buf))}, nil
}
