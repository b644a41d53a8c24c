// Package codec decodes source images, encodes rendered canvases and reads
// metadata back from written artifacts.
//
// The render engine never touches pixel formats directly; it goes through
// the [Codec] interface. [Native] is the default implementation: pure Go for
// PNG, JPEG and SVG, with WebP and AVIF encoding delegated to the libwebp
// and libavif command-line tools. Building with the "vips" tag adds a
// libvips-backed implementation.
package codec

import (
	"bytes"
	"context"
	"image"
	"math"
	"os"

	// Decoders registered for image.DecodeConfig.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/render/icon"
	"github.com/matzehuels/assetforge/pkg/render/markup"
)

// Density is the DPI used to rasterize vector sources. Vector user units
// are 1/72 inch, so a 100-unit document becomes roughly 417 pixels.
const Density = 300

// Codec decodes, encodes and inspects images.
type Codec interface {
	// Decode loads the image at path. Vector sources are rasterized at
	// Density.
	Decode(ctx context.Context, path string) (image.Image, error)

	// Encode serializes img. Quality is in 1..100 and is ignored by
	// lossless formats.
	Encode(ctx context.Context, img image.Image, format asset.Format, quality int) ([]byte, error)

	// Metadata reads format, dimensions and size from a file on disk. An
	// empty format is taken from the file extension.
	Metadata(ctx context.Context, path string, format asset.Format) (Info, error)
}

// Info is the metadata of an encoded image.
type Info struct {
	Format asset.Format
	Width  int
	Height int
	Size   int64
}

// Probe reads metadata from encoded bytes. For icon containers the
// dimensions are those of the largest embedded image.
func Probe(data []byte, format asset.Format) (Info, error) {
	info := Info{Format: format, Size: int64(len(data))}

	switch format {
	case asset.FormatSVG:
		w, h, ok := markup.Dimensions(string(data))
		if !ok {
			return info, errors.New(errors.ErrCodeCodec, "svg has no usable width/height or viewBox")
		}
		info.Width, info.Height = int(math.Round(w)), int(math.Round(h))

	case asset.FormatICO:
		entries, err := icon.ReadDirectory(bytes.NewReader(data))
		if err != nil {
			return info, err
		}
		for _, e := range entries {
			info.Width = max(info.Width, e.Width)
			info.Height = max(info.Height, e.Height)
		}

	case asset.FormatAVIF:
		w, h, err := avifDimensions(data)
		if err != nil {
			return info, err
		}
		info.Width, info.Height = w, h

	default:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return info, errors.Wrap(errors.ErrCodeCodec, err, "read %s header", format)
		}
		info.Width, info.Height = cfg.Width, cfg.Height
	}
	return info, nil
}

// ProbeFile reads path and probes it, taking the format from the extension.
func ProbeFile(path string) (Info, error) {
	return ProbeFileAs(path, "")
}

// ProbeFileAs reads path and probes it as format. An empty format is taken
// from the extension.
func ProbeFileAs(path string, format asset.Format) (Info, error) {
	if format == "" {
		format = asset.FormatFromPath(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Info{}, errors.Wrap(errors.ErrCodeCodec, err, "read %s", path)
	}
	return Probe(data, normalize(format))
}

func normalize(f asset.Format) asset.Format {
	if f == asset.FormatJPG {
		return asset.FormatJPEG
	}
	return f
}
