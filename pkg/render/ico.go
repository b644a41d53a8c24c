package render

import (
	"context"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/render/icon"
)

// renderIcon rasterizes the source once per embedded size and packs the
// PNG payloads into an icon container. The reported dimensions are those
// of the largest size.
func (e *Engine) renderIcon(ctx context.Context, src asset.Source, v asset.Variant, opts asset.Options) (Artifact, error) {
	sizes := icon.ResolveSizes(v.Sizes, v.Width, v.Height)
	if err := icon.ValidateSizes(sizes); err != nil {
		return Artifact{}, err
	}

	s, err := e.decode(ctx, src)
	if err != nil {
		return Artifact{}, err
	}

	images := make([]icon.Image, 0, len(sizes))
	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}
		f := e.frameFor(v, opts)
		f.width, f.height = size, size

		canvas, err := e.compose(s, f)
		if err != nil {
			return Artifact{}, err
		}
		data, err := e.Codec.Encode(ctx, canvas.fg, asset.FormatPNG, DefaultQuality[asset.FormatPNG])
		if err != nil {
			return Artifact{}, err
		}
		images = append(images, icon.Image{Size: size, Data: data})
	}

	data, err := icon.Build(images)
	if err != nil {
		return Artifact{}, err
	}
	largest := sizes[len(sizes)-1]
	e.Logger.Debug("icon container", "variant", v.Name, "sizes", sizes, "bytes", len(data))
	return Artifact{Name: v.Name, Format: asset.FormatICO, Data: data, Width: largest, Height: largest}, nil
}
