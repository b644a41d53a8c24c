package render

import (
	"os"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/render/markup"
)

// renderVector rewrites an SVG source at the text level. Raster sources
// cannot be vectorized.
func (e *Engine) renderVector(src asset.Source, v asset.Variant) (Artifact, error) {
	if src.Format != asset.FormatSVG {
		return Artifact{}, errors.New(errors.ErrCodeUnsupportedConversion, "SVG output from raster input not yet supported")
	}

	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return Artifact{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", src.Path)
	}

	doc, err := markup.Transform(string(raw), markup.Merge(v), e.Optimizer, e.Logger)
	if err != nil {
		return Artifact{}, err
	}

	w, h := v.Width, v.Height
	if w == 0 {
		w = src.Width
	}
	if h == 0 {
		h = src.Height
	}
	return Artifact{Name: v.Name, Format: asset.FormatSVG, Data: []byte(doc), Width: w, Height: h}, nil
}
