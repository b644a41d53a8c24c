package pipeline

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/codec"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// ValidateSource checks one source image against the validation limits
// and reads its dimensions. Raster sources below the minimum size are
// accepted with a warning.
func ValidateSource(ctx context.Context, c codec.Codec, path string, limits config.Validation, logger *log.Logger) (asset.Source, error) {
	format := asset.FormatFromPath(path)
	if !asset.InputFormats[format] {
		return asset.Source{}, errors.New(errors.ErrCodeUnsupportedFormat, "Unsupported input format: %s", format)
	}

	st, err := os.Stat(path)
	if os.IsNotExist(err) {
		return asset.Source{}, errors.New(errors.ErrCodeFileNotFound, "Source image not found: %s", path)
	}
	if err != nil {
		return asset.Source{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "stat %s", path)
	}
	if st.IsDir() {
		return asset.Source{}, errors.New(errors.ErrCodeInvalidSource, "Source image is a directory: %s", path)
	}
	if limits.MaxFileSize > 0 && st.Size() > limits.MaxFileSize {
		return asset.Source{}, errors.New(errors.ErrCodeInvalidSource,
			"Image %s exceeds maximum file size (%s)", path, FormatFileSize(limits.MaxFileSize))
	}

	info, err := c.Metadata(ctx, path, format)
	if err != nil {
		return asset.Source{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "Failed to validate %s", path)
	}

	if format != asset.FormatSVG && (info.Width < limits.MinWidth || info.Height < limits.MinHeight) {
		logger.Warn("source image is smaller than the recommended size",
			"path", path,
			"width", info.Width,
			"height", info.Height,
			"min_width", limits.MinWidth,
			"min_height", limits.MinHeight)
	}

	return asset.Source{Path: path, Format: format, Width: info.Width, Height: info.Height}, nil
}
