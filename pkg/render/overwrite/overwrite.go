// Package overwrite decides whether an existing output file may be replaced.
package overwrite

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// Resolve picks the effective mode: variant, then caller option, then the
// pipeline default. The result may be empty, meaning no check.
func Resolve(variant, option, pipelineDefault asset.OverwriteMode) asset.OverwriteMode {
	switch {
	case variant != "":
		return variant
	case option != "":
		return option
	default:
		return pipelineDefault
	}
}

// Check gates a write to path. A missing file always passes. For an
// existing file, error mode fails with FILE_EXISTS, warn mode logs and
// passes, and allow mode passes silently. An empty mode skips the check.
func Check(path string, mode asset.OverwriteMode, logger *log.Logger) error {
	if mode == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "stat %s", path)
	}

	switch mode {
	case asset.OverwriteError:
		return errors.New(errors.ErrCodeFileExists, "Output file already exists: %s", path)
	case asset.OverwriteWarn:
		if logger != nil {
			logger.Warn("Overwriting existing file: " + path)
		}
	}
	return nil
}
