// Package pipeline runs a whole configuration: it validates the source
// images, plans one render job per asset variant, fans the jobs out over
// the render engine and collects the results.
//
// The pipeline is shared by the CLI ("assetforge generate") and the HTTP
// server, so both entry points apply the same defaults, filters, caching
// and overwrite rules.
//
// # Usage
//
//	cfg, err := config.Load("assetforge.yml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(render.NewEngine(nil, nil, logger), fileCache, nil, logger)
//	result, err := runner.Execute(ctx, cfg, pipeline.Options{Concurrency: 4})
//	if err != nil {
//	    return err
//	}
//	for _, a := range result.Assets {
//	    fmt.Println(a.Path, pipeline.FormatFileSize(a.FileSize))
//	}
//
// A failed variant never stops its siblings; it is recorded in
// [Result.Errors] and counted in [Metrics.Failed].
package pipeline

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// =============================================================================
// Validation Sets
// =============================================================================

// ValidFormats is the set of output formats a run can be filtered to.
var ValidFormats = asset.OutputFormats

// ValidateFormat checks that a format filter is a known output format.
func ValidateFormat(format string) error {
	if !ValidFormats[asset.Format(format)] {
		return errors.New(errors.ErrCodeUnsupportedFormat, "invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks every format filter.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, string(f))
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// =============================================================================
// Options
// =============================================================================

// Options are the per-run overrides of a configuration.
type Options struct {
	ConfigPath  string   `json:"config_path,omitempty"`
	OutputDir   string   `json:"output_dir,omitempty"` // replaces output.directory
	DryRun      bool     `json:"dry_run,omitempty"`
	Force       bool     `json:"force,omitempty"`   // overwrite mode "allow"
	Quality     int      `json:"quality,omitempty"` // beats per-format defaults, loses to variants
	Formats     []string `json:"formats,omitempty"` // only variants with these formats
	Assets      []string `json:"assets,omitempty"`  // only asset definitions with these names
	Concurrency int      `json:"concurrency,omitempty"`
	NoCache     bool     `json:"no_cache,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"` // re-render and overwrite cache entries

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateQuality(o.Quality); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid quality")
	}
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency cannot be negative")
	}
	if o.Concurrency == 0 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.OutputDir != "" {
		if err := errors.ValidateOutputPath(o.OutputDir); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// RenderOptions returns the request-scoped engine options for a run.
func (o *Options) RenderOptions() asset.Options {
	opts := asset.Options{Quality: o.Quality}
	if o.Force {
		opts.Overwrite = asset.OverwriteAllow
	}
	return opts
}

func (o *Options) wantsFormat(f asset.Format) bool {
	if len(o.Formats) == 0 {
		return true
	}
	return slices.Contains(o.Formats, string(f))
}

func (o *Options) wantsAsset(name string) bool {
	return len(o.Assets) == 0 || slices.Contains(o.Assets, name)
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of one run.
type Result struct {
	RunID     string            `json:"run_id"`
	DryRun    bool              `json:"dry_run,omitempty"`
	Assets    []asset.Generated `json:"assets"`
	Errors    []AssetError      `json:"errors,omitempty"`
	Metrics   Metrics           `json:"metrics"`
	CacheHits int               `json:"cache_hits"`
}

// Success reports whether every planned variant was produced.
func (r *Result) Success() bool { return len(r.Errors) == 0 }

// Metrics summarizes a run.
type Metrics struct {
	Total         int           `json:"total"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	TotalFileSize int64         `json:"total_file_size"`
	Duration      time.Duration `json:"duration"`
}

// AssetError is the failure of one variant.
type AssetError struct {
	Asset   string      `json:"asset"`
	Variant string      `json:"variant"`
	Path    string      `json:"path"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

func newAssetError(j Job, err error) AssetError {
	return AssetError{
		Asset:   j.Asset,
		Variant: j.Variant.Name,
		Path:    j.Path,
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
		Err:     err,
	}
}

func (e AssetError) Error() string {
	return fmt.Sprintf("Failed to generate asset %s: %s", e.Variant, e.Message)
}

func (e AssetError) Unwrap() error { return e.Err }

// FormatFileSize renders a byte count with one decimal, in B, KB, MB or GB.
func FormatFileSize(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
