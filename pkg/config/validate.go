package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/render/colors"
	"github.com/matzehuels/assetforge/pkg/render/icon"
)

// Validate checks the whole configuration and reports every problem in a
// single INVALID_CONFIG error.
func (c *Config) Validate() error {
	problems := c.Problems()
	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "Configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
}

// Problems lists validation failures in file order.
func (c *Config) Problems() []string {
	var p []string
	add := func(format string, args ...any) {
		p = append(p, fmt.Sprintf(format, args...))
	}

	if len(c.Source.Images) == 0 {
		add("Source images must be specified")
	}
	for _, img := range c.Source.Images {
		if f := asset.FormatFromPath(img); !asset.InputFormats[f] {
			add("Source image %s has unsupported format %q", img, f)
		}
	}
	v := c.Source.Validation
	if v.MinWidth < 0 || v.MinHeight < 0 || v.MaxFileSize < 0 {
		add("Source validation limits cannot be negative")
	}

	if c.Output.Directory == "" {
		add("Output directory must be specified")
	} else if err := errors.ValidateOutputPath(c.Output.Directory); err != nil {
		add("Output directory: %s", errors.UserMessage(err))
	}
	if c.Output.Overwrite != "" && !c.Output.Overwrite.Valid() {
		add("Invalid overwrite mode %q (must be one of: allow, warn, error)", c.Output.Overwrite)
	}

	for _, f := range slices.Sorted(maps.Keys(c.Processing.Quality)) {
		q := c.Processing.Quality[f]
		if !asset.OutputFormats[f] {
			add("Quality set for unknown format %q", f)
		}
		if q < 1 || q > 100 {
			add("Quality for %s must be between 1 and 100, got %d", f, q)
		}
	}
	if m := c.Processing.Themes.Monochrome; m != nil {
		p = append(p, monochromeProblems("Monochrome theme", m)...)
	}

	if len(c.Assets) == 0 && !c.Source.Defaults.Favicon {
		add("At least one asset definition must be provided")
	}
	seen := make(map[string]bool)
	outputs := make(map[string]string)
	for i, a := range c.Assets {
		name := a.Name
		if name == "" {
			add("Asset %d must have a name", i)
			name = fmt.Sprintf("#%d", i)
		} else if seen[name] {
			add("Duplicate asset name %s", name)
		}
		seen[name] = true

		if a.Type != "" && !ValidTypes[a.Type] {
			add("Asset %s has unknown type %q", name, a.Type)
		}
		if a.OutputPath != "" {
			if err := errors.ValidateOutputPath(a.OutputPath); err != nil {
				add("Asset %s output path: %s", name, errors.UserMessage(err))
			}
		}
		if a.Source != "" && !c.hasImage(a.Source) {
			add("Asset %s references unknown source image: %s", name, a.Source)
		}
		if len(a.Variants) == 0 {
			add("Asset %s must have at least one variant", name)
		}

		dir := c.OutputDir(a)
		for j, variant := range a.Variants {
			if variant.Name != "" {
				out := filepath.Join(dir, variant.FileName())
				if prev, ok := outputs[out]; ok {
					add("Duplicate output file detected: %s would be generated by %s and %s.%s", out, prev, name, variant.Name)
				} else {
					outputs[out] = name + "." + variant.Name
				}
			}
			for _, msg := range VariantProblems(variant) {
				add("Asset %s variant %d: %s", name, j, msg)
			}
		}
	}
	return p
}

// hasImage matches a per-asset source against the configured images by
// full path or by suffix.
func (c *Config) hasImage(src string) bool {
	for _, img := range c.Source.Images {
		if img == src || strings.HasSuffix(img, src) || filepath.Base(img) == filepath.Base(src) {
			return true
		}
	}
	return false
}

// VariantProblems validates one variant definition.
func VariantProblems(v asset.Variant) []string {
	var p []string
	add := func(format string, args ...any) {
		p = append(p, fmt.Sprintf(format, args...))
	}

	if err := errors.ValidateVariantName(v.Name); err != nil {
		add("%s", errors.UserMessage(err))
	}
	if v.Format == "" {
		add("Variant %s must specify a format", v.Name)
	} else if !asset.OutputFormats[v.Format] {
		add("Unsupported output format: %s", v.Format)
	}
	if err := errors.ValidateQuality(v.Quality); err != nil {
		add("%s", errors.UserMessage(err))
	}
	if v.Width < 0 || v.Height < 0 {
		add("width and height must be positive")
	}
	if !v.Margin.IsZero() && v.Format == asset.FormatSVG {
		add("margin is not supported for svg output")
	}
	if v.Theme != "" && !asset.ValidThemes[v.Theme] {
		add("unknown theme %q", v.Theme)
	}
	if v.Overwrite != "" && !v.Overwrite.Valid() {
		add("invalid overwrite mode %q", v.Overwrite)
	}
	if !v.Background.IsZero() {
		if _, err := colors.Resolve(v.Background); err != nil {
			add("background: %s", errors.UserMessage(err))
		}
	}
	if v.Monochrome != nil {
		p = append(p, monochromeProblems("monochrome", v.Monochrome)...)
	}
	if len(v.Sizes) > 0 {
		if v.Format != asset.FormatICO {
			add("sizes are only used by ico output")
		} else if err := icon.ValidateSizes(v.Sizes); err != nil {
			add("%s", errors.UserMessage(err))
		}
	}
	return p
}

func monochromeProblems(label string, m *asset.Monochrome) []string {
	var p []string
	if m.Color != "" {
		if _, err := colors.Parse(m.Color); err != nil {
			p = append(p, fmt.Sprintf("%s color: %s", label, errors.UserMessage(err)))
		}
	}
	if m.Threshold < 0 || m.Threshold > 255 {
		p = append(p, fmt.Sprintf("%s threshold must be between 0 and 255, got %d", label, m.Threshold))
	}
	return p
}
