// Package config loads and validates assetforge pipeline configuration.
//
// A configuration names the source images, where generated assets go and
// the asset definitions (each a list of [asset.Variant]) to render from
// them. YAML, TOML and JSON files are accepted; the decoder is chosen by
// file extension:
//
//	cfg, err := config.Load("assetforge.yml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Values absent from the file keep the values of [Default].
package config

import (
	"path/filepath"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/cache"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutputDir is where assets are written when no directory is set.
	DefaultOutputDir = "./assets"

	// DefaultMinWidth and DefaultMinHeight are the source sizes below which
	// a warning is logged.
	DefaultMinWidth  = 512
	DefaultMinHeight = 512

	// DefaultMaxFileSize is the largest accepted source file (50 MiB).
	DefaultMaxFileSize = 50 * 1024 * 1024
)

// Asset types.
const (
	TypeFavicon  = "favicon"
	TypeSocial   = "social"
	TypeLogo     = "logo"
	TypePlatform = "platform-specific"
)

// ValidTypes is the set of accepted asset definition types.
var ValidTypes = map[string]bool{
	TypeFavicon:  true,
	TypeSocial:   true,
	TypeLogo:     true,
	TypePlatform: true,
}

// structureKeys maps asset types to keys of OutputConfig.Structure.
var structureKeys = map[string]string{
	TypeFavicon:  "favicon",
	TypeSocial:   "social",
	TypeLogo:     "logos",
	TypePlatform: "platforms",
}

// =============================================================================
// Config
// =============================================================================

// Config is a complete pipeline configuration.
type Config struct {
	Source     SourceConfig      `yaml:"source" toml:"source" json:"source"`
	Output     OutputConfig      `yaml:"output" toml:"output" json:"output"`
	Assets     []AssetDefinition `yaml:"assets" toml:"assets" json:"assets"`
	Processing ProcessingConfig  `yaml:"processing" toml:"processing" json:"processing"`
	Cache      CacheConfig       `yaml:"cache,omitempty" toml:"cache,omitempty" json:"cache,omitempty"`

	// path is the file the config was loaded from, empty for Default().
	path string
}

// SourceConfig lists the input images.
type SourceConfig struct {
	Images     []string       `yaml:"images" toml:"images" json:"images"`
	Validation Validation     `yaml:"validation" toml:"validation" json:"validation"`
	Defaults   DefaultsConfig `yaml:"defaults" toml:"defaults" json:"defaults"`
}

// Validation bounds source images.
type Validation struct {
	MinWidth    int   `yaml:"minWidth" toml:"minWidth" json:"minWidth"`
	MinHeight   int   `yaml:"minHeight" toml:"minHeight" json:"minHeight"`
	MaxFileSize int64 `yaml:"maxFileSize" toml:"maxFileSize" json:"maxFileSize"`
}

// DefaultsConfig toggles built-in asset families.
type DefaultsConfig struct {
	Favicon bool `yaml:"favicon" toml:"favicon" json:"favicon"`
}

// OutputConfig controls where assets are written.
type OutputConfig struct {
	Directory string              `yaml:"directory" toml:"directory" json:"directory"`
	Structure map[string]string   `yaml:"structure" toml:"structure" json:"structure"`
	Overwrite asset.OverwriteMode `yaml:"overwrite" toml:"overwrite" json:"overwrite"`
}

// AssetDefinition is a named group of variants rendered from one source.
type AssetDefinition struct {
	Name       string          `yaml:"name" toml:"name" json:"name"`
	Type       string          `yaml:"type" toml:"type" json:"type"`
	Source     string          `yaml:"source,omitempty" toml:"source,omitempty" json:"source,omitempty"`
	OutputPath string          `yaml:"outputPath,omitempty" toml:"outputPath,omitempty" json:"outputPath,omitempty"`
	Variants   []asset.Variant `yaml:"variants" toml:"variants" json:"variants"`
}

// ProcessingConfig holds pipeline-level rendering defaults.
type ProcessingConfig struct {
	Quality map[asset.Format]int `yaml:"quality" toml:"quality" json:"quality"`
	Themes  ThemesConfig         `yaml:"themes" toml:"themes" json:"themes"`
}

// ThemesConfig holds theme defaults.
type ThemesConfig struct {
	Monochrome *asset.Monochrome `yaml:"monochrome,omitempty" toml:"monochrome,omitempty" json:"monochrome,omitempty"`
}

// CacheConfig selects the artifact cache backend. With Redis set the
// redis backend is used, otherwise a file cache under Dir.
type CacheConfig struct {
	Dir   string             `yaml:"dir,omitempty" toml:"dir,omitempty" json:"dir,omitempty"`
	Redis *cache.RedisConfig `yaml:"redis,omitempty" toml:"redis,omitempty" json:"redis,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Validation: Validation{
				MinWidth:    DefaultMinWidth,
				MinHeight:   DefaultMinHeight,
				MaxFileSize: DefaultMaxFileSize,
			},
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			Structure: map[string]string{
				"favicon":   "favicon",
				"social":    "social",
				"logos":     "logos",
				"platforms": "platforms",
			},
			Overwrite: asset.OverwriteError,
		},
		Processing: ProcessingConfig{
			Quality: map[asset.Format]int{
				asset.FormatPNG:  90,
				asset.FormatJPEG: 85,
				asset.FormatWebP: 80,
				asset.FormatAVIF: 75,
				asset.FormatSVG:  100,
			},
			Themes: ThemesConfig{
				Monochrome: &asset.Monochrome{Color: "#000000", Threshold: 128},
			},
		},
	}
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// StructureDir returns the output subdirectory for an asset type, or ""
// when the type has no entry.
func (c *Config) StructureDir(assetType string) string {
	key, ok := structureKeys[assetType]
	if !ok {
		key = assetType
	}
	return c.Output.Structure[key]
}

// OutputDir returns the directory an asset's variants are written to: an
// absolute outputPath as-is, a relative one under the output directory,
// otherwise the structure entry for the asset type.
func (c *Config) OutputDir(a AssetDefinition) string {
	if a.OutputPath != "" {
		if filepath.IsAbs(a.OutputPath) {
			return a.OutputPath
		}
		return filepath.Join(c.Output.Directory, a.OutputPath)
	}
	return filepath.Join(c.Output.Directory, c.StructureDir(a.Type))
}

// Asset returns the definition with the given name.
func (c *Config) Asset(name string) (AssetDefinition, bool) {
	for _, a := range c.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return AssetDefinition{}, false
}
