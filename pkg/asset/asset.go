// Package asset defines the data model shared by the render engine, the
// pipeline and the configuration layer.
//
// A [Variant] is one rendering request: target size, output format, color
// treatment and framing. The engine turns a [Source] and a Variant into a
// [Generated] record describing the artifact it wrote. Every type carries
// yaml, toml and json tags so the same structs are used for config files,
// HTTP requests and cache keys.
package asset

import (
	"path/filepath"
	"strings"
)

// Format is an image format name as used in configs and file extensions.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatJPG  Format = "jpg"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
	FormatICO  Format = "ico"
	FormatSVG  Format = "svg"
)

// InputFormats is the set of formats accepted as a source image.
var InputFormats = map[Format]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJPEG: true,
	FormatJPG:  true,
}

// OutputFormats is the set of formats the engine can produce.
var OutputFormats = map[Format]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatWebP: true,
	FormatAVIF: true,
	FormatICO:  true,
	FormatSVG:  true,
}

// FormatFromPath returns the lower-cased extension of path as a Format.
func FormatFromPath(path string) Format {
	return Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")))
}

// IsVector reports whether f is a markup format.
func (f Format) IsVector() bool { return f == FormatSVG }

// Theme is a color treatment applied after framing.
type Theme string

// Themes. Light and high-contrast are accepted but leave pixels unchanged.
const (
	ThemeLight        Theme = "light"
	ThemeDark         Theme = "dark"
	ThemeMonochrome   Theme = "monochrome"
	ThemeHighContrast Theme = "high-contrast"
)

// ValidThemes is the set of accepted theme names.
var ValidThemes = map[Theme]bool{
	ThemeLight:        true,
	ThemeDark:         true,
	ThemeMonochrome:   true,
	ThemeHighContrast: true,
}

// OverwriteMode decides what happens when a destination already exists.
type OverwriteMode string

// Overwrite modes.
const (
	OverwriteAllow OverwriteMode = "allow"
	OverwriteWarn  OverwriteMode = "warn"
	OverwriteError OverwriteMode = "error"
)

// Valid reports whether m is one of the three known modes.
func (m OverwriteMode) Valid() bool {
	return m == OverwriteAllow || m == OverwriteWarn || m == OverwriteError
}

// Source is a validated input image.
type Source struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Margin is an interior inset specification. Each field is a pixel count or
// a percentage; nil fields are unset.
//
// Precedence per edge: explicit edge > paired shorthand (Horizontal for
// left/right, Vertical for top/bottom) > All > 0.
type Margin struct {
	Top        *Length `yaml:"top,omitempty" toml:"top,omitempty" json:"top,omitempty"`
	Right      *Length `yaml:"right,omitempty" toml:"right,omitempty" json:"right,omitempty"`
	Bottom     *Length `yaml:"bottom,omitempty" toml:"bottom,omitempty" json:"bottom,omitempty"`
	Left       *Length `yaml:"left,omitempty" toml:"left,omitempty" json:"left,omitempty"`
	Horizontal *Length `yaml:"horizontal,omitempty" toml:"horizontal,omitempty" json:"horizontal,omitempty"`
	Vertical   *Length `yaml:"vertical,omitempty" toml:"vertical,omitempty" json:"vertical,omitempty"`
	All        *Length `yaml:"all,omitempty" toml:"all,omitempty" json:"all,omitempty"`
}

// IsZero reports whether no field is set.
func (m *Margin) IsZero() bool {
	return m == nil || (m.Top == nil && m.Right == nil && m.Bottom == nil && m.Left == nil &&
		m.Horizontal == nil && m.Vertical == nil && m.All == nil)
}

// ColorTransform maps one color to another. Accepted in configs but not
// applied by the engine.
type ColorTransform struct {
	From string `yaml:"from" toml:"from" json:"from"`
	To   string `yaml:"to" toml:"to" json:"to"`
}

// SVGOptions groups the markup-only settings of a variant.
type SVGOptions struct {
	Monochrome          string           `yaml:"monochrome,omitempty" toml:"monochrome,omitempty" json:"monochrome,omitempty"`
	Simplified          bool             `yaml:"simplified,omitempty" toml:"simplified,omitempty" json:"simplified,omitempty"`
	ColorScheme         string           `yaml:"colorScheme,omitempty" toml:"colorScheme,omitempty" json:"colorScheme,omitempty"`
	ViewBox             string           `yaml:"viewBox,omitempty" toml:"viewBox,omitempty" json:"viewBox,omitempty"`
	PreserveAspectRatio string           `yaml:"preserveAspectRatio,omitempty" toml:"preserveAspectRatio,omitempty" json:"preserveAspectRatio,omitempty"`
	ColorTransforms     []ColorTransform `yaml:"colorTransforms,omitempty" toml:"colorTransforms,omitempty" json:"colorTransforms,omitempty"`
}

// Variant is one requested output derivative of a source image.
// Zero Width or Height preserves the corresponding source dimension.
type Variant struct {
	Name                string           `yaml:"name" toml:"name" json:"name"`
	Width               int              `yaml:"width,omitempty" toml:"width,omitempty" json:"width,omitempty"`
	Height              int              `yaml:"height,omitempty" toml:"height,omitempty" json:"height,omitempty"`
	Format              Format           `yaml:"format" toml:"format" json:"format"`
	Quality             int              `yaml:"quality,omitempty" toml:"quality,omitempty" json:"quality,omitempty"`
	Margin              *Margin          `yaml:"margin,omitempty" toml:"margin,omitempty" json:"margin,omitempty"`
	Theme               Theme            `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty"`
	Background          *Color           `yaml:"background,omitempty" toml:"background,omitempty" json:"background,omitempty"`
	Monochrome          *Monochrome      `yaml:"monochrome,omitempty" toml:"monochrome,omitempty" json:"monochrome,omitempty"`
	Simplified          bool             `yaml:"simplified,omitempty" toml:"simplified,omitempty" json:"simplified,omitempty"`
	ViewBox             string           `yaml:"viewBox,omitempty" toml:"viewBox,omitempty" json:"viewBox,omitempty"`
	PreserveAspectRatio string           `yaml:"preserveAspectRatio,omitempty" toml:"preserveAspectRatio,omitempty" json:"preserveAspectRatio,omitempty"`
	ColorTransforms     []ColorTransform `yaml:"colorTransforms,omitempty" toml:"colorTransforms,omitempty" json:"colorTransforms,omitempty"`
	Sizes               []int            `yaml:"sizes,omitempty" toml:"sizes,omitempty" json:"sizes,omitempty"`
	SVG                 *SVGOptions      `yaml:"svg,omitempty" toml:"svg,omitempty" json:"svg,omitempty"`
	Overwrite           OverwriteMode    `yaml:"overwrite,omitempty" toml:"overwrite,omitempty" json:"overwrite,omitempty"`
}

// FileName returns the output file name "<name>.<format>".
func (v Variant) FileName() string {
	return v.Name + "." + string(v.Format)
}

// Options is the request-scoped override layer. Its fields lose to the
// variant's own fields and win over pipeline defaults.
type Options struct {
	Quality    int           `json:"quality,omitempty"`
	Background *Color        `json:"background,omitempty"`
	Margin     *Margin       `json:"margin,omitempty"`
	Theme      Theme         `json:"theme,omitempty"`
	Overwrite  OverwriteMode `json:"overwrite,omitempty"`
}

// Generated describes an artifact the engine wrote. Width and Height are
// read back from the written file.
type Generated struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Format    Format `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FileSize  int64  `json:"file_size"`
	Optimised bool   `json:"optimised"`
}
