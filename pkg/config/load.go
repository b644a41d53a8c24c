package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// Encoding is a config file syntax.
type Encoding string

// Supported encodings.
const (
	YAML Encoding = "yaml"
	TOML Encoding = "toml"
	JSON Encoding = "json"
)

// FileNames are the names Discover looks for, in order.
var FileNames = []string{
	"assetforge.yml",
	"assetforge.yaml",
	"assetforge.toml",
	"assetforge.json",
}

// EncodingFromPath returns the encoding implied by the file extension.
func EncodingFromPath(path string) (Encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unsupported config file extension: %q (must be .yml, .yaml, .toml or .json)", filepath.Ext(path))
}

// Discover returns the first config file found in dir.
func Discover(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeFileNotFound, "no configuration file found in %s (looked for %s)", dir, strings.Join(FileNames, ", "))
}

// Load reads a config file over the defaults. Relative source image paths
// are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	enc, err := EncodingFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "Configuration file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read configuration file %s", path)
	}

	cfg, err := Parse(data, enc)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	cfg.path = abs
	dir := filepath.Dir(abs)
	for i, img := range cfg.Source.Images {
		if !filepath.IsAbs(img) {
			cfg.Source.Images[i] = filepath.Join(dir, img)
		}
	}
	return cfg, nil
}

// Parse decodes data over Default().
func Parse(data []byte, enc Encoding) (*Config, error) {
	cfg := Default()

	var err error
	switch enc {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); err == io.EOF {
			err = nil
		}
	case TOML:
		_, err = toml.Decode(string(data), cfg)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config encoding: %q", enc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s parsing error", strings.ToUpper(string(enc)))
	}
	return cfg, nil
}

// Marshal encodes cfg in the given encoding.
func Marshal(cfg *Config, enc Encoding) ([]byte, error) {
	var buf bytes.Buffer
	switch enc {
	case YAML:
		e := yaml.NewEncoder(&buf)
		e.SetIndent(2)
		if err := e.Encode(cfg); err != nil {
			return nil, err
		}
		if err := e.Close(); err != nil {
			return nil, err
		}
	case TOML:
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
	case JSON:
		e := json.NewEncoder(&buf)
		e.SetIndent("", "  ")
		if err := e.Encode(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config encoding: %q", enc)
	}
	return buf.Bytes(), nil
}

// Starter returns the configuration written by "assetforge init": one
// source image, the favicon family and a few custom assets.
func Starter() *Config {
	cfg := Default()
	cfg.Source.Images = []string{"logo.svg"}
	cfg.Source.Defaults.Favicon = true
	cfg.Assets = []AssetDefinition{
		{
			Name: "social-media",
			Type: TypeSocial,
			Variants: []asset.Variant{
				{Name: "og-image", Width: 1200, Height: 630, Format: asset.FormatPNG, Background: asset.Hex("#ffffff"), Margin: &asset.Margin{All: asset.Pct(10)}},
				{Name: "twitter-card", Width: 1200, Height: 600, Format: asset.FormatPNG, Background: asset.Hex("#ffffff"), Margin: &asset.Margin{All: asset.Pct(10)}},
			},
		},
		{
			Name: "logo-variants",
			Type: TypeLogo,
			Variants: []asset.Variant{
				{Name: "logo-128", Width: 128, Height: 128, Format: asset.FormatPNG},
				{Name: "logo-256", Width: 256, Height: 256, Format: asset.FormatWebP},
				{Name: "logo-dark", Width: 256, Height: 256, Format: asset.FormatPNG, Theme: asset.ThemeDark},
				{Name: "logo-mono", Format: asset.FormatSVG, Monochrome: &asset.Monochrome{Color: "#000000"}, Simplified: true},
			},
		},
	}
	return cfg
}
