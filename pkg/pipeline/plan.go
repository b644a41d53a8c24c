package pipeline

import (
	"path/filepath"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/config"
)

// FaviconAsset is the asset name of the built-in favicon family.
const FaviconAsset = "favicon"

// FaviconVariants is the built-in favicon family, generated when
// source.defaults.favicon is set and no custom favicon asset applies.
var FaviconVariants = []asset.Variant{
	{Name: "favicon-16x16", Width: 16, Height: 16, Format: asset.FormatPNG},
	{Name: "favicon-32x32", Width: 32, Height: 32, Format: asset.FormatPNG},
	{Name: "apple-touch-icon", Width: 180, Height: 180, Format: asset.FormatPNG},
	{Name: "android-chrome-192x192", Width: 192, Height: 192, Format: asset.FormatPNG},
	{Name: "android-chrome-512x512", Width: 512, Height: 512, Format: asset.FormatPNG},
	{Name: "mstile-150x150", Width: 150, Height: 150, Format: asset.FormatPNG},
	{Name: "favicon", Format: asset.FormatICO, Sizes: []int{16, 32, 48}},
}

// Job is one variant to render.
type Job struct {
	Asset   string
	Source  asset.Source
	Variant asset.Variant
	Path    string
}

// Plan expands a configuration into jobs, in source then asset then
// variant order. Asset definitions without a source apply to every source.
func Plan(cfg *config.Config, sources []asset.Source, opts Options) []Job {
	var jobs []Job
	add := func(name string, src asset.Source, dir string, variants []asset.Variant) {
		for _, v := range variants {
			if !opts.wantsFormat(v.Format) {
				continue
			}
			jobs = append(jobs, Job{
				Asset:   name,
				Source:  src,
				Variant: v,
				Path:    filepath.Join(dir, v.FileName()),
			})
		}
	}

	for _, src := range sources {
		if cfg.Source.Defaults.Favicon && opts.wantsAsset(FaviconAsset) && !hasCustomFavicon(cfg, src) {
			add(FaviconAsset, src, filepath.Join(cfg.Output.Directory, cfg.StructureDir(config.TypeFavicon)), FaviconVariants)
		}
		for _, def := range cfg.Assets {
			if !opts.wantsAsset(def.Name) || !appliesTo(def, src) {
				continue
			}
			add(def.Name, src, cfg.OutputDir(def), def.Variants)
		}
	}
	return jobs
}

func hasCustomFavicon(cfg *config.Config, src asset.Source) bool {
	for _, def := range cfg.Assets {
		if def.Type == config.TypeFavicon && appliesTo(def, src) {
			return true
		}
	}
	return false
}

// appliesTo matches an asset's source against a source image by path or
// base name.
func appliesTo(def config.AssetDefinition, src asset.Source) bool {
	if def.Source == "" {
		return true
	}
	return def.Source == src.Path || filepath.Base(def.Source) == filepath.Base(src.Path)
}
