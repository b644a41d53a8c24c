// Package pkg provides the core libraries for assetforge image asset generation.
//
// # Overview
//
// Assetforge turns one or more source images (SVG, PNG, JPEG) into the
// derivative assets a project ships: favicons, icon containers, social
// cards, logo variants and platform icons. The pkg directory is organized
// into these areas:
//
//  1. [asset] - Data model (variants, margins, colors, themes, results)
//  2. [errors] - Coded errors and input validators
//  3. [codec] - Image decode, encode and metadata
//  4. [render] - The render engine and its stages (colors, margin, theme, icon, markup, overwrite)
//  5. [config] - YAML/TOML/JSON configuration
//  6. [cache] - Artifact caching (file, redis, null)
//  7. [pipeline] - Orchestration (validate sources → plan → render → collect)
//
// # Architecture
//
// The typical data flow:
//
//	assetforge.yml
//	      ↓
//	 [config] package (load + validate)
//	      ↓
//	 [pipeline] package (validate sources, plan jobs, fan out)
//	      ↓
//	 [render] package (resize, margin, theme, flatten; or markup rewrite)
//	      ↓
//	 [codec] package (encode png/jpeg/webp/avif, pack ico)
//	      ↓
//	 files on disk + run metrics
//
// # Quick Start
//
// Render a single variant without a configuration:
//
//	engine := render.NewEngine(nil, nil, logger)
//	src := asset.Source{Path: "logo.svg", Format: asset.FormatSVG}
//	v := asset.Variant{Name: "og-image", Width: 1200, Height: 630, Format: asset.FormatPNG,
//	    Background: asset.Hex("#ffffff"), Margin: &asset.Margin{All: asset.Pct(10)}}
//	gen, err := engine.Render(ctx, src, v, "public/og-image.png", asset.Options{})
//
// Run a whole configuration:
//
//	cfg, _ := config.Load("assetforge.yml")
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	result, err := runner.Execute(ctx, cfg, pipeline.Options{})
//
// # Observability
//
// [observability] exposes hook interfaces (render, cache, codec) with no-op
// defaults. Register implementations at startup to export metrics.
package pkg
