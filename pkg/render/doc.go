// Package render turns one source image and one asset variant into a written
// artifact.
//
// # Overview
//
// The [Engine] selects one of three paths by the requested output format:
//
//   - Raster (png, jpeg, webp, avif): decode, resize, margin, theme, flatten,
//     encode
//   - Icon (ico): one independent raster per embedded size, packed by the
//     [icon] subpackage
//   - Vector (svg): markup-level rewriting by the [markup] subpackage
//
// Every path ends at the same tail: the [overwrite] gate, the write (parent
// directories created on demand) and a metadata read-back, so the returned
// [asset.Generated] always describes the file on disk.
//
//	eng := render.NewEngine(codec.Default(), markup.NewMinifyOptimizer(), logger)
//	gen, err := eng.Render(ctx, src, variant, "assets/logo-dark.png", asset.Options{})
//
// # Subpackages
//
//   - [margin]: margin specs to pixel insets
//   - [colors]: hex and RGBA background resolution
//   - [theme]: dark inversion and monochrome thresholding
//   - [icon]: icon container writer and directory reader
//   - [markup]: SVG text rewriting and optimization
//   - [overwrite]: existing-file policy
//
// Raster stages are pure functions over an explicit pipeline state; the
// foreground and the requested backdrop stay separate until the final
// flatten, so color treatments never recolor the background.
//
// [margin]: github.com/matzehuels/assetforge/pkg/render/margin
// [colors]: github.com/matzehuels/assetforge/pkg/render/colors
// [theme]: github.com/matzehuels/assetforge/pkg/render/theme
// [icon]: github.com/matzehuels/assetforge/pkg/render/icon
// [markup]: github.com/matzehuels/assetforge/pkg/render/markup
// [overwrite]: github.com/matzehuels/assetforge/pkg/render/overwrite
package render
