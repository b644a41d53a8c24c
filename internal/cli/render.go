package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	name       string
	output     string
	width      int
	height     int
	format     string
	quality    int
	background string
	theme      string
	monochrome string
	margin     string
	sizes      string
	force      bool
}

// renderCommand creates the render command, which produces a single
// variant without a configuration file.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(asset.FormatPNG)}

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render one variant of a source image",
		Example: `  assetforge render logo.svg --width 512 --format webp
  assetforge render logo.svg --format ico --sizes 16,32,48 -o favicon.ico
  assetforge render logo.png --width 1200 --height 630 --background "#ffffff" --margin 10%`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.variant()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], v, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "variant name (default: <source>-<width>x<height>)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <name>.<format>)")
	cmd.Flags().IntVarP(&opts.width, "width", "W", 0, "target width in pixels")
	cmd.Flags().IntVarP(&opts.height, "height", "H", 0, "target height in pixels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png, jpeg, webp, avif, ico, svg")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", 0, "quality for lossy formats (1-100)")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (#rgb or #rrggbb)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme: light, dark, monochrome, high-contrast")
	cmd.Flags().StringVar(&opts.monochrome, "monochrome", "", "monochrome color (hex)")
	cmd.Flags().StringVar(&opts.margin, "margin", "", "margin on all sides, in pixels or percent (e.g. 16 or 10%)")
	cmd.Flags().StringVar(&opts.sizes, "sizes", "", "icon sizes (comma-separated, ico only)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing output file")

	_ = cmd.RegisterFlagCompletionFunc("format", completeOne(formatNames()))
	_ = cmd.RegisterFlagCompletionFunc("theme", completeOne(themeNames()))

	return cmd
}

// variant builds and validates the variant described by the flags.
func (o *renderOpts) variant() (asset.Variant, error) {
	v := asset.Variant{
		Name:    o.name,
		Width:   o.width,
		Height:  o.height,
		Format:  asset.Format(o.format),
		Quality: o.quality,
		Theme:   asset.Theme(o.theme),
	}
	if v.Name == "" {
		v.Name = fmt.Sprintf("asset-%dx%d", o.width, o.height)
	}
	if o.background != "" {
		v.Background = asset.Hex(o.background)
	}
	if o.monochrome != "" {
		v.Monochrome = &asset.Monochrome{Color: o.monochrome}
	}
	if o.margin != "" {
		l, err := asset.ParseLength(o.margin)
		if err != nil {
			return asset.Variant{}, err
		}
		v.Margin = &asset.Margin{All: &l}
	}
	for _, s := range parseList(o.sizes) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return asset.Variant{}, errors.New(errors.ErrCodeInvalidIconSize, "invalid icon size: %q", s)
		}
		v.Sizes = append(v.Sizes, n)
	}

	if problems := config.VariantProblems(v); len(problems) > 0 {
		return asset.Variant{}, errors.New(errors.ErrCodeInvalidVariant, "%s", problems[0])
	}
	return v, nil
}

func (c *CLI) runRender(ctx context.Context, path string, v asset.Variant, opts *renderOpts) error {
	engine := c.newEngine()

	src, err := pipeline.ValidateSource(ctx, engine.Codec, path, config.Default().Source.Validation, c.Logger)
	if err != nil {
		return err
	}

	dest := opts.output
	if dest == "" {
		dest = v.FileName()
	}
	ropts := asset.Options{Overwrite: config.Default().Output.Overwrite}
	if opts.force {
		ropts.Overwrite = asset.OverwriteAllow
	}

	prog := newProgress(c.Logger)
	gen, err := engine.Render(ctx, src, v, dest, ropts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleValue.Render(v.Name))
	printAsset(gen)
	c.Logger.Debug("render finished", "duration", prog.elapsed())
	return nil
}
