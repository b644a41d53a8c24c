package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	pipeline.Options
	formats     string // comma-separated format filter
	assets      string // comma-separated asset filter
	interactive bool   // choose assets in a picker
}

// generateCommand creates the generate command, which runs a whole config.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate all assets defined in the configuration",
		Long: `Generate renders every variant of every asset definition in the configuration.

Without --config the first of assetforge.yml, assetforge.yaml, assetforge.toml or
assetforge.json in the working directory is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseList(opts.formats)
			opts.Assets = parseList(opts.assets)
			return c.runGenerate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (default: discovered in the working directory)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "override output.directory")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would be generated without writing files")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite existing files")
	cmd.Flags().IntVarP(&opts.Quality, "quality", "q", 0, "quality for lossy formats (1-100)")
	cmd.Flags().StringVar(&opts.formats, "format", "", "only generate these formats (comma-separated)")
	cmd.Flags().StringVarP(&opts.assets, "asset", "a", "", "only generate these assets (comma-separated)")
	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "j", 0, "parallel renders (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render and replace cached artifacts")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose assets interactively")

	_ = cmd.RegisterFlagCompletionFunc("format", completeList(func(*cobra.Command) []string { return formatNames() }))
	_ = cmd.RegisterFlagCompletionFunc("asset", completeList(assetNames))

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts *generateOpts) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded configuration", "path", cfg.Path(), "assets", len(cfg.Assets))

	if opts.interactive {
		names, ok, err := pickAssets(cfg)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Nothing selected")
			return nil
		}
		opts.Assets = names
	}

	runner, err := c.newRunner(ctx, cfg, opts.NoCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newRunSpinner(ctx, "Generating assets")
	detach := spin.attach()
	spin.Start()
	result, err := runner.Execute(ctx, cfg, opts.Options)
	interrupted := spin.Cancelled()
	spin.Stop()
	detach()
	if err != nil {
		if interrupted && result != nil {
			printWarning("Interrupted after %d of %d variants", len(result.Assets)+len(result.Errors), spin.total.Load())
		}
		return err
	}

	if result.DryRun {
		printWarning("Dry run: no files were written")
	}
	for _, g := range result.Assets {
		printAsset(g)
	}
	for _, e := range result.Errors {
		printError("%s", e.Error())
		printDetail("%s", e.Path)
	}
	printRunStats(result)

	if !result.Success() {
		return fmt.Errorf("%d of %d assets failed", result.Metrics.Failed, result.Metrics.Total)
	}
	if result.DryRun {
		printNextStep("Write the files", "assetforge generate")
	} else {
		prog.done("generated assets", "count", result.Metrics.Succeeded, "cache_hits", result.CacheHits)
	}
	return nil
}
