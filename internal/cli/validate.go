package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/pipeline"
)

// validateCommand creates the validate command, which checks a config and
// its source images without rendering.
func (c *CLI) validateCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and source images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (default: discovered in the working directory)")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		printError("Invalid configuration %s", cfg.Path())
		return err
	}

	codec := c.newEngine().Codec
	sources := make([]asset.Source, 0, len(cfg.Source.Images))
	for _, path := range cfg.Source.Images {
		src, err := pipeline.ValidateSource(ctx, codec, path, cfg.Source.Validation, c.Logger)
		if err != nil {
			printError("%s", errors.UserMessage(err))
			return err
		}
		sources = append(sources, src)
	}

	jobs := pipeline.Plan(cfg, sources, pipeline.Options{})

	printSuccess("Configuration is valid")
	printKeyValue("Config", cfg.Path())
	printKeyValue("Output", cfg.Output.Directory)
	printKeyValue("Overwrite", string(cfg.Output.Overwrite))
	for _, src := range sources {
		printKeyValue("Source", fmt.Sprintf("%s (%s, %dx%d)", src.Path, src.Format, src.Width, src.Height))
	}
	printKeyValue("Assets", StyleNumber.Render(fmt.Sprint(len(cfg.Assets))))
	printKeyValue("Variants", StyleNumber.Render(fmt.Sprint(len(jobs))))
	printNextStep("Generate the assets", "assetforge generate")
	return nil
}
