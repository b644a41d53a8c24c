package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// initCommand creates the init command, which writes a starter config.
func (c *CLI) initCommand() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(config.Encoding(format), force)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(config.YAML), "file format: yaml, toml or json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")

	return cmd
}

// initFileNames maps encodings to the file names init writes.
var initFileNames = map[config.Encoding]string{
	config.YAML: "assetforge.yml",
	config.TOML: "assetforge.toml",
	config.JSON: "assetforge.json",
}

func (c *CLI) runInit(enc config.Encoding, force bool) error {
	name, ok := initFileNames[enc]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be yaml, toml or json)", enc)
	}
	if _, err := os.Stat(name); err == nil && !force {
		return errors.New(errors.ErrCodeFileExists, "%s already exists (use --force to overwrite)", name)
	}

	data, err := config.Marshal(config.Starter(), enc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", name)
	}
	c.Logger.Debug("wrote starter configuration", "path", name, "bytes", len(data))

	printSuccess("Created %s", StyleValue.Render(name))
	printDetail("Add your source image as logo.svg or edit source.images")
	printNextStep("Check the configuration", "assetforge validate")
	return nil
}
