package cli

import (
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/pipeline"
)

type completionFunc = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for assetforge.

To load completions:

Bash:
  $ source <(assetforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ assetforge completion bash > /etc/bash_completion.d/assetforge
  # macOS:
  $ assetforge completion bash > $(brew --prefix)/etc/bash_completion.d/assetforge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ assetforge completion zsh > "${fpath[1]}/_assetforge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ assetforge completion fish | source

  # To load completions for each session, execute once:
  $ assetforge completion fish > ~/.config/fish/completions/assetforge.fish

PowerShell:
  PS> assetforge completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> assetforge completion powershell > assetforge.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeList completes one item of a comma-separated flag value, leaving
// out items already given.
func completeList(values func(cmd *cobra.Command) []string) completionFunc {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix := ""
		if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
			prefix = toComplete[:i+1]
		}
		given := parseList(prefix)

		var out []string
		for _, v := range values(cmd) {
			if !slices.Contains(given, v) {
				out = append(out, prefix+v)
			}
		}
		return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	}
}

// completeOne completes a single-valued flag from a fixed set.
func completeOne(values []string) completionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func formatNames() []string {
	names := make([]string, 0, len(asset.OutputFormats))
	for f := range asset.OutputFormats {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

func themeNames() []string {
	names := make([]string, 0, len(asset.ValidThemes))
	for t := range asset.ValidThemes {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// assetNames lists the assets of the config named by the command's
// --config flag, or of the discovered one.
func assetNames(cmd *cobra.Command) []string {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(cfg.Assets)+1)
	if cfg.Source.Defaults.Favicon {
		names = append(names, pipeline.FaviconAsset)
	}
	for _, a := range cfg.Assets {
		names = append(names, a.Name)
	}
	return names
}
