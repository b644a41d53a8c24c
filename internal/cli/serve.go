package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/internal/server"
	"github.com/matzehuels/assetforge/pkg/cache"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	sourceDir  string
	redisAddr  string
	redisDB    int
	noCache    bool
	configPath string
}

// serveCommand creates the serve command, which runs the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr, sourceDir: "."}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve exposes POST /v1/render and GET /healthz.

Sources are read from --source-dir. Rendered artifacts are cached in redis when
--redis (or cache.redis in the configuration) is set, otherwise in the local
cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.sourceDir, "source-dir", opts.sourceDir, "directory source images are read from")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for the shared render cache")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "configuration file for validation limits and cache settings")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	st, err := os.Stat(opts.sourceDir)
	if err != nil || !st.IsDir() {
		return errors.New(errors.ErrCodeFileNotFound, "source directory not found: %s", opts.sourceDir)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.redisAddr != "" {
		cfg.Cache.Redis = &cache.RedisConfig{Addr: opts.redisAddr, DB: opts.redisDB}
	}

	store, err := c.newCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := c.newEngine()
	engine.Defaults.Quality = cfg.Processing.Quality
	engine.Defaults.Monochrome = cfg.Processing.Themes.Monochrome

	srv := server.New(server.Config{
		Addr:       opts.addr,
		SourceDir:  opts.sourceDir,
		Validation: cfg.Source.Validation,
	}, engine, store, cache.NewScopedKeyer(nil, "serve:"), c.Logger)

	printInfo("Serving render API on %s", StyleValue.Render(opts.addr))
	return srv.Run(ctx)
}
