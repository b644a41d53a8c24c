package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetforge/pkg/cache"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/pipeline"
)

// cacheCommand creates the artifact cache management command. The backend
// is the one generate would use: the config's cache block when a config
// is found, otherwise the file cache in the XDG cache directory.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the artifact cache",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file selecting the cache backend")

	cmd.AddCommand(
		c.cacheInfoCommand(&configPath),
		c.cacheClearCommand(&configPath),
		c.cachePathCommand(&configPath),
	)
	return cmd
}

func (c *CLI) cacheInfoCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache backend and its size",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, where, err := c.openCache(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			st, err := maintainer(store).Stats(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "read cache stats")
			}
			printKeyValue("Backend", where)
			printKeyValue("Entries", fmt.Sprint(st.Entries))
			printKeyValue("Size", pipeline.FormatFileSize(st.Bytes))
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached render artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, where, err := c.openCache(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			m := maintainer(store)
			st, err := m.Stats(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "read cache stats")
			}
			if err := m.Clear(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			printSuccess("Cleared %d cached artifacts (%s)", st.Entries, pipeline.FormatFileSize(st.Bytes))
			printDetail("Backend: %s", where)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := cacheSettings(*configPath)
			if err != nil {
				return err
			}
			_, where, err := cacheLocation(cc)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, where)
			return nil
		},
	}
}

// openCache opens the configured backend and describes where it lives.
func (c *CLI) openCache(ctx context.Context, configPath string) (cache.Cache, string, error) {
	cc, err := cacheSettings(configPath)
	if err != nil {
		return nil, "", err
	}
	dir, where, err := cacheLocation(cc)
	if err != nil {
		return nil, "", err
	}
	if cc.Redis == nil {
		cc.Dir = dir
	}
	store, err := c.newCache(ctx, cc, false)
	if err != nil {
		return nil, "", err
	}
	return store, where, nil
}

// cacheSettings reads the cache block of the config at path, or of the
// discovered config. Without any config the defaults apply.
func cacheSettings(path string) (config.CacheConfig, error) {
	if path == "" {
		found, err := config.Discover(".")
		if err != nil {
			return config.CacheConfig{}, nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.CacheConfig{}, err
	}
	return cfg.Cache, nil
}

// cacheLocation returns the file cache directory (empty for redis) and a
// printable location.
func cacheLocation(cc config.CacheConfig) (dir, where string, err error) {
	if cc.Redis != nil {
		return "", "redis://" + cc.Redis.Addr, nil
	}
	dir = cc.Dir
	if dir == "" {
		if dir, err = cacheDir(); err != nil {
			return "", "", fmt.Errorf("get cache dir: %w", err)
		}
	}
	return dir, dir, nil
}

// maintainer returns the maintenance side of a backend. Backends without
// one behave as an always-empty cache.
func maintainer(c cache.Cache) cache.Maintainer {
	if m, ok := c.(cache.Maintainer); ok {
		return m
	}
	return emptyMaintainer{}
}

type emptyMaintainer struct{}

func (emptyMaintainer) Stats(context.Context) (cache.Stats, error) { return cache.Stats{}, nil }
func (emptyMaintainer) Clear(context.Context) error                { return nil }
