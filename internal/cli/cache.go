package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parse and layout result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Clearing goes
// through the configured backend, so it works for the file cache and for
// Redis alike.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached parse and layout results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			backend, err := c.newCacheBackend(cfg, false)
			if err != nil {
				return err
			}
			if backend == nil {
				printInfo("Cache is disabled")
				return nil
			}
			defer backend.Close()

			if err := backend.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared cache")
			printDetail("Location: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes where the configured backend keeps its entries.
func cacheLocation(cfg *config.Config) string {
	if cfg.Cache.Backend == "redis" {
		return fmt.Sprintf("redis://%s/%d", cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return "(unknown)"
	}
	return dir
}
