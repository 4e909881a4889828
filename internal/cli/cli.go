// Package cli implements the edgeloom command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/buildinfo"
	"github.com/edgeloom/edgeloom/pkg/cache"
	"github.com/edgeloom/edgeloom/pkg/config"
	"github.com/edgeloom/edgeloom/pkg/pipeline"
	"github.com/edgeloom/edgeloom/pkg/route"
	"github.com/edgeloom/edgeloom/pkg/surface"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "edgeloom"

	// stdinName labels diagrams read from standard input.
	stdinName = "stdin"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag value; empty means the default
	// location, where a missing file falls back to built-in defaults.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "edgeloom",
		Short:        "Edgeloom lays out and renders diagrams in the terminal",
		Long:         `Edgeloom reads DOT diagram descriptions, computes box placement and curved edge routes, and renders the result as terminal text, with live-updating watch and serve modes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: "+configHint()+")")

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the config file named by --config, or the default.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// configHint is the default config path for flag help.
func configHint() string {
	return config.Path()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, with the cache backend
// the config selects.
func (c *CLI) newRunner(cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCacheBackend(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.Logger), nil
}

func (c *CLI) newCacheBackend(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cache.RedisOptions{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		}), nil
	case "", "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				c.Logger.Warn("cache disabled, no cache directory", "err", err)
				return nil, nil
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q (must be file or redis)", cfg.Cache.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/edgeloom/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the config, CLI flag values
// layered on top.
func pipelineOptions(cfg *config.Config, width int, format string, noCache bool) pipeline.Options {
	opts := pipeline.Options{
		Width:   width,
		Format:  format,
		NoCache: noCache,
		Surface: surfaceOptions(cfg),
		Route:   routeOptions(cfg),
	}
	return opts
}

func surfaceOptions(cfg *config.Config) surface.Options {
	return surface.Options{
		Width:  cfg.Surface.Width,
		GapX:   cfg.Surface.GapX,
		GapY:   cfg.Surface.GapY,
		Margin: cfg.Surface.Margin,
	}
}

func routeOptions(cfg *config.Config) route.Options {
	return route.Options{
		BowFactor:   cfg.Route.BowFactor,
		LabelOffset: cfg.Route.LabelOffset,
		LoopExtent:  cfg.Route.LoopExtent,
	}
}

// =============================================================================
// Input Helpers
// =============================================================================

// readSource reads a diagram description from the path, or from stdin when
// the path is "-". It returns the text and the name used in messages.
func readSource(path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), stdinName, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}
