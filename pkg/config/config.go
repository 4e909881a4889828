// Package config loads edgeloom configuration from TOML files.
//
// Configuration lives at $XDG_CONFIG_HOME/edgeloom/config.toml by default.
// Unknown keys are tolerated so older binaries can read newer files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds edgeloom configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Route   RouteConfig   `toml:"route"`
	Surface SurfaceConfig `toml:"surface"`
	Cache   CacheConfig   `toml:"cache"`
}

// LayoutConfig controls the change-detection loop.
type LayoutConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// RouteConfig controls edge routing geometry.
type RouteConfig struct {
	BowFactor   float64 `toml:"bow_factor"`
	LabelOffset float64 `toml:"label_offset"`
	LoopExtent  float64 `toml:"loop_extent"`
}

// SurfaceConfig controls the terminal flow surface.
type SurfaceConfig struct {
	Width  int `toml:"width"`
	GapX   int `toml:"gap_x"`
	GapY   int `toml:"gap_y"`
	Margin int `toml:"margin"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Enabled   bool   `toml:"enabled"`
	Backend   string `toml:"backend"` // "file" or "redis"
	Dir       string `toml:"dir"`     // file backend; empty means the XDG cache dir
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout:  LayoutConfig{DebounceMS: 40},
		Route:   RouteConfig{BowFactor: 0.15, LabelOffset: 2, LoopExtent: 6},
		Surface: SurfaceConfig{Width: 80, GapX: 6, GapY: 2, Margin: 1},
		Cache:   CacheConfig{Enabled: true, Backend: "file"},
	}
}

// ConfigDir returns the edgeloom config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "edgeloom")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path. An empty path falls back to the default
// location, where a missing file yields Default(); an explicit path that
// cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
