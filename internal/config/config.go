// Package config provides configuration management for openskills.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/util"
)

// Config represents the complete openskills configuration.
type Config struct {
	// Roots configures where skills are discovered
	Roots RootsConfig `yaml:"roots"`

	// Load configures load pass behavior
	Load LoadConfig `yaml:"load"`

	// Cache configures parse caching
	Cache CacheConfig `yaml:"cache"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// RootsConfig holds skill root configuration.
type RootsConfig struct {
	// Paths is an ordered list of roots to search (project then user).
	// Paths can use ~ for home directory or be relative to the working
	// directory.
	Paths []string `yaml:"paths,omitempty"`
	// Layout selects the root directory layout (flat, grouped).
	Layout string `yaml:"layout,omitempty"`
	// LegacyPaths are additional roots from older layout conventions.
	// They are searched after Paths and their use is logged.
	LegacyPaths []string `yaml:"legacy_paths,omitempty"`
}

// LoadConfig holds load pass settings.
type LoadConfig struct {
	// Workers is the number of parallel manifest parsers (1 = sequential).
	Workers int `yaml:"workers"`
	// Strict makes CLI commands exit non-zero when diagnostics exist.
	Strict bool `yaml:"strict"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	// Enabled enables or disables the parse cache
	Enabled bool `yaml:"enabled"`
	// TTL is the time-to-live for cache records
	TTL time.Duration `yaml:"ttl"`
	// Location is the cache directory path
	Location string `yaml:"location"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json, yaml)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Roots: RootsConfig{
			Paths: []string{
				util.ProjectSkillsPath("."),
				util.UserSkillsPath(),
			},
			Layout: model.LayoutFlat.String(),
		},
		Load: LoadConfig{
			Workers: 1,
			Strict:  false,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      time.Hour,
			Location: util.CacheDir(),
		},
		Output: OutputConfig{
			Format: "table",
			Color:  "auto",
		},
	}
}

// Load reads configuration from the default file path, falling back to
// defaults when no file exists, then applies environment overrides.
func Load() (*Config, error) {
	return LoadFrom(util.ConfigFilePath())
}

// LoadFrom reads configuration from the given path. A missing file is not an
// error; defaults are used.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv applies OPENSKILLS_* environment overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENSKILLS_ROOTS"); v != "" {
		cfg.Roots.Paths = splitList(v)
	}
	if v := os.Getenv("OPENSKILLS_LAYOUT"); v != "" {
		cfg.Roots.Layout = v
	}
	if v := os.Getenv("OPENSKILLS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Load.Workers = n
		}
	}
	if v := os.Getenv("OPENSKILLS_CACHE"); v != "" {
		cfg.Cache.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("OPENSKILLS_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = ttl
		}
	}
	if v := os.Getenv("OPENSKILLS_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.Output.Color = "never"
	}
}

// splitList splits a path-list environment value on the OS list separator
// or commas.
func splitList(v string) []string {
	sep := string(os.PathListSeparator)
	if !strings.Contains(v, sep) {
		sep = ","
	}

	var out []string
	for _, part := range strings.Split(v, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if _, err := model.ParseLayout(c.Roots.Layout); err != nil {
		return fmt.Errorf("invalid roots.layout: %w", err)
	}
	if c.Load.Workers < 1 {
		return fmt.Errorf("load.workers must be >= 1, got %d", c.Load.Workers)
	}
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output.format %q (valid: table, json, yaml)", c.Output.Format)
	}
	return nil
}

// Layout returns the parsed root layout.
func (c *Config) Layout() model.Layout {
	layout, err := model.ParseLayout(c.Roots.Layout)
	if err != nil {
		return model.LayoutFlat
	}
	return layout
}

// ResolvedRoots returns all configured roots with ~ expanded, primary paths
// first, legacy alias roots last.
func (c *Config) ResolvedRoots() []string {
	roots := make([]string, 0, len(c.Roots.Paths)+len(c.Roots.LegacyPaths))
	for _, p := range c.Roots.Paths {
		roots = append(roots, util.ExpandHome(p))
	}
	for _, p := range c.Roots.LegacyPaths {
		roots = append(roots, util.ExpandHome(p))
	}
	return roots
}

// Save writes the configuration to the given path in YAML form.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// #nosec G306 - config files should be readable by user
	return os.WriteFile(path, data, 0o644)
}
