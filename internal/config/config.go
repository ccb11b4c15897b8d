// Package config holds the CLI configuration. Values come from a YAML
// file, then environment variables, then command-line flags, each
// layer overriding the last.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFile = ".regionflow.yaml"

// Config holds all settings for the regionflow CLI.
type Config struct {
	// Format selects the report rendering: "text" or "json".
	Format string `yaml:"format"`

	// LogLevel is the minimum level for diagnostic output:
	// "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`

	// Jobs bounds the number of concurrent per-function analyses in
	// the funcs sweep.
	Jobs int `yaml:"jobs"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the on-disk report cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// Dir is the directory holding the cache snapshot.
	Dir string `yaml:"dir"`

	// Capacity is the maximum number of cached reports. Zero means
	// unbounded.
	Capacity int `yaml:"capacity"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	dir := ""
	if base, err := os.UserCacheDir(); err == nil {
		dir = filepath.Join(base, "regionflow")
	}
	return &Config{
		Format:   "text",
		LogLevel: "info",
		Jobs:     runtime.GOMAXPROCS(0),
		Cache: CacheConfig{
			Enabled:  dir != "",
			Dir:      dir,
			Capacity: 256,
		},
	}
}

// Load reads configuration from path. An empty path means the default
// file, which may be absent; an explicit path must exist. Environment
// overrides apply after the file and the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REGIONFLOW_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("REGIONFLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("REGIONFLOW_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Jobs = n
		}
	}
	if v := os.Getenv("REGIONFLOW_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
		cfg.Cache.Enabled = true
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be \"text\" or \"json\")", c.Format)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be positive")
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache capacity must be non-negative")
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache enabled but no cache dir configured")
	}
	return nil
}

// SlogLevel maps LogLevel to the slog level used by the CLI handler.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SnapshotPath is the cache snapshot file within the cache directory.
func (c *CacheConfig) SnapshotPath() string {
	return filepath.Join(c.Dir, "reports.msgpack")
}
