// Package config loads the wpblock CLI configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the CLI configuration. Flags override file values.
type Config struct {
	Format        string   `toml:"format"`
	Width         int      `toml:"width"`
	IgnoreRules   []string `toml:"ignore_rules"`
	HistoryLimit  int      `toml:"history_limit"`
	CleanStaleOps bool     `toml:"clean_stale_ops"`
	Log           Log      `toml:"log"`
	Store         Store    `toml:"store"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	JSON  bool   `toml:"json"`
}

type Store struct {
	Driver   string   `toml:"driver"`
	Path     string   `toml:"path"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Duration decodes TOML strings such as "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var formats = map[string]bool{
	"outline": true,
	"json":    true,
	"yaml":    true,
	"markup":  true,
	"tokens":  true,
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:        "outline",
		HistoryLimit:  50,
		CleanStaleOps: true,
		Log:           Log{Level: "warn"},
		Store:         Store{Driver: "file"},
	}
}

// Load reads path over the defaults. A missing path is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if !formats[c.Format] {
		return fmt.Errorf("invalid format %q", c.Format)
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}
	switch c.Store.Driver {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("invalid store driver %q", c.Store.Driver)
	}
	return nil
}
