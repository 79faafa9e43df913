package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"inscope/internal/engine/resolver"
)

type Config struct {
	Version       int           `toml:"version"`
	WatchPaths    []string      `toml:"watch_paths"`
	Source        Source        `toml:"source"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Resolver      Resolver      `toml:"resolver"`
	DB            Database      `toml:"db"`
	Observability Observability `toml:"observability"`
}

type Source struct {
	Extensions []string `toml:"extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Resolver struct {
	MaxAliasDepth int `toml:"max_alias_depth"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	ProjectKey  string        `toml:"project_key"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateSource(&cfg); err != nil {
		return nil, err
	}
	if err := validateResolver(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}
	if len(cfg.Source.Extensions) == 0 {
		cfg.Source.Extensions = []string{".ex", ".exs"}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "_build", "deps", "node_modules"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if cfg.Resolver.MaxAliasDepth == 0 {
		cfg.Resolver.MaxAliasDepth = resolver.DefaultMaxAliasDepth
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "clauses.db"
	}
	if strings.TrimSpace(cfg.DB.ProjectKey) == "" {
		cfg.DB.ProjectKey = "default"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; only version 1 is supported", cfg.Version)
	}
	return nil
}

func validateSource(cfg *Config) error {
	for _, ext := range cfg.Source.Extensions {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return fmt.Errorf("source.extensions must not include empty values")
		}
		if !strings.HasPrefix(trimmed, ".") {
			return fmt.Errorf("source extension %q must start with a dot", ext)
		}
	}
	for _, path := range cfg.WatchPaths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("watch_paths must not include empty values")
		}
	}
	return nil
}

func validateResolver(cfg *Config) error {
	if cfg.Resolver.MaxAliasDepth < 1 {
		return fmt.Errorf("resolver.max_alias_depth must be >= 1, got %d", cfg.Resolver.MaxAliasDepth)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Enabled && strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty when db.enabled=true")
	}
	return nil
}
