package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds optional CLI defaults, loaded from a YAML file so an
// operator can avoid repeating --backend/path flags across invocations.
// It is pure convenience: every field it supplies can also be set by flag,
// and flags always take precedence over a loaded Config.
type Config struct {
	// DefaultBackend is the store backend ("json" or "sqlite") used when
	// a subcommand's --backend flag is left at its zero value.
	DefaultBackend string `yaml:"default_backend,omitempty"`

	// CassettePath is the cassette file used when a subcommand is invoked
	// without a path argument.
	CassettePath string `yaml:"cassette_path,omitempty"`
}

// LoadConfig reads and parses a Config from path. A missing file is not an
// error — it is reported as (Config{}, nil) so callers can treat "no config
// file" and "empty config file" identically.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in backend/path from cfg wherever the corresponding
// flag value was left at its zero value.
func applyDefaults(cfg Config, backend, path string) (resolvedBackend, resolvedPath string) {
	resolvedBackend, resolvedPath = backend, path
	if resolvedBackend == "" {
		resolvedBackend = cfg.DefaultBackend
	}
	if resolvedPath == "" {
		resolvedPath = cfg.CassettePath
	}
	return resolvedBackend, resolvedPath
}
