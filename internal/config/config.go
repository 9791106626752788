// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and BIGBOARD_ environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Storage backends accepted by StoreBackend.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// DefaultStorageKey is the key the override set is persisted under.
const DefaultStorageKey = "mavs-draft-board-rankings"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath points at a draft dataset JSON file. Empty uses the bundled dataset.
	DataPath string `koanf:"data_path"`

	// StoreBackend selects where manual overrides live: sqlite or memory.
	StoreBackend string `koanf:"store_backend"`

	// StorePath is the SQLite file used when StoreBackend is sqlite.
	StorePath string `koanf:"store_path"`

	// StorageKey names the single key holding the override set.
	StorageKey string `koanf:"storage_key"`

	// TopNDefault is the size of GET /top when no limit is given.
	TopNDefault int `koanf:"top_n_default"`

	// MaxTopN caps GET /top?limit.
	MaxTopN int `koanf:"max_top_n"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		DataPath:     "",
		StoreBackend: StoreSQLite,
		StorePath:    "bigboard.db",
		StorageKey:   DefaultStorageKey,
		TopNDefault:  3,
		MaxTopN:      100,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.StorageKey) == "":
		return fmt.Errorf("%w: storage_key must not be empty", ErrInvalidConfig)
	case c.MaxTopN < 1:
		return fmt.Errorf("%w: max_top_n must be positive", ErrInvalidConfig)
	case c.TopNDefault < 1 || c.TopNDefault > c.MaxTopN:
		return fmt.Errorf("%w: top_n_default must be between 1 and max_top_n", ErrInvalidConfig)
	}

	switch strings.ToLower(c.StoreBackend) {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.StorePath) == "" {
			return fmt.Errorf("%w: store_path must not be empty for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	return nil
}
