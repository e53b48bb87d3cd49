// Package config loads the synchronization daemon's on-disk
// configuration: data directory, chosen storage backend, logging and
// metrics settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// StorageBackend names which Store implementation to open.
type StorageBackend string

const (
	// BackendMemory keeps all blocks in memory; useful for tests and
	// disposable devnets, never for a real deployment.
	BackendMemory StorageBackend = "memory"
	// BackendPebble opens a github.com/cockroachdb/pebble-backed store.
	BackendPebble StorageBackend = "pebble"
	// BackendLevelDB opens a github.com/syndtr/goleveldb-backed store.
	BackendLevelDB StorageBackend = "leveldb"
)

// Config is the daemon's full on-disk configuration.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects and tunes the backing store.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend"`
}

// LogConfig configures the daemon's logging output.
type LogConfig struct {
	Level    string `yaml:"level"`
	File     string `yaml:"file"`
	Console  bool   `yaml:"console"`
}

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns the daemon's out-of-the-box configuration.
func Default() Config {
	return Config{
		DataDir: "./data",
		Storage: StorageConfig{Backend: BackendPebble},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Listen:  "127.0.0.1:9090",
		},
	}
}

// Load reads and parses a YAML configuration file at path, starting
// from Default() so unspecified fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that cfg describes a configuration the daemon can
// actually start with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendPebble, BackendLevelDB:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
