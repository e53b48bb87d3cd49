package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "data_dir: /var/lib/btcsync\nstorage:\n  backend: leveldb\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/var/lib/btcsync" {
		t.Fatalf("DataDir = %q, want /var/lib/btcsync", cfg.DataDir)
	}
	if cfg.Storage.Backend != BackendLevelDB {
		t.Fatalf("Storage.Backend = %q, want leveldb", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// Fields absent from the file keep their defaults.
	if !cfg.Metrics.Enabled {
		t.Fatal("Metrics.Enabled should keep its default of true")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate() to reject an unknown backend")
	}
}

func TestValidateRejectsEmptyDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate() to reject an empty data dir")
	}
}
