package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(`[server]
name = "test-shard"
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "test-shard" {
		t.Fatalf("expected overridden server name, got %q", cfg.Server.Name)
	}
	if cfg.Tick.Cadence != 100*time.Millisecond {
		t.Fatalf("expected default tick cadence, got %v", cfg.Tick.Cadence)
	}
	if cfg.Rates.ExpRate != 1.0 {
		t.Fatalf("expected default exp rate 1.0, got %v", cfg.Rates.ExpRate)
	}
}

func TestLoadOverridesTickAndRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(`[tick]
cadence = "200ms"

[rates]
exp_rate = 2.5
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tick.Cadence != 200*time.Millisecond {
		t.Fatalf("expected overridden cadence, got %v", cfg.Tick.Cadence)
	}
	if cfg.Rates.ExpRate != 2.5 {
		t.Fatalf("expected overridden exp rate, got %v", cfg.Rates.ExpRate)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
