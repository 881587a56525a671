package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RPCAddress != ":8080" {
		t.Fatalf("unexpected default RPCAddress: %q", cfg.RPCAddress)
	}
	if cfg.NetworkName != "blink-local" {
		t.Fatalf("unexpected default NetworkName: %q", cfg.NetworkName)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not persisted: %v", err)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "RPCAddress = \":9999\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RPCAddress != ":9999" {
		t.Fatalf("explicit RPCAddress lost: %q", cfg.RPCAddress)
	}
	if cfg.DataDir != "./blink-data" {
		t.Fatalf("missing DataDir not defaulted: %q", cfg.DataDir)
	}
	if cfg.MetricsAddress != ":9090" {
		t.Fatalf("missing MetricsAddress not defaulted: %q", cfg.MetricsAddress)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("RPCAddress = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config should fail to load")
	}
}
