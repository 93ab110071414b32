package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"PARTYSYNC_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PARTYSYNC_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LeaseTTL != 30*time.Second {
		t.Fatalf("expected 30s lease, got %s", cfg.LeaseTTL)
	}
	if len(cfg.PreGamePhases) != 2 || cfg.PreGamePhases[0] != "lobby" || cfg.PreGamePhases[1] != "setup" {
		t.Fatalf("unexpected pre-game phases %v", cfg.PreGamePhases)
	}
}

func TestLoadDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	contents := "PRE_GAME_PHASES=lobby,draft\nSWEEP_INTERVAL=2s\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PRE_GAME_PHASES", "")
	os.Unsetenv("PRE_GAME_PHASES")
	t.Setenv("SWEEP_INTERVAL", "9s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.PreGamePhases) != 2 || cfg.PreGamePhases[1] != "draft" {
		t.Fatalf("expected phases from file, got %v", cfg.PreGamePhases)
	}
	if cfg.SweepInterval != 9*time.Second {
		t.Fatalf("expected environment to win, got %s", cfg.SweepInterval)
	}
}

func TestLoadRejectsKeepaliveLongerThanLease(t *testing.T) {
	t.Setenv("LEASE_TTL", "5s")
	t.Setenv("KEEPALIVE_INTERVAL", "10s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "KEEPALIVE_INTERVAL") {
		t.Fatalf("unexpected error %v", err)
	}
}
