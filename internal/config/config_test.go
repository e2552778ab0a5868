package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "silent" {
		t.Errorf("expected log level silent, got %s", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.Database, filepath.Join(appDir, dbFile)) {
		t.Errorf("unexpected default database path %s", cfg.Database)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "silent" {
		t.Errorf("expected silent, got %s", cfg.LogLevel)
	}
	if strings.HasPrefix(cfg.Database, "~") {
		t.Errorf("database path should be expanded, got %s", cfg.Database)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "work.db")

	content := "database: " + dbPath + "\nlog_level: INFO\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database != dbPath {
		t.Errorf("expected database %s, got %s", dbPath, cfg.Database)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected normalised level info, got %s", cfg.LogLevel)
	}
	if cfg.DateFormat != DefaultConfig().DateFormat {
		t.Errorf("date format should fall back to default, got %s", cfg.DateFormat)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("HOURTREE_DATABASE", dbPath)
	t.Setenv("HOURTREE_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database != dbPath {
		t.Errorf("expected env database %s, got %s", dbPath, cfg.Database)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected warn, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "log_level: silent") {
		t.Errorf("default config missing log_level:\n%s", data)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/x/y.db")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != filepath.Join(home, "x", "y.db") {
		t.Errorf("unexpected expansion %s", got)
	}

	got, _ = ExpandHome("/abs/path.db")
	if got != "/abs/path.db" {
		t.Errorf("absolute path should be unchanged, got %s", got)
	}
}
