package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"greenroom/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Deadlines.Offsets["editor"] != 7 {
		t.Fatalf("editor offset default should be 7, got %d", cfg.Deadlines.Offsets["editor"])
	}
	if cfg.Deadlines.Offsets["creative"] != 9 {
		t.Fatalf("creative offset default should be 9, got %d", cfg.Deadlines.Offsets["creative"])
	}
	if cfg.Notifications.RequestTimeout != 10 {
		t.Fatalf("request timeout default should be 10, got %d", cfg.Notifications.RequestTimeout)
	}
}

func TestLoadOverridesAndFillsOffsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[logging]
format = "JSON"

[deadlines.offsets]
Editor = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loadedPath, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || loadedPath != path {
		t.Fatalf("expected config loaded from %s, got %s (exists=%v)", path, loadedPath, exists)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format should normalize to json, got %q", cfg.Logging.Format)
	}
	if cfg.Deadlines.Offsets["editor"] != 5 {
		t.Fatalf("configured editor offset should win, got %d", cfg.Deadlines.Offsets["editor"])
	}
	if cfg.Deadlines.Offsets["production"] != 9 {
		t.Fatalf("missing offsets should fall back to defaults, got %d", cfg.Deadlines.Offsets["production"])
	}
}

func TestLoadRejectsNonPositiveOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[deadlines.offsets]
editor = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for zero offset")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error writing sample over existing file")
	}

	// The sample file must itself parse and validate.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing after EnsureDirectories", d)
		}
	}
	if got := cfg.DatabasePath(); got != filepath.Join(cfg.Paths.DataDir, "workflow.db") {
		t.Fatalf("unexpected database path %q", got)
	}
}
