package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Data.PakPaths) == 0 {
		t.Error("expected at least one default pak path")
	}
	if cfg.Data.PaletteName != "gfx/palette.lmp" {
		t.Errorf("palette = %q, expected gfx/palette.lmp", cfg.Data.PaletteName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, expected info", cfg.Logging.Level)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config path")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quake.yaml")
	content := []byte(`
data:
  pak_paths:
    - id1/pak0.pak
    - id1/pak1.pak
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(cfg.Data.PakPaths) != 2 || cfg.Data.PakPaths[1] != "id1/pak1.pak" {
		t.Errorf("pak paths = %v", cfg.Data.PakPaths)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, expected debug", cfg.Logging.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.Data.PaletteName != "gfx/palette.lmp" {
		t.Errorf("palette = %q, expected default", cfg.Data.PaletteName)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("data: ["), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
