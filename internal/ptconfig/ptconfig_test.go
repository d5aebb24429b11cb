package ptconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Ignore) != 0 || len(cfg.ExtraMarkers) != 0 {
		t.Errorf("expected zero Config, got %+v", cfg)
	}
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := "ignore:\n  - vendor/**\n  - '*.generated.go'\nextra_markers:\n  - \"@llm-prompt\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "vendor/**" {
		t.Errorf("Ignore = %+v", cfg.Ignore)
	}
	if len(cfg.ExtraMarkers) != 1 || cfg.ExtraMarkers[0] != "@llm-prompt" {
		t.Errorf("ExtraMarkers = %+v", cfg.ExtraMarkers)
	}
}
