package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Method != "eitf" {
		t.Errorf("Method = %q", cfg.Method)
	}
	if cfg.Budget != 80000 {
		t.Errorf("Budget = %d", cfg.Budget)
	}
	if cfg.ShortThreshold != 300 {
		t.Errorf("ShortThreshold = %d", cfg.ShortThreshold)
	}
	if cfg.MinRepeatLen != 64 {
		t.Errorf("MinRepeatLen = %d", cfg.MinRepeatLen)
	}
	if cfg.SplitRatio != 0.70 {
		t.Errorf("SplitRatio = %v", cfg.SplitRatio)
	}
	if cfg.RecencyBonus != 0.15 {
		t.Errorf("RecencyBonus = %v", cfg.RecencyBonus)
	}
	if cfg.ExclusivityBonus != 0.20 {
		t.Errorf("ExclusivityBonus = %v", cfg.ExclusivityBonus)
	}
	if !cfg.Archive.Compress {
		t.Error("Archive.Compress should default to true")
	}
}

func TestLoad_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Budget != 80000 {
		t.Errorf("want default budget when no config file exists, got %d", cfg.Budget)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "supercompact")
	os.MkdirAll(configDir, 0o755)

	tomlContent := `method = "setcover"
budget = 40000
short_threshold = 250
min_repeat_len = 32
split_ratio = 0.5

[archive]
dir = "/tmp/arch"
compress = false
`
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(tomlContent), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Method != "setcover" {
		t.Errorf("Method = %q", cfg.Method)
	}
	if cfg.Budget != 40000 {
		t.Errorf("Budget = %d", cfg.Budget)
	}
	if cfg.ShortThreshold != 250 {
		t.Errorf("ShortThreshold = %d", cfg.ShortThreshold)
	}
	if cfg.Archive.Compress {
		t.Error("Archive.Compress should be false")
	}
	if cfg.Archive.Dir != "/tmp/arch" {
		t.Errorf("Archive.Dir = %q", cfg.Archive.Dir)
	}
}

func TestLoad_XDGPriority(t *testing.T) {
	xdg := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", home)

	xdgDir := filepath.Join(xdg, "supercompact")
	os.MkdirAll(xdgDir, 0o755)
	os.WriteFile(filepath.Join(xdgDir, "config.toml"), []byte(`budget = 1111`), 0o644)

	homeDir := filepath.Join(home, ".config", "supercompact")
	os.MkdirAll(homeDir, 0o755)
	os.WriteFile(filepath.Join(homeDir, "config.toml"), []byte(`budget = 2222`), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Budget != 1111 {
		t.Errorf("Budget = %d, want 1111 (XDG should take priority)", cfg.Budget)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "supercompact")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`budget = [broken`), 0o644)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoad_ExpandsArchiveDirHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir := filepath.Join(xdg, "supercompact")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[archive]\ndir = \"~/my-archive\"\n"), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(home, "my-archive")
	if cfg.Archive.Dir != want {
		t.Errorf("Archive.Dir = %q, want %q", cfg.Archive.Dir, want)
	}
}
