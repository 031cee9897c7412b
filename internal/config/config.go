// Package config loads supercompact's optional TOML configuration file,
// which supplies defaults for the method/budget/threshold flags the CLI
// also accepts directly. Precedence, highest to lowest: CLI flag >
// environment variable > config file > built-in default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds every value the configuration file can set (spec §6).
// RecencyBonus and ExclusivityBonus are loaded and written by WriteDefault,
// but the pipeline does not read them: the selector and the SetCover
// scorer use their own fixed constants (0.15 and 0.20).
type Config struct {
	Method         string  `toml:"method"`
	Budget         int     `toml:"budget"`
	ShortThreshold int     `toml:"short_threshold"`
	MinRepeatLen   int     `toml:"min_repeat_len"`
	SplitRatio     float64 `toml:"split_ratio"`

	RecencyBonus     float64 `toml:"recency_bonus"`
	ExclusivityBonus float64 `toml:"exclusivity_bonus"`

	Archive ArchiveConfig `toml:"archive"`
}

// ArchiveConfig configures the `compact archive` subcommand. Only Dir is
// read; Compress is loaded but ignored, and archives are always written
// zstd-compressed.
type ArchiveConfig struct {
	Dir      string `toml:"dir"`
	Compress bool   `toml:"compress"`
}

// DefaultConfig returns config with the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Method:         "eitf",
		Budget:         80000,
		ShortThreshold: 300,
		MinRepeatLen:   64,
		SplitRatio:     0.70,

		RecencyBonus:     0.15,
		ExclusivityBonus: 0.20,

		Archive: ArchiveConfig{
			Dir:      "~/.cache/supercompact/archive",
			Compress: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
// A missing file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.Archive.Dir = expandHome(cfg.Archive.Dir)
	return cfg, nil
}

// ConfigDir returns supercompact's config directory: $XDG_CONFIG_HOME/supercompact
// if set, otherwise ~/.config/supercompact.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "supercompact")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "supercompact")
}

func configPaths() []string {
	return []string{filepath.Join(ConfigDir(), "config.toml")}
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
