package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteDefault writes a default config.toml under ConfigDir() if one does
// not already exist. Returns the path and whether a new file was created.
func WriteDefault() (string, bool, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	d := DefaultConfig()
	content := fmt.Sprintf(`method = %q
budget = %d
short_threshold = %d
min_repeat_len = %d
split_ratio = %v

recency_bonus = %v
exclusivity_bonus = %v

[archive]
dir = %q
compress = %t
`, d.Method, d.Budget, d.ShortThreshold, d.MinRepeatLen, d.SplitRatio,
		d.RecencyBonus, d.ExclusivityBonus, d.Archive.Dir, d.Archive.Compress)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}
