package hloo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// SavePreset writes (or updates) a single named preset into the project
// config file at path, creating the file if it doesn't exist. The write
// itself is a single-shot atomic replace via natefinch/atomic; no
// fine-grained permission control is needed since config files always use
// the process umask.
func SavePreset(path, name string, preset Preset) error {
	cfg := presetFile{Presets: map[string]rawPreset{}}

	if existing, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(existing, &cfg); err != nil {
			return fmt.Errorf("hloo: parse existing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("hloo: read existing config %s: %w", path, err)
	}

	if cfg.Presets == nil {
		cfg.Presets = map[string]rawPreset{}
	}

	cfg.Presets[name] = rawPreset{F: preset.F, R: preset.R, K: preset.K, W: preset.W, Dir: preset.Dir}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("hloo: marshal config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("hloo: write config %s: %w", path, err)
	}

	return nil
}
