package hloo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the default project config file name.
const ConfigFileName = ".hloo.json"

// Preset names one (f, r, k, w, dir) instantiation so callers can open a
// Lookup by name instead of repeating parameters at every call site.
type Preset struct {
	F, R, K, W int
	Dir        string
}

func (p Preset) isZero() bool { return p == Preset{} }

type presetFile struct {
	Presets map[string]rawPreset `json:"presets"`
}

type rawPreset struct {
	F   int    `json:"f"`
	R   int    `json:"r"`
	K   int    `json:"k"`
	W   int    `json:"w"`
	Dir string `json:"dir,omitempty"`
}

func (r rawPreset) toPreset() Preset { return Preset{F: r.F, R: r.R, K: r.K, W: r.W, Dir: r.Dir} }

// ConfigSources records which config files contributed to a resolved
// preset, for diagnostics.
type ConfigSources struct {
	Global  string
	Project string
}

// LoadPreset resolves a named preset with precedence, lowest to highest:
// global config ($XDG_CONFIG_HOME/hloo/config.json or
// ~/.config/hloo/config.json) ⇒ project config (.hloo.json in workDir) ⇒
// explicit path, if non-empty ⇒ programmatic overrides (any non-zero field
// in overrides wins outright).
func LoadPreset(name, workDir, explicitPath string, overrides Preset, env []string) (Preset, ConfigSources, error) {
	var (
		resolved Preset
		sources  ConfigSources
		found    bool
	)

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		preset, loaded, err := loadNamedPreset(globalPath, name, false)
		if err != nil {
			return Preset{}, ConfigSources{}, err
		}

		if loaded {
			resolved = preset
			sources.Global = globalPath
			found = true
		}
	}

	projectPath := filepath.Join(workDir, ConfigFileName)

	preset, loaded, err := loadNamedPreset(projectPath, name, false)
	if err != nil {
		return Preset{}, ConfigSources{}, err
	}

	if loaded {
		resolved = preset
		sources.Project = projectPath
		found = true
	}

	if explicitPath != "" {
		path := explicitPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		preset, loaded, err := loadNamedPreset(path, name, true)
		if err != nil {
			return Preset{}, ConfigSources{}, err
		}

		if loaded {
			resolved = preset
			found = true
		}
	}

	resolved = applyOverrides(resolved, overrides)

	if !found && resolved.isZero() {
		return Preset{}, ConfigSources{}, fmt.Errorf("%w: no preset named %q found in any config file or overrides", errPresetNotFound, name)
	}

	return resolved, sources, nil
}

var errPresetNotFound = errors.New("hloo: preset not found")

func applyOverrides(base, overrides Preset) Preset {
	if overrides.F != 0 {
		base.F = overrides.F
	}

	if overrides.R != 0 {
		base.R = overrides.R
	}

	if overrides.K != 0 {
		base.K = overrides.K
	}

	if overrides.W != 0 {
		base.W = overrides.W
	}

	if overrides.Dir != "" {
		base.Dir = overrides.Dir
	}

	return base
}

func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "hloo", "config.json")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hloo", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "hloo", "config.json")
}

func loadNamedPreset(path, name string, mustExist bool) (Preset, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Preset{}, false, nil
		}

		return Preset{}, false, fmt.Errorf("hloo: read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Preset{}, false, fmt.Errorf("hloo: invalid JSONC in %s: %w", path, err)
	}

	var cfg presetFile

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Preset{}, false, fmt.Errorf("hloo: invalid JSON in %s: %w", path, err)
	}

	raw, ok := cfg.Presets[name]
	if !ok {
		return Preset{}, false, nil
	}

	return raw.toPreset(), true, nil
}
