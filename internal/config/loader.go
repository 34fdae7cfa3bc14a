package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "neutronic.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.neutronic/configs/neutronic.yaml -> ./configs/neutronic.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the keys it sets.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes data over the hardcoded defaults and fills zero values back in.
func parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces non-positive durations and bounds with their defaults.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	positive := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	positive(&c.Animation.MoveMs, d.Animation.MoveMs)
	positive(&c.Animation.DropoutMs, d.Animation.DropoutMs)
	positive(&c.Animation.TransportMs, d.Animation.TransportMs)
	positive(&c.Playback.RetryMs, d.Playback.RetryMs)
	positive(&c.Solver.MaxDepth, d.Solver.MaxDepth)
	positive(&c.Solver.HintTimeoutMs, d.Solver.HintTimeoutMs)
	positive(&c.SSH.IdleTimeoutMin, d.SSH.IdleTimeoutMin)
	if c.Playback.PaddingMs < 0 {
		c.Playback.PaddingMs = d.Playback.PaddingMs
	}
	if c.Solver.NodeBudget < 0 {
		c.Solver.NodeBudget = 0
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = d.Storage.DBPath
	}
	if c.SSH.Address == "" {
		c.SSH.Address = d.SSH.Address
	}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neutronic", "configs", filename)
}
