package config

import (
	_ "embed"
)

//go:embed defaults/neutronic.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() Config {
	return Config{
		Animation: AnimationConfig{
			MoveMs:      200,
			DropoutMs:   1000,
			TransportMs: 200,
		},
		Playback: PlaybackConfig{
			PaddingMs: 50,
			RetryMs:   100,
		},
		Solver: SolverConfig{
			MaxDepth:      30,
			NodeBudget:    5_000_000,
			HintTimeoutMs: 2000,
		},
		Storage: StorageConfig{
			DBPath: "~/.neutronic/neutronic.db",
		},
		SSH: SSHConfig{
			Address:        ":23234",
			IdleTimeoutMin: 30,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
