// Package config provides YAML-based configuration loading for neutronic.
package config

import (
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/solver"
)

// Config contains all configuration for the puzzle and its frontends.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Solver    SolverConfig    `yaml:"solver"`
	Levels    LevelsConfig    `yaml:"levels"`
	Storage   StorageConfig   `yaml:"storage"`
	SSH       SSHConfig       `yaml:"ssh"`
}

// AnimationConfig defines the deferred finalization delays in milliseconds.
type AnimationConfig struct {
	MoveMs      int `yaml:"move_ms"`
	DropoutMs   int `yaml:"dropout_ms"`
	TransportMs int `yaml:"transport_ms"`
}

// PlaybackConfig defines the pace of visible recording playback.
type PlaybackConfig struct {
	PaddingMs int `yaml:"padding_ms"` // Pause after each move animation
	RetryMs   int `yaml:"retry_ms"`   // Poll interval while the engine is locked
}

// SolverConfig bounds the solver and hint search.
type SolverConfig struct {
	MaxDepth      int `yaml:"max_depth"`
	NodeBudget    int `yaml:"node_budget"`
	HintTimeoutMs int `yaml:"hint_timeout_ms"`
}

// LevelsConfig locates level files.
type LevelsConfig struct {
	Dir string `yaml:"dir"` // Empty selects the built-in levels
}

// StorageConfig locates the database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// SSHConfig defines the SSH server settings.
type SSHConfig struct {
	Address        string `yaml:"address"`
	HostKeyPath    string `yaml:"host_key_path"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
}

// Timings converts the animation section to engine delays.
func (c Config) Timings() core.Timings {
	return core.Timings{
		Move:      ms(c.Animation.MoveMs),
		Dropout:   ms(c.Animation.DropoutMs),
		Transport: ms(c.Animation.TransportMs),
	}
}

// PlaybackTimings converts the playback section; steps are spaced by the
// move animation plus the padding.
func (c Config) PlaybackTimings() recording.PlaybackTimings {
	return recording.PlaybackTimings{
		Interval: ms(c.Animation.MoveMs + c.Playback.PaddingMs),
		Retry:    ms(c.Playback.RetryMs),
	}
}

// SolverOptions converts the solver section.
func (c Config) SolverOptions() solver.Options {
	return solver.Options{
		MaxDepth:   c.Solver.MaxDepth,
		NodeBudget: c.Solver.NodeBudget,
	}
}

// HintTimeout returns how long a hint search may run.
func (c Config) HintTimeout() time.Duration {
	return ms(c.Solver.HintTimeoutMs)
}

// IdleTimeout returns the SSH idle timeout.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.SSH.IdleTimeoutMin) * time.Minute
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
