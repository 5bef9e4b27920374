// Package config provides configuration loading and management for flypad.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The defaults work out of the box: the embedded preset
// catalog, a 30 Hz frame loop and the A32NX variable names.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//
// Configuration priority (highest to lowest):
//  1. Environment variables (FLYPAD_ prefix, e.g. FLYPAD_LOG_LEVEL)
//  2. Config file specified by FLYPAD_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/flypad/config.yaml
//     - macOS: ~/Library/Application Support/flypad/config.yaml
//     - Windows: %APPDATA%\flypad\config.yaml
//  4. ./flypad.yaml
//  5. [DefaultConfig] defaults
package config

import (
	"time"

	"flypad/internal/backend"
	"flypad/internal/gateway"
)

// Config represents the root configuration structure.
type Config struct {
	// Catalog selects the preset catalog.
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Engine contains preset engine settings.
	Engine EngineConfig `mapstructure:"engine"`

	// Sim contains frame loop settings.
	Sim SimConfig `mapstructure:"sim"`

	// Variables names the request and progress variables.
	Variables backend.Variables `mapstructure:"variables"`

	// Script contains expression interpreter settings.
	Script ScriptConfig `mapstructure:"script"`

	// Log contains logging settings.
	Log LogConfig `mapstructure:"log"`
}

// CatalogConfig selects the preset catalog.
type CatalogConfig struct {
	// Path is a catalog file (.ini, .yaml, .toml, .json or .csv).
	// Empty uses the embedded default catalog.
	// Can be overridden with FLYPAD_CATALOG.
	Path string `mapstructure:"path"`
}

// EngineConfig contains preset engine settings.
type EngineConfig struct {
	// SequenceTimeout aborts a sequence whose conditional step is still
	// unmet after this long. Zero disables the timeout.
	SequenceTimeout time.Duration `mapstructure:"sequence_timeout"`
}

// SimConfig contains frame loop settings.
type SimConfig struct {
	// FrameRate is the number of frames per simulated second.
	// Default: 30
	FrameRate float64 `mapstructure:"frame_rate"`

	// MaxDuration bounds a single load in simulated time. Zero means no limit.
	// Default: 10m
	MaxDuration time.Duration `mapstructure:"max_duration"`

	// Realtime paces frames to the wall clock.
	Realtime bool `mapstructure:"realtime"`
}

// ScriptConfig contains expression interpreter settings.
type ScriptConfig struct {
	// CacheSize is the number of compiled expressions kept.
	CacheSize int `mapstructure:"cache_size"`

	// TimeBudget interrupts an expression that runs longer than this.
	TimeBudget time.Duration `mapstructure:"time_budget"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`

	// File is the rotated log file. Empty logs to stderr.
	File string `mapstructure:"file"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			FrameRate:   30,
			MaxDuration: 10 * time.Minute,
		},
		Variables: backend.DefaultVariables(),
		Script: ScriptConfig{
			CacheSize:  gateway.DefaultCacheSize,
			TimeBudget: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
