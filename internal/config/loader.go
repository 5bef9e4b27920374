package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLYPAD"

// Loader loads configuration with Viper.
//
// Use [NewLoader] to create an instance, then [Loader.Load] for the standard
// discovery order or [Loader.LoadFromFile] for an explicit file.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with the defaults of [DefaultConfig] registered
// and environment overrides enabled.
func NewLoader() *Loader {
	v := viper.New()

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load reads the first config file found in the standard locations and
// applies environment overrides. Missing files are not an error.
func (l *Loader) Load() (*Config, error) {
	if path := findConfigFile(); path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadFromFile reads the given config file. The format follows the file's
// extension.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// AutomaticEnv reads a set FLYPAD_CATALOG as the whole catalog table and
	// hides catalog.path, so the shorthand is applied here.
	if path := os.Getenv(EnvPrefix + "_CATALOG"); path != "" {
		cfg.Catalog.Path = path
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		return path
	}

	var candidates []string
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "flypad", "config.yaml"))
	}
	candidates = append(candidates, "flypad.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.path", cfg.Catalog.Path)

	v.SetDefault("engine.sequence_timeout", cfg.Engine.SequenceTimeout)

	v.SetDefault("sim.frame_rate", cfg.Sim.FrameRate)
	v.SetDefault("sim.max_duration", cfg.Sim.MaxDuration)
	v.SetDefault("sim.realtime", cfg.Sim.Realtime)

	v.SetDefault("variables.request", cfg.Variables.Request)
	v.SetDefault("variables.cancel", cfg.Variables.Cancel)
	v.SetDefault("variables.progress", cfg.Variables.Progress)
	v.SetDefault("variables.current_id", cfg.Variables.CurrentID)
	v.SetDefault("variables.current_step", cfg.Variables.CurrentStep)

	v.SetDefault("script.cache_size", cfg.Script.CacheSize)
	v.SetDefault("script.time_budget", cfg.Script.TimeBudget)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}
