package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no config overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("FLYPAD_CONFIG_PATH", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Catalog.Path)
	assert.Zero(t, cfg.Engine.SequenceTimeout)
	assert.Equal(t, 30.0, cfg.Sim.FrameRate)
	assert.Equal(t, 10*time.Minute, cfg.Sim.MaxDuration)
	assert.False(t, cfg.Sim.Realtime)
	assert.Equal(t, "A32NX_AIRCRAFT_PRESET_LOAD", cfg.Variables.Request)
	assert.Equal(t, "A32NX_AIRCRAFT_PRESET_LOAD_PROGRESS", cfg.Variables.Progress)
	assert.Equal(t, 256, cfg.Script.CacheSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
catalog:
  path: /srv/presets.ini
engine:
  sequence_timeout: 45s
sim:
  frame_rate: 60
  realtime: true
variables:
  request: L:PRESET_LOAD
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	loader := NewLoader()
	cfg, err := loader.LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "/srv/presets.ini", cfg.Catalog.Path)
	assert.Equal(t, 45*time.Second, cfg.Engine.SequenceTimeout)
	assert.Equal(t, 60.0, cfg.Sim.FrameRate)
	assert.True(t, cfg.Sim.Realtime)
	assert.Equal(t, "L:PRESET_LOAD", cfg.Variables.Request)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, "A32NX_AIRCRAFT_PRESET_LOAD_CANCEL", cfg.Variables.Cancel)
	assert.Equal(t, 10*time.Minute, cfg.Sim.MaxDuration)
}

func TestLoader_LoadFromFile_NonExistent(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadFromFile("/nonexistent/path/config.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoader_LoadFromFile_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidContent := `
sim:
  - this is not valid yaml for this structure
    missing: colon here
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidContent), 0644))

	loader := NewLoader()
	_, err := loader.LoadFromFile(configPath)

	assert.Error(t, err)
}

func TestLoader_LoadFromFile_JSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	jsonContent := `{
		"log": {
			"file": "/var/log/flypad.log"
		}
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(jsonContent), 0644))

	loader := NewLoader()
	cfg, err := loader.LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "/var/log/flypad.log", cfg.Log.File)
}

func TestLoader_Load_DefaultsWithNoConfigFile(t *testing.T) {
	isolate(t)

	loader := NewLoader()
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_Load_WithEnvOverride(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		env   string
		value string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "nested key",
			env:   "FLYPAD_LOG_LEVEL",
			value: "error",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "error", cfg.Log.Level) },
		},
		{
			name:  "duration",
			env:   "FLYPAD_ENGINE_SEQUENCE_TIMEOUT",
			value: "90s",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 90*time.Second, cfg.Engine.SequenceTimeout) },
		},
		{
			name:  "catalog shorthand",
			env:   "FLYPAD_CATALOG",
			value: "/env/presets.yaml",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "/env/presets.yaml", cfg.Catalog.Path) },
		},
		{
			name:  "catalog path",
			env:   "FLYPAD_CATALOG_PATH",
			value: "/env/other.toml",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "/env/other.toml", cfg.Catalog.Path) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			cfg, err := NewLoader().Load()

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoader_Load_WithConfigPathEnv(t *testing.T) {
	isolate(t)

	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("sim:\n  frame_rate: 15\n"), 0644))
	t.Setenv("FLYPAD_CONFIG_PATH", configPath)

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, 15.0, cfg.Sim.FrameRate)
}

func TestLoader_Load_WorkingDirectoryFile(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile("flypad.yaml", []byte("log:\n  level: info\n"), 0644))

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_Load_EnvOverridesTakePrecedence(t *testing.T) {
	isolate(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: info\n"), 0644))
	t.Setenv("FLYPAD_CONFIG_PATH", configPath)
	t.Setenv("FLYPAD_LOG_LEVEL", "debug")

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_LoadFromFile_CatalogShorthandWins(t *testing.T) {
	isolate(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("catalog:\n  path: /file/presets.ini\nlog:\n  level: info\n"), 0644))
	t.Setenv("FLYPAD_CATALOG", "/env/presets.yaml")

	cfg, err := NewLoader().LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "/env/presets.yaml", cfg.Catalog.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestMustLoad_Success(t *testing.T) {
	isolate(t)

	cfg := MustLoad()
	assert.NotNil(t, cfg)
}
