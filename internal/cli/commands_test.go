package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flypad/internal/statefile"
)

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()
	require.Error(t, err)
	code, ok := IsExitError(err)
	assert.True(t, ok, "error should be an ExitError")
	assert.Equal(t, want, code)
}

func TestLoadCommand_Completes(t *testing.T) {
	app, buf := newTestApp(t)

	err := runCommand(app, "load", "1")

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Loading preset")
	assert.Contains(t, out, "Beacon on")
	assert.Contains(t, out, "APU available")
	assert.Contains(t, out, "Preset loaded")
}

func TestLoadCommand_ByName(t *testing.T) {
	app, buf := newTestApp(t)

	err := runCommand(app, "load", "lights on")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 Lights On")
}

func TestLoadCommand_StateFiles(t *testing.T) {
	app, buf := newTestApp(t)
	stateIn := writeFile(t, "in.yaml", "variables:\n  BEACON: 1\n  APU_AVAIL: 1\n")
	stateOut := filepath.Join(t.TempDir(), "out.msgpack")

	err := runCommand(app, "load", "1", "--state-in", stateIn, "--state-out", stateOut)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "already set")

	st, err := statefile.Read(stateOut)
	require.NoError(t, err)
	vars := app.Config.Variables
	assert.Equal(t, 1.0, st.Variables["BEACON"])
	assert.Equal(t, 100.0, st.Variables[vars.Progress])
	assert.Zero(t, st.Variables[vars.CurrentID])
	assert.Zero(t, st.Variables[vars.Request])
}

func TestLoadCommand_Failures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		setup    func(app *App)
		wantCode int
		wantOut  string
	}{
		{
			name:     "unknown preset",
			args:     []string{"load", "9"},
			wantCode: 1,
			wantOut:  "preset not found",
		},
		{
			name:     "condition timeout",
			args:     []string{"load", "2", "--timeout", "2s"},
			wantCode: 1,
			wantOut:  "condition timeout",
		},
		{
			name:     "timeout from config",
			args:     []string{"load", "Stuck"},
			setup:    func(app *App) { app.Config.Engine.SequenceTimeout = time.Second },
			wantCode: 1,
			wantOut:  "condition timeout",
		},
		{
			name:     "simulation limit",
			args:     []string{"load", "2"},
			setup:    func(app *App) { app.Config.Sim.MaxDuration = 3 * time.Second },
			wantCode: 1,
			wantOut:  "did not finish",
		},
		{
			name: "user cancel",
			args: []string{"load", "2"},
			setup: func(app *App) {
				ch := make(chan struct{})
				close(ch)
				app.Interrupt = ch
			},
			wantCode: 130,
			wantOut:  "user cancelled",
		},
		{
			name:     "missing state file",
			args:     []string{"load", "1", "--state-in", "/nonexistent/state.yaml"},
			wantCode: 1,
			wantOut:  "failed to read state file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, buf := newTestApp(t)
			if tt.setup != nil {
				tt.setup(app)
			}

			err := runCommand(app, tt.args...)

			assertExitCode(t, err, tt.wantCode)
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestPresetsCommand(t *testing.T) {
	app, buf := newTestApp(t)

	err := runCommand(app, "presets")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Lights On")
	assert.Contains(t, buf.String(), "Stuck")
	assert.Contains(t, buf.String(), "(2 steps)")
}

func TestPresetsCommand_CatalogFlag(t *testing.T) {
	app, buf := newTestApp(t)
	path := writeFile(t, "other.yaml", `
presets:
  - id: 4
    name: Ready for Takeoff
    steps:
      - expected_state: "get('FLAPS') == 1"
        action: "set('FLAPS', 1)"
`)

	err := runCommand(app, "presets", "--catalog", path)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ready for Takeoff")
	assert.NotContains(t, buf.String(), "Lights On")
}

func TestPresetsCommand_BadCatalogPath(t *testing.T) {
	app, buf := newTestApp(t)

	err := runCommand(app, "presets", "--catalog", "/nonexistent/presets.ini")

	assertExitCode(t, err, 1)
	assert.Contains(t, buf.String(), "failed to read catalog")
}

func TestStepsCommand(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		contains []string
	}{
		{
			name:     "cold aircraft",
			contains: []string{"apply", "wait", "Beacon on"},
		},
		{
			name:     "already configured",
			state:    "variables:\n  BEACON: 1\n  APU_AVAIL: 1\n",
			contains: []string{"skip", "pass"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, buf := newTestApp(t)
			args := []string{"steps", "1"}
			if tt.state != "" {
				args = append(args, "--state-in", writeFile(t, "state.yaml", tt.state))
			}

			err := runCommand(app, args...)

			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode int
		wantOut  string
	}{
		{
			name:    "valid ini",
			file:    "presets.ini",
			content: testCatalogINI,
			wantOut: "is valid: 2 presets",
		},
		{
			name: "conditional with action",
			file: "bad.ini",
			content: `[preset.1]
name = Broken
[preset.1.step.1]
conditional    = true
expected_state = get('X') == 1
action         = set('X', 1)
`,
			wantCode: 1,
			wantOut:  "conditional step must not define an action",
		},
		{
			name:     "unsupported format",
			file:     "presets.txt",
			content:  "anything",
			wantCode: 1,
			wantOut:  "unsupported catalog format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, buf := newTestApp(t)

			err := runCommand(app, "validate", writeFile(t, tt.file, tt.content))

			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				assertExitCode(t, err, tt.wantCode)
			}
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestVarsCommand(t *testing.T) {
	t.Run("channel variables", func(t *testing.T) {
		app, buf := newTestApp(t)

		require.NoError(t, runCommand(app, "vars"))
		assert.Contains(t, buf.String(), "A32NX_AIRCRAFT_PRESET_LOAD_PROGRESS")
	})

	t.Run("state file", func(t *testing.T) {
		app, buf := newTestApp(t)
		path := writeFile(t, "state.yaml", "variables:\n  B: 2\n  A: 1\n")

		require.NoError(t, runCommand(app, "vars", path))
		assert.Equal(t, "A  1\nB  2\n", buf.String())
	})

	t.Run("bad state file", func(t *testing.T) {
		app, _ := newTestApp(t)

		err := runCommand(app, "vars", "state.json")
		assertExitCode(t, err, 1)
	})
}

func TestExitError(t *testing.T) {
	err := NewExitError(3)
	assert.Equal(t, "exit status 3", err.Error())

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	_, ok = IsExitError(nil)
	assert.False(t, ok)
}
