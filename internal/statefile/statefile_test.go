package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "yaml", file: "state.yaml"},
		{name: "yml", file: "state.yml"},
		{name: "msgpack", file: "state.msgpack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			want := &State{Variables: map[string]float64{
				"A32NX_OVHD_ELEC_BAT_1_PB_IS_AUTO": 1,
				"A32NX_FLAPS_HANDLE_INDEX":         2,
			}}

			require.NoError(t, Write(path, want))
			got, err := Read(path)

			require.NoError(t, err)
			assert.Equal(t, want, got)

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err), "temp file removed")
		})
	}
}

func TestRead_YAMLFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cold.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variables:\n  LIGHTING_BEACON_0: 1\n"), 0644))

	st, err := Read(path)

	require.NoError(t, err)
	assert.Equal(t, 1.0, st.Variables["LIGHTING_BEACON_0"])
}

func TestRead_EmptyFileHasVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	st, err := Read(path)

	require.NoError(t, err)
	assert.NotNil(t, st.Variables)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("variables: [1, 2"), 0644))

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "unsupported extension", path: filepath.Join(dir, "state.json"), wantMsg: "unsupported state file extension"},
		{name: "missing file", path: filepath.Join(dir, "missing.yaml"), wantMsg: "failed to read state file"},
		{name: "malformed yaml", path: bad, wantMsg: "failed to parse state file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("x.MP")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, f)

	_, err = FormatFor("x")
	assert.Error(t, err)
}
