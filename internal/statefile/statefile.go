// Package statefile reads and writes snapshots of simulator variables.
//
// A state file seeds the variable bus before a preset is loaded and captures
// the bus afterwards. Two encodings are supported, chosen by file extension:
//
//   - .yaml / .yml - human editable
//   - .msgpack / .mp - compact binary
//
// YAML example:
//
//	variables:
//	  A32NX_OVHD_ELEC_BAT_1_PB_IS_AUTO: 1
//	  A32NX_ENGINE_1_RUNNING: 0
package statefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// State is a named set of variable values.
type State struct {
	Variables map[string]float64 `yaml:"variables" msgpack:"variables"`
}

// Format is a state file encoding.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatFor returns the format implied by path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported state file extension: %q", filepath.Ext(path))
	}
}

// Read loads a state file.
func Read(path string) (*State, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var st State
	switch format {
	case FormatMsgpack:
		err = msgpack.NewDecoder(bytes.NewReader(data)).Decode(&st)
	default:
		err = yaml.Unmarshal(data, &st)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if st.Variables == nil {
		st.Variables = make(map[string]float64)
	}
	return &st, nil
}

// Write stores st at path, replacing any existing file atomically.
func Write(path string, st *State) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case FormatMsgpack:
		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)
		err = enc.Encode(st)
	default:
		err = yaml.NewEncoder(&buf).Encode(st)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal state file: %w", err)
	}

	// Write to temp, then rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
