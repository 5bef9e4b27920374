package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed presets/default.ini
var defaultINI []byte

// Default returns the built-in catalog of the five flyPad presets:
// Cold & Dark, Ready for Pushback, Ready for Taxi, Ready for Takeoff and
// Turnaround.
func Default() (*Catalog, error) {
	return ReadINI("default.ini", defaultINI)
}

// Read parses catalog data in the given format ("ini", "yaml", "yml", "toml",
// "json" or "csv").
func Read(source, format string, data []byte) (*Catalog, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "ini":
		return ReadINI(source, data)
	case "yaml", "yml":
		return ReadYAML(source, data)
	case "toml":
		return ReadTOML(source, data)
	case "json":
		return ReadJSON(source, data)
	case "csv":
		return ReadCSV(source, bytes.NewReader(data))
	default:
		return nil, newErrorf(source, 0, 0, "unsupported catalog format %q", format)
	}
}

// LoadFile reads a catalog file, choosing the parser by file extension.
//
// An empty path returns the built-in [Default] catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return Read(filepath.Base(path), filepath.Ext(path), data)
}
