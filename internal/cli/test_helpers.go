package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"flypad/internal/catalog"
	"flypad/internal/config"
	"flypad/internal/output"
)

// testCatalogINI holds two presets: one that completes after a scheduled
// write lands, and one whose condition never holds.
const testCatalogINI = `
[preset.1]
name = Lights On

[preset.1.step.1]
id             = 10
description    = Beacon on
delay_after    = 0.5
expected_state = get('BEACON') == 1
action         = set('BEACON', 1); setAfter('APU_AVAIL', 1, 1)

[preset.1.step.2]
id             = 20
description    = APU available
conditional    = true
expected_state = get('APU_AVAIL') == 1

[preset.2]
name = Stuck

[preset.2.step.1]
description    = Never true
conditional    = true
expected_state = get('NEVER') == 1
`

// newTestApp creates an App over the test catalog with output captured in
// the returned buffer.
func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	cat, err := catalog.ReadINI("test", []byte(testCatalogINI))
	if err != nil {
		t.Fatalf("failed to read test catalog: %v", err)
	}

	buf := &bytes.Buffer{}
	return &App{
		Config:  config.DefaultConfig(),
		Catalog: cat,
		Printer: output.NewPrinterWithWriter(buf),
	}, buf
}

// runCommand executes the root command with args.
func runCommand(app *App, args ...string) error {
	rootCmd := NewRootCommand(app)
	outBuf := &bytes.Buffer{}
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(outBuf)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// writeFile creates a file named name in a temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
