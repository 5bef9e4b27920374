package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is the sentinel wrapped by every catalog construction
// failure. Use errors.Is to detect it and errors.As with [*Error] for details.
var ErrInvalidCatalog = errors.New("invalid preset catalog")

var (
	errUnknownSection = errors.New("unknown section, expected preset.<id> or preset.<id>.step.<n>")
	errBadPresetID    = errors.New("preset id is not an integer")
	errBadStepLabel   = errors.New("step label is not an integer")
	errBadStepID      = errors.New("id is not an integer")
	errBadConditional = errors.New("conditional is not a boolean")
	errBadDelay       = errors.New("delay_after is not a number")
)

// Error describes a malformed catalog entry.
type Error struct {
	// Source names where the catalog came from (file name or format).
	Source string

	// Preset is the offending preset ID, or 0 when not applicable.
	Preset int

	// Step is the offending step ID, or 0 when not applicable.
	Step int

	// Msg describes the problem.
	Msg string
}

func newError(source string, preset, step int, msg string) *Error {
	return &Error{Source: source, Preset: preset, Step: step, Msg: msg}
}

func newErrorf(source string, preset, step int, format string, args ...any) *Error {
	return newError(source, preset, step, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidCatalog.Error())
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Preset != 0 {
		fmt.Fprintf(&b, " preset %d", e.Preset)
	}
	if e.Step != 0 {
		fmt.Fprintf(&b, " step %d", e.Step)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// Unwrap returns [ErrInvalidCatalog].
func (e *Error) Unwrap() error {
	return ErrInvalidCatalog
}
