package catalog

import "time"

// ProcedureStep is a single, immutable step of a preset procedure.
//
// A step has exactly one of two semantics:
//   - Action step (Conditional == false): ExpectedStateCode is checked first; when it
//     already holds, the step is skipped without running ActionCode or waiting.
//     Otherwise ActionCode is executed once and the engine waits DelayAfter before
//     moving on.
//   - Conditional step (Conditional == true): ExpectedStateCode is polled until it
//     holds. ActionCode is never set and never executed.
type ProcedureStep struct {
	// ID identifies the step within its preset. It is reported on the progress
	// channel while the step is current, so it must be greater than zero.
	ID int

	// Description is a human readable label used for diagnostics only.
	Description string

	// Conditional marks the step as a pure wait-for-condition gate.
	Conditional bool

	// DelayAfter is the settle time after ActionCode has actually been executed.
	// It is ignored when the step is skipped.
	DelayAfter time.Duration

	// ExpectedStateCode is the expression that reports whether the target state
	// is already reached (action steps) or the condition is met (conditional steps).
	ExpectedStateCode string

	// ActionCode is the expression executed to reach the target state.
	ActionCode string
}

// IsAction reports whether the step performs an action.
func (s ProcedureStep) IsAction() bool {
	return !s.Conditional
}

// Kind returns "condition" for conditional steps and "action" otherwise.
func (s ProcedureStep) Kind() string {
	if s.Conditional {
		return "condition"
	}
	return "action"
}
