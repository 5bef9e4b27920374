// Package gateway provides the boundary between the preset engine and the
// simulator's variables.
//
// The engine treats a step's expected-state and action codes as opaque text and
// hands them to a [VariableGateway]. All calls are synchronous and must return
// within the frame budget.
//
// Key types:
//   - [VariableGateway] - Interface used by the engine
//   - [Script] - Production implementation running expressions in an embedded
//     JavaScript runtime bound to a [simvar.Bus]
//   - [Mock] - Test implementation with configurable results and call recording
package gateway

import "errors"

// VariableGateway reads variables and runs step expressions.
type VariableGateway interface {
	// Read returns a variable's current value and whether it exists.
	Read(name string) (float64, bool)

	// Evaluate runs an expected-state expression and reports whether it holds.
	Evaluate(code string) (bool, error)

	// Execute runs an action expression.
	Execute(code string) error
}

// Sentinel errors for gateway failures.
var (
	// ErrEvaluate wraps failures of [VariableGateway.Evaluate].
	ErrEvaluate = errors.New("evaluate expected state")

	// ErrExecute wraps failures of [VariableGateway.Execute].
	ErrExecute = errors.New("execute action")

	// ErrTimeBudget is returned when an expression runs longer than the
	// configured time budget and is interrupted.
	ErrTimeBudget = errors.New("expression exceeded time budget")
)
