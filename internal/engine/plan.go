package engine

import (
	"flypad/internal/catalog"
	"flypad/internal/gateway"
)

// Outcome is the predicted handling of one step in a [Plan].
type Outcome string

const (
	// OutcomeSkip means the expected state already holds and the action
	// would not run.
	OutcomeSkip Outcome = "skip"
	// OutcomeApply means the action would run followed by the settle delay.
	OutcomeApply Outcome = "apply"
	// OutcomePass means the condition already holds.
	OutcomePass Outcome = "pass"
	// OutcomeWait means the condition does not hold yet and would be polled.
	OutcomeWait Outcome = "wait"
	// OutcomeUnknown means the expected state could not be evaluated.
	OutcomeUnknown Outcome = "unknown"
)

// PlannedStep describes how a step would be handled against the current state.
type PlannedStep struct {
	Index   int
	Step    catalog.ProcedureStep
	Outcome Outcome
	Err     error
}

// Plan evaluates every step of p against gw without executing any action.
//
// Because actions are not run, later steps are judged against the current
// state rather than the state earlier steps would produce. The result answers
// "what is already in place" rather than predicting the exact run.
func Plan(p catalog.Preset, gw gateway.VariableGateway) []PlannedStep {
	steps := p.Steps()
	plan := make([]PlannedStep, len(steps))

	for i, step := range steps {
		ps := PlannedStep{Index: i, Step: step}

		holds, err := gw.Evaluate(step.ExpectedStateCode)
		switch {
		case err != nil:
			ps.Outcome = OutcomeUnknown
			ps.Err = err
		case step.Conditional && holds:
			ps.Outcome = OutcomePass
		case step.Conditional:
			ps.Outcome = OutcomeWait
		case holds:
			ps.Outcome = OutcomeSkip
		default:
			ps.Outcome = OutcomeApply
		}

		plan[i] = ps
	}

	return plan
}
