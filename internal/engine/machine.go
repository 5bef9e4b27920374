package engine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Lifecycle machine states.
const (
	stateIdle       = "idle"
	stateEvaluating = "evaluating"
	stateApplying   = "applying"
	stateWaiting    = "waiting"
	stateCompleted  = "completed"
	stateAborted    = "aborted"
)

// Lifecycle machine events.
const (
	eventRequest = "REQUEST"
	eventApply   = "APPLY"
	eventIssued  = "ISSUED"
	eventSettled = "SETTLED"
	eventFinish  = "FINISH"
	eventAbort   = "ABORT"
	eventReset   = "RESET"
)

var statePhases = map[statekit.StateID]Phase{
	stateIdle:       PhaseIdle,
	stateEvaluating: PhaseEvaluating,
	stateApplying:   PhaseApplying,
	stateWaiting:    PhaseWaitingDelay,
	stateCompleted:  PhaseCompleted,
	stateAborted:    PhaseAborted,
}

// lifecycle is the machine context. Sequence state lives on the Engine, so it
// carries nothing.
type lifecycle struct{}

// buildMachine constructs the sequence lifecycle machine. onEntry runs every
// time a phase is entered.
//
//	idle --REQUEST--> evaluating --APPLY--> applying --ISSUED--> waiting
//	                  evaluating <--------------SETTLED----------- waiting
//	evaluating --FINISH--> completed --RESET--> idle
//	evaluating|applying|waiting --ABORT--> aborted --RESET--> idle
func buildMachine(onEntry func()) (*statekit.Interpreter[lifecycle], error) {
	machine, err := statekit.NewMachine[lifecycle]("preset-sequence").
		WithInitial(stateIdle).
		WithContext(lifecycle{}).
		WithAction("enterPhase", func(*lifecycle, statekit.Event) {
			onEntry()
		}).
		State(stateIdle).
		On(eventRequest).Target(stateEvaluating).Done().
		State(stateEvaluating).
		OnEntry("enterPhase").
		On(eventApply).Target(stateApplying).
		On(eventFinish).Target(stateCompleted).
		On(eventAbort).Target(stateAborted).Done().
		State(stateApplying).
		OnEntry("enterPhase").
		On(eventIssued).Target(stateWaiting).
		On(eventAbort).Target(stateAborted).Done().
		State(stateWaiting).
		OnEntry("enterPhase").
		On(eventSettled).Target(stateEvaluating).
		On(eventAbort).Target(stateAborted).Done().
		State(stateCompleted).
		OnEntry("enterPhase").
		On(eventReset).Target(stateIdle).Done().
		State(stateAborted).
		OnEntry("enterPhase").
		On(eventReset).Target(stateIdle).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build lifecycle machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return interp, nil
}

func sendEvent(m *statekit.Interpreter[lifecycle], event string) {
	m.Send(statekit.Event{Type: statekit.EventType(event)})
}

func phaseOf(id statekit.StateID) Phase {
	if p, ok := statePhases[id]; ok {
		return p
	}
	return PhaseIdle
}
