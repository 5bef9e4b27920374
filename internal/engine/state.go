package engine

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionState is the per-request progress record owned by the [Engine].
//
// Callers receive copies through [Engine.State]; only the engine mutates it.
type ExecutionState struct {
	// RunID identifies one accepted request. It is the zero UUID before the
	// first request.
	RunID uuid.UUID

	// ActivePreset is the running preset ID, 0 when no sequence is active.
	ActivePreset int

	// PresetName is the display name of the running preset.
	PresetName string

	// StepIndex is the position of the current step.
	StepIndex int

	// TotalSteps is the number of steps of the running preset.
	TotalSteps int

	// Phase is the current phase.
	Phase Phase

	// Remaining is the settle time left in [PhaseWaitingDelay].
	Remaining time.Duration

	// ElapsedInPhase is the time spent in the current phase and step.
	ElapsedInPhase time.Duration

	// Elapsed is the time since the request was accepted.
	Elapsed time.Duration

	// Percent is the progress in the range 0..100. It keeps its last value
	// after a sequence ends and is reset by the next request.
	Percent float64

	// LastCompletedStepID is the ID of the last step that was skipped,
	// satisfied or settled.
	LastCompletedStepID int

	// AbortReason is set when Phase is [PhaseAborted].
	AbortReason AbortReason
}

// Progress is the view of the engine written to the progress channel.
type Progress struct {
	// PresetID is the running preset, 0 when idle.
	PresetID int

	// StepID is the current step, 0 when idle.
	StepID int

	// Percent is 0..100.
	Percent float64

	Phase Phase
}
