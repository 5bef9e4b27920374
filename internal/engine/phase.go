package engine

// Phase is the coarse position of the engine in a preset sequence.
type Phase int

const (
	// PhaseIdle means no sequence is active.
	PhaseIdle Phase = iota
	// PhaseEvaluating means the current step's expected state is being checked.
	PhaseEvaluating
	// PhaseApplying means the current step's action is being issued.
	PhaseApplying
	// PhaseWaitingDelay means the settle delay after an action is running.
	PhaseWaitingDelay
	// PhaseCompleted latches for one tick after the last step finished.
	PhaseCompleted
	// PhaseAborted latches for one tick after a sequence was aborted.
	PhaseAborted
)

var phaseNames = map[Phase]string{
	PhaseIdle:         "Idle",
	PhaseEvaluating:   "Evaluating",
	PhaseApplying:     "Applying",
	PhaseWaitingDelay: "WaitingDelay",
	PhaseCompleted:    "Completed",
	PhaseAborted:      "Aborted",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Active reports whether the phase belongs to a running sequence.
func (p Phase) Active() bool {
	return p == PhaseEvaluating || p == PhaseApplying || p == PhaseWaitingDelay
}

// AbortReason tells why a sequence ended in [PhaseAborted].
type AbortReason int

const (
	ReasonNone AbortReason = iota
	// ReasonConditionTimeout means a conditional step did not become true
	// within the sequence timeout.
	ReasonConditionTimeout
	// ReasonUserCancelled means Abort was called.
	ReasonUserCancelled
)

func (r AbortReason) String() string {
	switch r {
	case ReasonConditionTimeout:
		return "condition timeout"
	case ReasonUserCancelled:
		return "user cancelled"
	default:
		return "none"
	}
}
