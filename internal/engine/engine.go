// Package engine provides the preset procedure execution engine.
//
// The engine walks the ordered steps of one preset, a little at a time, from
// inside a real-time frame loop. Each call to [Engine.Tick] advances the
// sequence as far as it can without waiting: steps whose expected state already
// holds are skipped, satisfied conditions fall through to the next step, and an
// action is issued at most once per step per run. Settle delays and unmet
// conditions are expressed as state checked on later ticks; the engine never
// sleeps and never starts goroutines.
//
// Phases follow a lifecycle machine:
//
//	Idle -> Evaluating(i) -> Applying(i) -> WaitingDelay(i) -> Evaluating(i+1) -> ... -> Completed -> Idle
//
// with Aborted reachable from any active phase. Completed and Aborted latch for
// one tick so observers can read the outcome.
//
// Key types:
//   - [Engine] - Owns the [ExecutionState] and advances it per tick
//   - [Sink] - Receives structured diagnostic [Event] values
//   - [Progress] - The fields reported on the progress channel
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/uuid"

	"flypad/internal/catalog"
	"flypad/internal/gateway"
)

// Sentinel errors returned by [Engine.Request].
var (
	// ErrUnknownPreset is returned when the requested ID is not in the catalog.
	ErrUnknownPreset = errors.New("unknown preset requested")

	// ErrBusy is returned when a sequence is active or a request is already
	// waiting to start. Requests are rejected, never queued or interleaved.
	ErrBusy = errors.New("preset sequence already in progress")
)

// Option configures an [Engine].
type Option func(*Engine)

// WithSequenceTimeout aborts a sequence with [ReasonConditionTimeout] when a
// conditional step is still false once the sequence has been running for d.
// Zero disables the timeout.
func WithSequenceTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithSink sets the diagnostic event sink.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithRunIDs sets the generator for per-run IDs.
func WithRunIDs(fn func() uuid.UUID) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newRunID = fn
		}
	}
}

// Engine executes preset procedures one tick at a time.
//
// An Engine is not safe for concurrent use. Request, Tick and Abort are meant to
// be called from the single thread that drives the frame loop.
type Engine struct {
	catalog  *catalog.Catalog
	gateway  gateway.VariableGateway
	sink     Sink
	timeout  time.Duration
	newRunID func() uuid.UUID

	machine *statekit.Interpreter[lifecycle]
	state   ExecutionState
	preset  catalog.Preset
	pending *catalog.Preset
}

// New creates an engine over cat that evaluates and executes step codes
// through gw.
func New(cat *catalog.Catalog, gw gateway.VariableGateway, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("engine requires a preset catalog")
	}
	if gw == nil {
		return nil, errors.New("engine requires a variable gateway")
	}

	e := &Engine{
		catalog:  cat,
		gateway:  gw,
		sink:     discard{},
		newRunID: uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}

	machine, err := buildMachine(func() {
		e.state.ElapsedInPhase = 0
	})
	if err != nil {
		return nil, err
	}
	e.machine = machine

	return e, nil
}

// Request asks the engine to load preset id. The request is consumed by the
// next Tick.
//
// Returns an error wrapping [ErrUnknownPreset] when id is not in the catalog and
// [ErrBusy] when a sequence is active or another request is waiting. In both
// cases the execution state is left untouched.
func (e *Engine) Request(id int) error {
	if e.Active() || e.pending != nil {
		err := fmt.Errorf("%w: cannot load preset %d", ErrBusy, id)
		e.emit(Event{Kind: EventRejected, PresetID: id, Err: err})
		return err
	}

	p, ok := e.catalog.Get(id)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrUnknownPreset, id)
		e.emit(Event{Kind: EventRejected, PresetID: id, Err: err})
		return err
	}

	e.pending = &p
	e.emit(Event{Kind: EventRequested, PresetID: p.ID, PresetName: p.Name})
	return nil
}

// Abort cancels the active sequence, which moves to [PhaseAborted] with
// [ReasonUserCancelled] immediately. A request that has not started yet is
// dropped. Abort reports whether there was anything to cancel.
func (e *Engine) Abort() bool {
	if e.Active() {
		e.abort(ReasonUserCancelled)
		return true
	}
	if e.pending != nil {
		e.emit(Event{
			Kind:       EventAborted,
			PresetID:   e.pending.ID,
			PresetName: e.pending.Name,
			Reason:     ReasonUserCancelled,
		})
		e.pending = nil
		return true
	}
	return false
}

// Tick advances the engine by dt. It never blocks and never panics on
// runtime data; failures end the sequence in [PhaseAborted].
func (e *Engine) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}

	switch e.phase() {
	case PhaseCompleted, PhaseAborted:
		e.send(eventReset)
	}

	if e.phase() == PhaseIdle {
		if e.pending == nil {
			return
		}
		p := *e.pending
		e.pending = nil
		e.start(p)
	}

	e.state.Elapsed += dt
	e.state.ElapsedInPhase += dt
	e.advance(dt)
	e.updatePercent()
}

// State returns a copy of the execution state.
func (e *Engine) State() ExecutionState {
	return e.state
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase()
}

// Active reports whether a sequence is running.
func (e *Engine) Active() bool {
	return e.phase().Active()
}

// Pending reports whether a request is waiting for the next Tick.
func (e *Engine) Pending() bool {
	return e.pending != nil
}

// Progress returns the fields reported on the progress channel.
func (e *Engine) Progress() Progress {
	p := Progress{
		Percent: e.state.Percent,
		Phase:   e.phase(),
	}
	if e.Active() {
		p.PresetID = e.state.ActivePreset
		if e.state.StepIndex < e.preset.Len() {
			p.StepID = e.preset.Step(e.state.StepIndex).ID
		}
	}
	return p
}

func (e *Engine) start(p catalog.Preset) {
	e.preset = p
	e.state = ExecutionState{
		RunID:        e.newRunID(),
		ActivePreset: p.ID,
		PresetName:   p.Name,
		TotalSteps:   p.Len(),
	}
	e.send(eventRequest)
	e.emitRun(Event{Kind: EventStarted})
}

// advance cascades through zero-time transitions and returns once the
// sequence has to wait for a later tick.
func (e *Engine) advance(dt time.Duration) {
	for {
		switch e.phase() {
		case PhaseEvaluating:
			if e.state.StepIndex >= e.preset.Len() {
				e.complete()
				return
			}
			step := e.preset.Step(e.state.StepIndex)

			holds, err := e.gateway.Evaluate(step.ExpectedStateCode)
			if err != nil {
				e.emitStep(EventEvaluateFailed, step, err)
				holds = false
			}

			if step.Conditional {
				if !holds {
					if e.timeout > 0 && e.state.Elapsed >= e.timeout {
						e.abort(ReasonConditionTimeout)
					}
					return
				}
				e.emitStep(EventConditionMet, step, nil)
				e.finishStep(step)
				continue
			}

			if holds {
				e.emitStep(EventStepSkipped, step, nil)
				e.finishStep(step)
				continue
			}
			e.send(eventApply)

		case PhaseApplying:
			step := e.preset.Step(e.state.StepIndex)
			if err := e.gateway.Execute(step.ActionCode); err != nil {
				e.emitStep(EventActionFailed, step, err)
			} else {
				e.emitStep(EventActionIssued, step, nil)
			}
			e.state.Remaining = step.DelayAfter
			e.send(eventIssued)

		case PhaseWaitingDelay:
			// The tick that issued the action counts toward the delay.
			e.state.Remaining -= dt
			if e.state.Remaining > 0 {
				return
			}
			e.state.Remaining = 0
			step := e.preset.Step(e.state.StepIndex)
			e.emitStep(EventStepSettled, step, nil)
			e.finishStep(step)
			e.send(eventSettled)
			return

		default:
			return
		}
	}
}

func (e *Engine) finishStep(step catalog.ProcedureStep) {
	e.state.LastCompletedStepID = step.ID
	e.state.StepIndex++
	e.state.ElapsedInPhase = 0
	e.updatePercent()
}

func (e *Engine) complete() {
	e.state.Percent = 100
	e.send(eventFinish)
	e.emitRun(Event{Kind: EventCompleted})
	e.state.ActivePreset = 0
}

func (e *Engine) abort(reason AbortReason) {
	e.state.AbortReason = reason
	e.state.Remaining = 0
	e.send(eventAbort)
	e.emitRun(Event{Kind: EventAborted, Reason: reason})
	e.state.ActivePreset = 0
}

func (e *Engine) updatePercent() {
	if !e.Active() || e.state.TotalSteps == 0 {
		return
	}
	pct := 100 * float64(e.state.StepIndex) / float64(e.state.TotalSteps)
	if pct > e.state.Percent {
		e.state.Percent = pct
	}
}

func (e *Engine) phase() Phase {
	return phaseOf(e.machine.State().Value)
}

func (e *Engine) send(event string) {
	sendEvent(e.machine, event)
	e.state.Phase = e.phase()
}

func (e *Engine) emit(ev Event) {
	e.sink.Record(ev)
}

// emitRun fills ev from the running sequence before recording it.
func (e *Engine) emitRun(ev Event) {
	ev.RunID = e.state.RunID
	if ev.PresetID == 0 {
		ev.PresetID = e.state.ActivePreset
		ev.PresetName = e.state.PresetName
	}
	ev.Elapsed = e.state.Elapsed
	ev.Percent = e.state.Percent
	e.sink.Record(ev)
}

func (e *Engine) emitStep(kind EventKind, step catalog.ProcedureStep, err error) {
	e.emitRun(Event{
		Kind:        kind,
		StepIndex:   e.state.StepIndex,
		StepID:      step.ID,
		Description: step.Description,
		Err:         err,
	})
}
