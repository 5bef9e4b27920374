package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"flypad/internal/logging"
)

// EventKind names a diagnostic event.
type EventKind string

const (
	EventRequested      EventKind = "requested"
	EventRejected       EventKind = "rejected"
	EventStarted        EventKind = "started"
	EventStepSkipped    EventKind = "step_skipped"
	EventConditionMet   EventKind = "condition_met"
	EventActionIssued   EventKind = "action_issued"
	EventActionFailed   EventKind = "action_failed"
	EventEvaluateFailed EventKind = "evaluate_failed"
	EventStepSettled    EventKind = "step_settled"
	EventCompleted      EventKind = "completed"
	EventAborted        EventKind = "aborted"
)

// Event is a structured diagnostic emitted by the engine.
type Event struct {
	Kind        EventKind
	RunID       uuid.UUID
	PresetID    int
	PresetName  string
	StepIndex   int
	StepID      int
	Description string
	Elapsed     time.Duration
	Percent     float64
	Reason      AbortReason
	Err         error
}

// Sink receives engine events synchronously from Request, Tick and Abort.
// Implementations must not block.
type Sink interface {
	Record(Event)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Event)

// Record calls f(ev).
func (f SinkFunc) Record(ev Event) {
	f(ev)
}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

// Record forwards ev to every sink.
func (m MultiSink) Record(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Record(ev)
		}
	}
}

type discard struct{}

func (discard) Record(Event) {}

// LogSink writes events as structured log records. Failures and aborts are
// logged at warn level, step progress at debug level.
type LogSink struct {
	Logger *logging.Logger
}

// Record logs ev.
func (s LogSink) Record(ev Event) {
	attrs := []any{
		slog.String("event", string(ev.Kind)),
		slog.Int("preset", ev.PresetID),
	}
	if ev.RunID != uuid.Nil {
		attrs = append(attrs, slog.String("run", ev.RunID.String()))
	}
	if ev.StepID != 0 {
		attrs = append(attrs,
			slog.Int("step_index", ev.StepIndex),
			slog.Int("step", ev.StepID),
			slog.String("description", ev.Description))
	}
	if ev.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", ev.Elapsed))
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.Any("error", ev.Err))
	}

	switch ev.Kind {
	case EventAborted:
		attrs = append(attrs, slog.String("reason", ev.Reason.String()), slog.Float64("percent", ev.Percent))
		s.Logger.Warn("preset sequence aborted", attrs...)
	case EventRejected, EventActionFailed, EventEvaluateFailed:
		s.Logger.Warn("preset "+string(ev.Kind), attrs...)
	case EventRequested, EventStarted, EventCompleted:
		s.Logger.Info("preset "+string(ev.Kind), attrs...)
	default:
		s.Logger.Debug("preset "+string(ev.Kind), attrs...)
	}
}

// Recorder collects events for inspection in tests.
type Recorder struct {
	Events []Event
}

// Record appends ev.
func (r *Recorder) Record(ev Event) {
	r.Events = append(r.Events, ev)
}

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []EventKind {
	kinds := make([]EventKind, len(r.Events))
	for i, ev := range r.Events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent event of kind.
func (r *Recorder) Last(kind EventKind) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Kind == kind {
			return r.Events[i], true
		}
	}
	return Event{}, false
}
