// Package sim provides the fixed-step frame loop that hosts the preset backend.
//
// Each frame advances the variable bus by a fixed dt, which lands any scheduled
// writes that became due, then runs three phases over every [Element]:
// Read (consume inputs from the bus), Update (advance by dt) and Write (publish
// outputs to the bus). Frames run back to back by default; in realtime mode
// they are paced by a ticker.
//
// Key types:
//   - [Loop] - Drives frames over a [simvar.Bus]
//   - [Element] - A component taking part in every frame
//   - [FrameCallback] - Optional per-frame observer
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flypad/internal/simvar"
)

// DefaultFrameRate is the number of frames per simulated second.
const DefaultFrameRate = 30

// ErrMaxDuration is returned by [Loop.RunUntil] when the simulated time limit
// is reached before the done condition holds.
var ErrMaxDuration = errors.New("simulation time limit reached")

// Element takes part in every frame.
type Element interface {
	// Read consumes inputs from the bus before the update.
	Read()

	// Update advances the element by dt.
	Update(dt time.Duration)

	// Write publishes outputs to the bus after the update.
	Write()
}

// FrameCallback is invoked after every frame with the 1-based frame number and
// the simulated time.
type FrameCallback func(frame int, now time.Duration)

// Loop runs frames over a variable bus.
//
// Use [NewLoop] to create an instance and [Loop.RunUntil] or [Loop.Step] to drive it.
type Loop struct {
	bus           *simvar.Bus
	elements      []Element
	dt            time.Duration
	realtime      bool
	frameCallback FrameCallback
	frames        int
}

// NewLoop creates a loop running at frameRate frames per simulated second.
// A non-positive frameRate uses [DefaultFrameRate]. Frames never advance the
// bus by less than one nanosecond.
func NewLoop(bus *simvar.Bus, frameRate float64, elements ...Element) *Loop {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	dt := time.Duration(float64(time.Second) / frameRate)
	if dt < time.Nanosecond {
		dt = time.Nanosecond
	}
	return &Loop{
		bus:      bus,
		elements: elements,
		dt:       dt,
	}
}

// SetRealtime paces frames to wall-clock time when enabled.
func (l *Loop) SetRealtime(enabled bool) {
	l.realtime = enabled
}

// SetFrameCallback configures an optional per-frame callback.
func (l *Loop) SetFrameCallback(cb FrameCallback) {
	l.frameCallback = cb
}

// Add appends an element. Elements run in the order they were added.
func (l *Loop) Add(el Element) {
	l.elements = append(l.elements, el)
}

// DT returns the fixed frame duration.
func (l *Loop) DT() time.Duration {
	return l.dt
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() int {
	return l.frames
}

// Step runs a single frame.
func (l *Loop) Step() {
	l.bus.Advance(l.dt)

	for _, el := range l.elements {
		el.Read()
	}
	for _, el := range l.elements {
		el.Update(l.dt)
	}
	for _, el := range l.elements {
		el.Write()
	}

	l.frames++
	if l.frameCallback != nil {
		l.frameCallback(l.frames, l.bus.Now())
	}
}

// RunUntil runs frames until done returns true after a frame.
//
// It returns the context's error when ctx is cancelled and an error wrapping
// [ErrMaxDuration] once maxDuration of simulated time has passed. A zero
// maxDuration means no limit.
func (l *Loop) RunUntil(ctx context.Context, done func() bool, maxDuration time.Duration) error {
	var tick <-chan time.Time
	if l.realtime {
		ticker := time.NewTicker(l.dt)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := l.bus.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxDuration > 0 && l.bus.Now()-start >= maxDuration {
			return fmt.Errorf("%w after %s", ErrMaxDuration, maxDuration)
		}

		l.Step()
		if done() {
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
}
