// Package simvar provides the in-process variable bus that stands in for the
// simulator's named local variables.
//
// Every variable is a float64 addressed by name. Reading an unknown variable
// yields (0, false). Writes are either immediate ([Bus.Write]) or scheduled
// relative to bus time ([Bus.WriteAfter]); scheduled writes model how long a
// system takes to respond to a cockpit input (an APU becoming available, an
// engine spooling up). Bus time only moves when [Bus.Advance] is called, so a
// frame loop stays fully deterministic.
//
// A Bus is not safe for concurrent use; it is owned by the frame loop.
package simvar

import (
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/brunoga/deep"
)

// Bus holds variable values and pending scheduled writes.
type Bus struct {
	values  map[string]float64
	pending []scheduledWrite
	now     time.Duration
	seq     uint64
}

type scheduledWrite struct {
	name  string
	value float64
	due   time.Duration
	seq   uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{values: make(map[string]float64)}
}

// Read returns the current value of a variable and whether it has ever been
// written.
func (b *Bus) Read(name string) (float64, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Get returns the current value of a variable, or 0 when unset.
func (b *Bus) Get(name string) float64 {
	return b.values[name]
}

// Write sets a variable immediately. Pending scheduled writes to the same
// variable are discarded: the latest command wins.
func (b *Bus) Write(name string, value float64) {
	b.cancel(name)
	b.values[name] = value
}

// WriteAfter schedules a write that lands once bus time has advanced by d.
// A non-positive d writes immediately. A new schedule replaces any pending
// write to the same variable.
func (b *Bus) WriteAfter(name string, value float64, d time.Duration) {
	if d <= 0 {
		b.Write(name, value)
		return
	}
	b.cancel(name)
	b.seq++
	b.pending = append(b.pending, scheduledWrite{
		name:  name,
		value: value,
		due:   b.now + d,
		seq:   b.seq,
	})
}

func (b *Bus) cancel(name string) {
	b.pending = slices.DeleteFunc(b.pending, func(w scheduledWrite) bool {
		return w.name == name
	})
}

// Advance moves bus time forward by dt and applies every scheduled write that
// has become due, in due-time order.
func (b *Bus) Advance(dt time.Duration) {
	if dt > 0 {
		b.now += dt
	}
	if len(b.pending) == 0 {
		return
	}

	sort.SliceStable(b.pending, func(i, j int) bool {
		if b.pending[i].due != b.pending[j].due {
			return b.pending[i].due < b.pending[j].due
		}
		return b.pending[i].seq < b.pending[j].seq
	})

	n := 0
	for _, w := range b.pending {
		if w.due > b.now {
			break
		}
		b.values[w.name] = w.value
		n++
	}
	b.pending = b.pending[n:]
}

// Now returns the bus time, i.e. the sum of all Advance calls.
func (b *Bus) Now() time.Duration {
	return b.now
}

// Pending returns the number of scheduled writes that have not landed yet.
func (b *Bus) Pending() int {
	return len(b.pending)
}

// Names returns all known variable names in sorted order.
func (b *Bus) Names() []string {
	return slices.Sorted(maps.Keys(b.values))
}

// Snapshot returns a deep copy of all variable values.
func (b *Bus) Snapshot() map[string]float64 {
	return deep.MustCopy(b.values)
}

// Load writes every value in vars immediately.
func (b *Bus) Load(vars map[string]float64) {
	for name, v := range vars {
		b.Write(name, v)
	}
}
