// Package catalog provides the ordered, immutable catalog of aircraft presets.
//
// A preset is a named target cockpit configuration realized as an ordered
// sequence of [ProcedureStep] values. Step order is significant and fixed at load
// time: later steps may depend on device states established by earlier ones, so
// steps are never reordered or parallelized.
//
// Catalogs are built with [New] (from already decoded presets) or with one of the
// loaders ([LoadFile], [ReadINI], [ReadYAML], [ReadTOML], [ReadJSON], [ReadCSV]).
// Construction validates everything up front and fails entirely on the first
// malformed entry, so an engine never runs against an inconsistent catalog.
//
// Key types:
//   - [Catalog] - ordered collection of presets with lookup by id or name
//   - [Preset] - one named preset with its steps
//   - [ProcedureStep] - one step definition
//   - [Error] - describes why catalog construction failed
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPresetNotFound is returned by [Catalog.Resolve] when no preset matches the
// given reference.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named, ordered sequence of procedure steps.
type Preset struct {
	// ID is the numeric preset identifier written to the request channel.
	// Zero is the idle value of that channel, so IDs are always positive.
	ID int

	// Name is the display name (e.g. "Ready for Taxi").
	Name string

	steps []ProcedureStep
}

// NewPreset creates a [Preset]. The steps slice is copied.
func NewPreset(id int, name string, steps []ProcedureStep) Preset {
	return Preset{
		ID:    id,
		Name:  name,
		steps: append([]ProcedureStep(nil), steps...),
	}
}

// Len returns the number of steps.
func (p Preset) Len() int {
	return len(p.steps)
}

// Step returns the step at index i. It panics if i is out of range, like a
// slice index; callers check [Preset.Len] first.
func (p Preset) Step(i int) ProcedureStep {
	return p.steps[i]
}

// Steps returns a copy of the preset's steps in execution order.
func (p Preset) Steps() []ProcedureStep {
	return append([]ProcedureStep(nil), p.steps...)
}

// String returns "<id> (<name>)".
func (p Preset) String() string {
	if p.Name == "" {
		return strconv.Itoa(p.ID)
	}
	return fmt.Sprintf("%d (%s)", p.ID, p.Name)
}

// Catalog is an ordered, immutable collection of presets.
//
// Create instances with [New] or a loader; the zero value is an empty catalog.
type Catalog struct {
	presets []Preset
	byID    map[int]int
}

// New validates the given presets and builds a [Catalog].
//
// Validation rules:
//   - preset IDs are positive and unique
//   - every preset has at least one step
//   - step IDs are positive and unique within their preset
//   - every step has an expected state expression
//   - action steps have an action expression; conditional steps must not
//   - DelayAfter is not negative
//
// The source is only used to label errors (typically a file name).
func New(source string, presets []Preset) (*Catalog, error) {
	c := &Catalog{
		presets: make([]Preset, 0, len(presets)),
		byID:    make(map[int]int, len(presets)),
	}

	for _, p := range presets {
		if err := validatePreset(source, p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, newError(source, p.ID, 0, "duplicate preset id")
		}
		c.byID[p.ID] = len(c.presets)
		c.presets = append(c.presets, NewPreset(p.ID, p.Name, p.steps))
	}

	if len(c.presets) == 0 {
		return nil, newError(source, 0, 0, "catalog contains no presets")
	}

	return c, nil
}

func validatePreset(source string, p Preset) error {
	if p.ID <= 0 {
		return newError(source, p.ID, 0, "preset id must be greater than zero")
	}
	if len(p.steps) == 0 {
		return newError(source, p.ID, 0, "preset has no steps")
	}

	seen := make(map[int]bool, len(p.steps))
	for _, s := range p.steps {
		if s.ID <= 0 {
			return newError(source, p.ID, s.ID, "step id must be greater than zero")
		}
		if seen[s.ID] {
			return newError(source, p.ID, s.ID, "duplicate step id")
		}
		seen[s.ID] = true

		if strings.TrimSpace(s.ExpectedStateCode) == "" {
			return newError(source, p.ID, s.ID, "expected_state is required")
		}
		if s.Conditional && strings.TrimSpace(s.ActionCode) != "" {
			return newError(source, p.ID, s.ID, "conditional step must not define an action")
		}
		if !s.Conditional && strings.TrimSpace(s.ActionCode) == "" {
			return newError(source, p.ID, s.ID, "action is required for action steps")
		}
		if s.DelayAfter < 0 {
			return newError(source, p.ID, s.ID, "delay_after must not be negative")
		}
	}
	return nil
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.presets)
}

// Presets returns all presets in catalog order.
func (c *Catalog) Presets() []Preset {
	if c == nil {
		return nil
	}
	return append([]Preset(nil), c.presets...)
}

// IDs returns the preset IDs in catalog order.
func (c *Catalog) IDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, len(c.presets))
	for i, p := range c.presets {
		ids[i] = p.ID
	}
	return ids
}

// Get returns the preset with the given ID.
func (c *Catalog) Get(id int) (Preset, bool) {
	if c == nil {
		return Preset{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Preset{}, false
	}
	return c.presets[idx], true
}

// Lookup returns the first preset whose name matches, ignoring case and
// surrounding whitespace.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	if c == nil {
		return Preset{}, false
	}
	name = strings.TrimSpace(name)
	for _, p := range c.presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Resolve finds a preset by numeric ID or by name.
//
// Returns an error wrapping [ErrPresetNotFound] when nothing matches.
func (c *Catalog) Resolve(ref string) (Preset, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		if p, ok := c.Get(id); ok {
			return p, nil
		}
		return Preset{}, fmt.Errorf("%w: %d", ErrPresetNotFound, id)
	}
	if p, ok := c.Lookup(ref); ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, ref)
}
