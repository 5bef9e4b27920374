// Package backend connects the preset engine to the simulator's variables.
//
// The request channel is a single variable holding a preset ID. It is edge
// triggered: a non-zero value is consumed once and immediately reset to 0, so
// writing the same ID again starts the sequence again. A separate cancel
// variable aborts the running sequence the same way. After every update the
// engine's progress is written back to the progress variables.
//
// [Presets] follows the frame phases of the simulator data manager:
// [Presets.Read] before the update, [Presets.Update] with the frame's dt, and
// [Presets.Write] after it.
package backend

import (
	"log/slog"
	"math"
	"time"

	"flypad/internal/engine"
	"flypad/internal/logging"
)

// VarStore is the variable bus as seen by the backend.
type VarStore interface {
	Read(name string) (float64, bool)
	Write(name string, value float64)
}

// Variables names the request and progress variables.
type Variables struct {
	Request     string `mapstructure:"request"`
	Cancel      string `mapstructure:"cancel"`
	Progress    string `mapstructure:"progress"`
	CurrentID   string `mapstructure:"current_id"`
	CurrentStep string `mapstructure:"current_step"`
}

// DefaultVariables returns the A32NX variable names.
func DefaultVariables() Variables {
	return Variables{
		Request:     "A32NX_AIRCRAFT_PRESET_LOAD",
		Cancel:      "A32NX_AIRCRAFT_PRESET_LOAD_CANCEL",
		Progress:    "A32NX_AIRCRAFT_PRESET_LOAD_PROGRESS",
		CurrentID:   "A32NX_AIRCRAFT_PRESET_LOAD_CURRENT_ID",
		CurrentStep: "A32NX_AIRCRAFT_PRESET_LOAD_CURRENT_STEP",
	}
}

// Presets drives an [engine.Engine] from the variable bus.
type Presets struct {
	store  VarStore
	engine *engine.Engine
	vars   Variables
	logger *logging.Logger

	requested int
	cancel    bool

	// LastError is the most recent rejected request, nil when the last
	// request was accepted.
	LastError error
}

// New creates the backend. Empty variable names fall back to
// [DefaultVariables]. logger may be nil.
func New(store VarStore, eng *engine.Engine, vars Variables, logger *logging.Logger) *Presets {
	def := DefaultVariables()
	if vars.Request == "" {
		vars.Request = def.Request
	}
	if vars.Cancel == "" {
		vars.Cancel = def.Cancel
	}
	if vars.Progress == "" {
		vars.Progress = def.Progress
	}
	if vars.CurrentID == "" {
		vars.CurrentID = def.CurrentID
	}
	if vars.CurrentStep == "" {
		vars.CurrentStep = def.CurrentStep
	}

	return &Presets{
		store:  store,
		engine: eng,
		vars:   vars,
		logger: logger,
	}
}

// Variables returns the variable names in use.
func (p *Presets) Variables() Variables {
	return p.vars
}

// Engine returns the driven engine.
func (p *Presets) Engine() *engine.Engine {
	return p.engine
}

// Read consumes the request and cancel variables.
func (p *Presets) Read() {
	if v, _ := p.store.Read(p.vars.Cancel); v != 0 {
		p.cancel = true
		p.store.Write(p.vars.Cancel, 0)
	}

	if v, _ := p.store.Read(p.vars.Request); v != 0 {
		p.requested = int(math.Round(v))
		p.store.Write(p.vars.Request, 0)
	}
}

// Update hands consumed signals to the engine and ticks it by dt.
func (p *Presets) Update(dt time.Duration) {
	if p.cancel {
		p.cancel = false
		if p.engine.Abort() {
			p.logger.Info("preset load cancelled")
		}
	}

	if p.requested != 0 {
		id := p.requested
		p.requested = 0
		if err := p.engine.Request(id); err != nil {
			p.LastError = err
			p.logger.Warn("preset request rejected", slog.Int("preset", id), slog.Any("error", err))
		} else {
			p.LastError = nil
		}
	}

	p.engine.Tick(dt)
}

// Write publishes the engine's progress.
func (p *Presets) Write() {
	prog := p.engine.Progress()
	p.store.Write(p.vars.Progress, prog.Percent)
	p.store.Write(p.vars.CurrentID, float64(prog.PresetID))
	p.store.Write(p.vars.CurrentStep, float64(prog.StepID))
}
