package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flypad/internal/catalog"
	"flypad/internal/engine"
	"flypad/internal/gateway"
	"flypad/internal/simvar"
)

func setup(t *testing.T) (*Presets, *simvar.Bus, *gateway.Mock) {
	t.Helper()

	cat, err := catalog.New("test", []catalog.Preset{
		catalog.NewPreset(1, "Cold & Dark", []catalog.ProcedureStep{
			{ID: 10, ExpectedStateCode: "bat_off", ActionCode: "set_bat_off", DelayAfter: time.Second},
			{ID: 20, ExpectedStateCode: "ext_off", ActionCode: "set_ext_off", DelayAfter: time.Second},
		}),
	})
	require.NoError(t, err)

	gw := &gateway.Mock{}
	eng, err := engine.New(cat, gw)
	require.NoError(t, err)

	bus := simvar.NewBus()
	return New(bus, eng, Variables{}, nil), bus, gw
}

func frame(p *Presets, dt time.Duration) {
	p.Read()
	p.Update(dt)
	p.Write()
}

func TestPresets_DefaultVariables(t *testing.T) {
	p, _, _ := setup(t)
	assert.Equal(t, DefaultVariables(), p.Variables())
}

func TestPresets_RequestIsEdgeTriggered(t *testing.T) {
	p, bus, gw := setup(t)
	vars := p.Variables()

	bus.Write(vars.Request, 1)
	frame(p, 500*time.Millisecond)

	assert.Zero(t, bus.Get(vars.Request), "request reset once consumed")
	assert.Equal(t, 1.0, bus.Get(vars.CurrentID))
	assert.Equal(t, 10.0, bus.Get(vars.CurrentStep))
	assert.Zero(t, bus.Get(vars.Progress))
	assert.Equal(t, 1, gw.ExecuteCount("set_bat_off"))

	frame(p, 500*time.Millisecond)
	assert.Equal(t, 50.0, bus.Get(vars.Progress))
	assert.Equal(t, 20.0, bus.Get(vars.CurrentStep))
}

func TestPresets_RunsToCompletion(t *testing.T) {
	p, bus, _ := setup(t)
	vars := p.Variables()

	bus.Write(vars.Request, 1)
	for range 10 {
		frame(p, 500*time.Millisecond)
	}

	assert.Equal(t, 100.0, bus.Get(vars.Progress))
	assert.Zero(t, bus.Get(vars.CurrentID))
	assert.Zero(t, bus.Get(vars.CurrentStep))
	assert.Equal(t, engine.PhaseIdle, p.Engine().Phase())
}

func TestPresets_ReissueSameID(t *testing.T) {
	p, bus, gw := setup(t)
	vars := p.Variables()

	bus.Write(vars.Request, 1)
	for range 10 {
		frame(p, 500*time.Millisecond)
	}
	require.Equal(t, 1, gw.ExecuteCount("set_bat_off"))

	bus.Write(vars.Request, 1)
	frame(p, 500*time.Millisecond)

	assert.Equal(t, 2, gw.ExecuteCount("set_bat_off"))
	assert.Equal(t, 1.0, bus.Get(vars.CurrentID))
}

func TestPresets_Cancel(t *testing.T) {
	p, bus, _ := setup(t)
	vars := p.Variables()

	bus.Write(vars.Request, 1)
	frame(p, 500*time.Millisecond)

	bus.Write(vars.Cancel, 1)
	frame(p, 500*time.Millisecond)

	assert.Zero(t, bus.Get(vars.Cancel))
	assert.Zero(t, bus.Get(vars.CurrentID))
	// The abort happens before the frame's tick, which then ends the latch.
	state := p.Engine().State()
	assert.Equal(t, engine.PhaseIdle, state.Phase)
	assert.Equal(t, engine.ReasonUserCancelled, state.AbortReason)
	assert.Zero(t, state.ActivePreset)
}

func TestPresets_UnknownPreset(t *testing.T) {
	p, bus, gw := setup(t)
	vars := p.Variables()

	bus.Write(vars.Request, 7)
	frame(p, 500*time.Millisecond)

	require.Error(t, p.LastError)
	assert.True(t, errors.Is(p.LastError, engine.ErrUnknownPreset))
	assert.Zero(t, bus.Get(vars.Request))
	assert.Zero(t, bus.Get(vars.CurrentID))
	assert.Empty(t, gw.Evaluations)
}

func TestPresets_BusyRequestRejected(t *testing.T) {
	p, bus, _ := setup(t)
	vars := p.Variables()

	bus.Write(vars.Request, 1)
	frame(p, 500*time.Millisecond)
	bus.Write(vars.Request, 1)
	frame(p, 100*time.Millisecond)

	assert.True(t, errors.Is(p.LastError, engine.ErrBusy))
	assert.Equal(t, 1.0, bus.Get(vars.CurrentID), "running sequence is untouched")
}
