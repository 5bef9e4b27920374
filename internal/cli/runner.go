package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"flypad/internal/backend"
	"flypad/internal/catalog"
	"flypad/internal/engine"
	"flypad/internal/gateway"
	"flypad/internal/sim"
	"flypad/internal/simvar"
	"flypad/internal/statefile"
)

// loadOptions are the per-invocation settings of the load command.
type loadOptions struct {
	stateIn  string
	stateOut string
	timeout  time.Duration
	realtime bool
}

// newBus creates a variable bus seeded from the optional state file.
func newBus(stateIn string) (*simvar.Bus, error) {
	bus := simvar.NewBus()
	if stateIn == "" {
		return bus, nil
	}

	st, err := statefile.Read(stateIn)
	if err != nil {
		return nil, err
	}
	bus.Load(st.Variables)
	return bus, nil
}

// newGateway creates the script gateway configured by app.
func (app *App) newGateway(bus *simvar.Bus) (*gateway.Script, error) {
	return gateway.NewScript(bus,
		gateway.WithCacheSize(app.Config.Script.CacheSize),
		gateway.WithTimeBudget(app.Config.Script.TimeBudget),
	)
}

// interrupts returns the channel signalling a user cancel and a function
// releasing it.
func (app *App) interrupts() (<-chan struct{}, func()) {
	if app.Interrupt != nil {
		return app.Interrupt, func() {}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ch := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			close(ch)
		case <-stop:
		}
	}()

	return ch, func() {
		signal.Stop(sigCh)
		close(stop)
	}
}

// load runs preset on a fresh bus through the backend request channel and
// returns the terminal event of the sequence.
func (app *App) load(ctx context.Context, preset catalog.Preset, opts loadOptions) (engine.Event, error) {
	bus, err := newBus(opts.stateIn)
	if err != nil {
		return engine.Event{}, err
	}

	gw, err := app.newGateway(bus)
	if err != nil {
		return engine.Event{}, err
	}

	var final engine.Event
	done := false
	sink := engine.MultiSink{
		app.Printer,
		engine.LogSink{Logger: app.Logger},
		engine.SinkFunc(func(ev engine.Event) {
			switch ev.Kind {
			case engine.EventCompleted, engine.EventAborted, engine.EventRejected:
				final = ev
				done = true
			}
		}),
	}

	eng, err := engine.New(app.Catalog, gw,
		engine.WithSequenceTimeout(opts.timeout),
		engine.WithSink(sink),
	)
	if err != nil {
		return engine.Event{}, err
	}

	presets := backend.New(bus, eng, app.Config.Variables, app.Logger)
	vars := presets.Variables()

	loop := sim.NewLoop(bus, app.Config.Sim.FrameRate, presets)
	loop.SetRealtime(opts.realtime)

	interrupt, release := app.interrupts()
	defer release()

	// Ctrl-C goes through the cancel variable like any other client.
	cancelled := false
	loop.SetFrameCallback(func(int, time.Duration) {
		if cancelled {
			return
		}
		select {
		case <-interrupt:
			cancelled = true
			bus.Write(vars.Cancel, 1)
		default:
		}
	})

	app.Logger.Info("loading preset", "preset", preset.ID, "name", preset.Name)
	bus.Write(vars.Request, float64(preset.ID))

	if err := loop.RunUntil(ctx, func() bool { return done }, app.Config.Sim.MaxDuration); err != nil {
		return final, fmt.Errorf("preset %d did not finish: %w", preset.ID, err)
	}

	if opts.stateOut != "" {
		if err := statefile.Write(opts.stateOut, &statefile.State{Variables: bus.Snapshot()}); err != nil {
			return final, err
		}
	}

	return final, nil
}
