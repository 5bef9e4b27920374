package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	lru "github.com/hashicorp/golang-lru/v2"

	"flypad/internal/simvar"
)

// DefaultCacheSize is the number of compiled expressions kept by [Script].
const DefaultCacheSize = 256

// Script implements [VariableGateway] with a goja JavaScript runtime.
//
// Expressions see four functions bound to the variable bus:
//
//	get(name)                    // current value, 0 when unset
//	set(name, value)             // immediate write
//	toggle(name)                 // 0 becomes 1, anything else becomes 0
//	setAfter(name, value, secs)  // write that lands after secs of bus time
//
// The completion value of an expected-state expression is converted with
// JavaScript truthiness, so "get('BAT') == 1" and "get('BAT')" both work.
// Compiled programs are cached by source text.
type Script struct {
	bus      *simvar.Bus
	vm       *goja.Runtime
	programs *lru.Cache[string, *goja.Program]
	budget   time.Duration
}

// Option configures a [Script].
type Option func(*scriptOptions)

type scriptOptions struct {
	cacheSize int
	budget    time.Duration
}

// WithCacheSize sets how many compiled expressions are kept.
func WithCacheSize(n int) Option {
	return func(o *scriptOptions) {
		o.cacheSize = n
	}
}

// WithTimeBudget interrupts any single expression that runs longer than d.
// Zero disables the budget.
func WithTimeBudget(d time.Duration) Option {
	return func(o *scriptOptions) {
		o.budget = d
	}
}

// NewScript creates a [Script] bound to bus.
func NewScript(bus *simvar.Bus, opts ...Option) (*Script, error) {
	o := scriptOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize <= 0 {
		o.cacheSize = DefaultCacheSize
	}

	programs, err := lru.New[string, *goja.Program](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create program cache: %w", err)
	}

	s := &Script{
		bus:      bus,
		vm:       goja.New(),
		programs: programs,
		budget:   o.budget,
	}

	bindings := map[string]any{
		"get":      s.get,
		"set":      s.set,
		"toggle":   s.toggle,
		"setAfter": s.setAfter,
	}
	for name, fn := range bindings {
		if err := s.vm.Set(name, fn); err != nil {
			return nil, fmt.Errorf("failed to bind %s in script runtime: %w", name, err)
		}
	}

	return s, nil
}

func (s *Script) get(name string) float64 {
	return s.bus.Get(name)
}

func (s *Script) set(name string, value float64) {
	s.bus.Write(name, value)
}

func (s *Script) toggle(name string) float64 {
	next := 0.0
	if s.bus.Get(name) == 0 {
		next = 1
	}
	s.bus.Write(name, next)
	return next
}

func (s *Script) setAfter(name string, value, seconds float64) {
	s.bus.WriteAfter(name, value, time.Duration(seconds*float64(time.Second)))
}

// Read returns the variable's value from the bus.
func (s *Script) Read(name string) (float64, bool) {
	return s.bus.Read(name)
}

// Evaluate runs code and reports whether its completion value is truthy.
func (s *Script) Evaluate(code string) (bool, error) {
	v, err := s.run(code)
	if err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrEvaluate, code, err)
	}
	return v.ToBoolean(), nil
}

// Execute runs code for its side effects.
func (s *Script) Execute(code string) error {
	if _, err := s.run(code); err != nil {
		return fmt.Errorf("%w %q: %w", ErrExecute, code, err)
	}
	return nil
}

// Cached returns the number of compiled programs currently cached.
func (s *Script) Cached() int {
	return s.programs.Len()
}

func (s *Script) run(code string) (goja.Value, error) {
	prg, err := s.compile(code)
	if err != nil {
		return nil, err
	}

	if s.budget > 0 {
		timer := time.AfterFunc(s.budget, func() {
			s.vm.Interrupt(ErrTimeBudget)
		})
		defer func() {
			timer.Stop()
			s.vm.ClearInterrupt()
		}()
	}

	v, err := s.vm.RunProgram(prg)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, ErrTimeBudget
		}
		return nil, err
	}
	return v, nil
}

func (s *Script) compile(code string) (*goja.Program, error) {
	if prg, ok := s.programs.Get(code); ok {
		return prg, nil
	}
	prg, err := goja.Compile("", code, true)
	if err != nil {
		return nil, err
	}
	s.programs.Add(code, prg)
	return prg, nil
}
