package gateway

// Mock implements [VariableGateway] for testing.
//
// Configure the mock by setting its fields before use:
//
//	mock := &Mock{
//	    States: map[string]bool{"get('BAT') == 1": true},
//	}
//
// Evaluate answers from EvaluateFunc when set, otherwise from States (missing
// codes are false). Every call is recorded.
type Mock struct {
	// Values backs Read.
	Values map[string]float64

	// States maps expected-state code to its evaluation result.
	States map[string]bool

	// EvaluateFunc overrides States when set.
	EvaluateFunc func(code string) (bool, error)

	// EvaluateErr is returned by every Evaluate call when set.
	EvaluateErr error

	// ExecuteFunc is called by Execute when set; its error is returned.
	ExecuteFunc func(code string) error

	// ExecuteErr is returned by every Execute call when set.
	ExecuteErr error

	// Evaluations records every code passed to Evaluate, in order.
	Evaluations []string

	// Executions records every code passed to Execute, in order.
	Executions []string
}

// Read returns the configured value.
func (m *Mock) Read(name string) (float64, bool) {
	v, ok := m.Values[name]
	return v, ok
}

// Evaluate records the call and returns the configured result.
func (m *Mock) Evaluate(code string) (bool, error) {
	m.Evaluations = append(m.Evaluations, code)

	if m.EvaluateErr != nil {
		return false, m.EvaluateErr
	}
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(code)
	}
	return m.States[code], nil
}

// Execute records the call and returns the configured error.
func (m *Mock) Execute(code string) error {
	m.Executions = append(m.Executions, code)

	if m.ExecuteFunc != nil {
		if err := m.ExecuteFunc(code); err != nil {
			return err
		}
	}
	return m.ExecuteErr
}

// ExecuteCount returns how often code was passed to Execute.
func (m *Mock) ExecuteCount(code string) int {
	n := 0
	for _, c := range m.Executions {
		if c == code {
			n++
		}
	}
	return n
}

// EvaluateCount returns how often code was passed to Evaluate.
func (m *Mock) EvaluateCount(code string) int {
	n := 0
	for _, c := range m.Evaluations {
		if c == code {
			n++
		}
	}
	return n
}

// Set sets the evaluation result for code.
func (m *Mock) Set(code string, holds bool) {
	if m.States == nil {
		m.States = make(map[string]bool)
	}
	m.States[code] = holds
}
