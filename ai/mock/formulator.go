package mock

import "context"

// MockQueryFormulator is a test double for ai.QueryFormulator.
// It allows custom behavior injection via a function field.
type MockQueryFormulator struct {
	// FormulateFunc is called by Formulate if set.
	// If nil, uses default deterministic behavior.
	FormulateFunc func(ctx context.Context, persona, task string) ([]string, error)

	callCount int
}

// NewMockQueryFormulator creates a mock formulator with default behavior.
// Note: Returns concrete type to allow test assertions via function fields.
func NewMockQueryFormulator() *MockQueryFormulator {
	return &MockQueryFormulator{}
}

// Formulate returns a single deterministic query derived from the inputs.
func (m *MockQueryFormulator) Formulate(ctx context.Context, persona, task string) ([]string, error) {
	m.callCount++

	if m.FormulateFunc != nil {
		return m.FormulateFunc(ctx, persona, task)
	}

	return []string{persona + " " + task}, nil
}

// CallCount returns the number of times Formulate was called.
func (m *MockQueryFormulator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockQueryFormulator) Reset() {
	m.callCount = 0
	m.FormulateFunc = nil
}
