package notify

import (
	"context"
	"sync"
)

// MockNotifier records escalations for tests.
type MockNotifier struct {
	mu    sync.Mutex
	calls []*Escalation

	// Err, when set, is returned from NotifyEscalation.
	Err error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyEscalation records the escalation.
func (m *MockNotifier) NotifyEscalation(ctx context.Context, esc *Escalation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, esc)
	return m.Err
}

// Calls returns the escalations recorded so far.
func (m *MockNotifier) Calls() []*Escalation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Escalation, len(m.calls))
	copy(out, m.calls)
	return out
}
