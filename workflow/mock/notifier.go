package mock

import (
	"context"
	"sync"
)

// Event captures a single Notify call.
type Event struct {
	Type    string
	Payload map[string]string
}

// Notifier is a test double for workflow.Notifier that records every
// event it receives. Safe for concurrent use.
type Notifier struct {
	// NotifyFunc is called by Notify if set, after the event is recorded.
	NotifyFunc func(ctx context.Context, eventType string, payload map[string]string)

	mu     sync.Mutex
	events []Event
}

// NewNotifier creates a recording mock notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (m *Notifier) Notify(ctx context.Context, eventType string, payload map[string]string) {
	m.mu.Lock()
	m.events = append(m.events, Event{Type: eventType, Payload: payload})
	m.mu.Unlock()

	if m.NotifyFunc != nil {
		m.NotifyFunc(ctx, eventType, payload)
	}
}

// Events returns a copy of all recorded events in arrival order.
func (m *Notifier) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Reset clears recorded events and the custom function.
func (m *Notifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.NotifyFunc = nil
}
