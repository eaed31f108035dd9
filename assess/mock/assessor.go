package mock

import (
	"context"
	"strings"
	"sync"
)

// Assessor is a test double for assess.Assessor.
// It allows custom behavior injection via function fields.
type Assessor struct {
	// ScoreFunc is called by Score if set.
	// If nil, uses default term-overlap scoring.
	ScoreFunc func(ctx context.Context, topic, title, content string) (float64, error)

	mu        sync.Mutex
	callCount int
}

// NewAssessor creates a mock assessor with default behavior.
// Returns the concrete type to allow test assertions.
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Score rates content deterministically by counting how many topic
// words appear in the title and content. The result is stable across
// runs for the same inputs.
func (m *Assessor) Score(ctx context.Context, topic, title, content string) (float64, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, topic, title, content)
	}

	words := strings.Fields(strings.ToLower(topic))
	if len(words) == 0 {
		return 0.5, nil
	}

	haystack := strings.ToLower(title + " " + content)
	matched := 0
	for _, word := range words {
		if strings.Contains(haystack, word) {
			matched++
		}
	}

	return float64(matched) / float64(len(words)), nil
}

// CallCount returns the number of times Score was called.
func (m *Assessor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *Assessor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ScoreFunc = nil
}
