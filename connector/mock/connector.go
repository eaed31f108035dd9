package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poiesic/harvest/connector"
	"github.com/poiesic/harvest/core"
)

// Connector is a test double for connector.Connector.
// It allows custom behavior injection via function fields and is safe for
// concurrent use.
type Connector struct {
	// FetchFunc is called by Fetch if set.
	// If nil, Fetch returns deterministic items derived from the query.
	FetchFunc func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error)

	// CheckHealthFunc is called by CheckHealth if set. If nil, the
	// connector reports healthy.
	CheckHealthFunc func(ctx context.Context) error

	// Latency, when non-zero, delays each Fetch call. The delay respects
	// context cancellation so timeout tests terminate promptly.
	Latency time.Duration

	// Items, when set, is returned by the default Fetch behavior.
	Items []*core.ContentItem

	name       string
	sourceType core.SourceType

	mu        sync.Mutex
	callCount int
}

var _ connector.Connector = (*Connector)(nil)
var _ connector.HealthChecker = (*Connector)(nil)

// NewConnector creates a mock connector with default deterministic behavior.
// Returns the concrete type to allow test assertions.
func NewConnector(name string, sourceType core.SourceType) *Connector {
	return &Connector{
		name:       name,
		sourceType: sourceType,
	}
}

// Name returns the configured connector name.
func (m *Connector) Name() string {
	return m.name
}

// Type returns the configured source type.
func (m *Connector) Type() core.SourceType {
	return m.sourceType
}

// Fetch returns canned or deterministic items, after the configured latency.
func (m *Connector) Fetch(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, query)
	}

	if m.Items != nil {
		return m.Items, nil
	}

	// Default: two deterministic items derived from the query terms.
	terms := query["terms"]
	items := make([]*core.ContentItem, 2)
	for i := range items {
		items[i] = &core.ContentItem{
			SourceName: m.name,
			SourceType: m.sourceType,
			Title:      fmt.Sprintf("%s result %d for %q", m.name, i+1, terms),
			Content:    fmt.Sprintf("Deterministic mock content %d about %s.", i+1, terms),
			URL:        fmt.Sprintf("https://example.invalid/%s/%d", m.sourceType, i+1),
		}
	}
	return items, nil
}

// CheckHealth reports healthy unless CheckHealthFunc is set.
func (m *Connector) CheckHealth(ctx context.Context) error {
	if m.CheckHealthFunc != nil {
		return m.CheckHealthFunc(ctx)
	}
	return nil
}

// CallCount returns the number of times Fetch was called.
func (m *Connector) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *Connector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.FetchFunc = nil
	m.CheckHealthFunc = nil
	m.Items = nil
	m.Latency = 0
}
