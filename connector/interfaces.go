package connector

import (
	"context"

	"github.com/poiesic/harvest/core"
)

// Connector fetches content items from one remote source.
// Implementations must be thread-safe for concurrent use; the executor may
// invoke Fetch from multiple source tasks at once.
type Connector interface {
	// Name returns a short human-readable identifier for the connector,
	// recorded on items as their SourceName.
	Name() string

	// Type returns the source type this connector serves.
	Type() core.SourceType

	// Fetch retrieves content items matching the query parameters.
	// The per-source timeout is carried by ctx; implementations must honor
	// cancellation. Failures should be reported as *FetchError so callers
	// can classify them; any other error is treated as ErrorKindUnknown.
	Fetch(ctx context.Context, query map[string]string) ([]*core.ContentItem, error)
}

// HealthChecker is an optional interface a Connector may implement to report
// reachability for the orchestrator's health surface.
type HealthChecker interface {
	// CheckHealth performs a cheap liveness probe against the remote source.
	CheckHealth(ctx context.Context) error
}
