package assess

import "context"

// Assessor scores fetched content for relevance and quality.
// Implementations must be thread-safe for concurrent use.
type Assessor interface {
	// Score rates a single piece of content against the topic it was
	// fetched for. The returned score is in [0.0, 1.0], where higher
	// means more relevant and better written.
	// Returns an error if the assessment fails; callers are expected
	// to tolerate per-item failures and continue.
	Score(ctx context.Context, topic, title, content string) (float64, error)
}
