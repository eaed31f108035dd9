// Package mock provides a test double implementation of assess.Assessor.
//
// The mock allows tests to run without an external LLM service and
// enables controlled, deterministic scoring.
//
// # Usage in Tests
//
//	// Basic usage with default term-overlap scoring
//	assessor := mock.NewAssessor()
//	score, err := assessor.Score(ctx, "quantum computing", title, content)
//
//	// Custom behavior injection
//	assessor.ScoreFunc = func(ctx context.Context, topic, title, content string) (float64, error) {
//	    return 0.75, nil
//	}
//
//	// Check call counts
//	count := assessor.CallCount()
package mock
