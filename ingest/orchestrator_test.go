package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assessmock "github.com/poiesic/harvest/assess/mock"
	"github.com/poiesic/harvest/connector"
	connmock "github.com/poiesic/harvest/connector/mock"
	"github.com/poiesic/harvest/core"
	storagemock "github.com/poiesic/harvest/storage/mock"
	"github.com/poiesic/harvest/workflow"
	workflowmock "github.com/poiesic/harvest/workflow/mock"
)

func testSource(id string, sourceType core.SourceType, terms string) *core.IngestionSource {
	return &core.IngestionSource{
		ID:               id,
		Type:             sourceType,
		Priority:         int(sourceType),
		Query:            map[string]string{"terms": terms},
		EstimatedResults: 5,
		Timeout:          5 * time.Second,
		MaxRetries:       2,
		Status:           core.StatusPending,
	}
}

func testPlan(sources ...*core.IngestionSource) *core.IngestionPlan {
	return &core.IngestionPlan{
		ID:           "plan-test",
		Topic:        "machine learning healthcare",
		Sources:      sources,
		CreatedAt:    time.Now().UTC(),
		DedupEnabled: true,
	}
}

func item(source string, sourceType core.SourceType, title, content string) *core.ContentItem {
	return &core.ContentItem{
		SourceName: source,
		SourceType: sourceType,
		Title:      title,
		Content:    content,
		URL:        "https://example.invalid/" + title,
	}
}

func newTestOrchestrator(t *testing.T, connectors []connector.Connector, opts ...Option) (*Orchestrator, *storagemock.Cache) {
	t.Helper()
	cache := storagemock.NewCache()
	opts = append([]Option{WithRetryBaseDelay(time.Millisecond)}, opts...)
	o, err := NewOrchestrator(cache, connectors, opts...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o, cache
}

// The example end-to-end scenario: three sources each returning two
// items, with one item duplicated across web and academic.
func TestExecuteExampleScenario(t *testing.T) {
	shared := "Machine Learning in Clinical Practice"
	sharedBody := "A survey of machine learning deployment in hospitals."

	web := connmock.NewConnector("web-search", core.SourceTypeWeb)
	web.Items = []*core.ContentItem{
		item("web-search", core.SourceTypeWeb, shared, sharedBody),
		item("web-search", core.SourceTypeWeb, "ML News Roundup", "Weekly news about machine learning."),
	}
	academic := connmock.NewConnector("arxiv-search", core.SourceTypeAcademic)
	academic.Items = []*core.ContentItem{
		item("arxiv-search", core.SourceTypeAcademic, shared, sharedBody),
		item("arxiv-search", core.SourceTypeAcademic, "Deep Learning for Radiology", "Applying CNNs to radiology scans."),
	}
	literature := connmock.NewConnector("pubmed-search", core.SourceTypeLiterature)
	literature.Items = []*core.ContentItem{
		item("pubmed-search", core.SourceTypeLiterature, "Clinical Trial Outcomes", "Outcomes of ML-assisted trials."),
		item("pubmed-search", core.SourceTypeLiterature, "Sepsis Prediction Models", "Early warning models for sepsis."),
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{web, academic, literature})

	plan := testPlan(
		testSource("web-1", core.SourceTypeWeb, "machine learning"),
		testSource("academic-2", core.SourceTypeAcademic, "machine learning"),
		testSource("literature-3", core.SourceTypeLiterature, "machine learning"),
	)

	result, err := o.Execute(context.Background(), plan)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.Items, 5)
	assert.Equal(t, 1, result.DuplicatesRemoved)
	assert.Equal(t, 3, result.SourcesAttempted)
	assert.Equal(t, 3, result.SourcesCompleted)
	assert.Equal(t, 0, result.SourcesFailed)
	assert.Empty(t, result.Errors)

	// Every surviving item traces back to exactly one source.
	for _, it := range result.Items {
		assert.NotEmpty(t, it.Metadata[core.MetadataSourceID])
	}
}

// The same duplicate must survive from the same source regardless of
// which source's task finishes first.
func TestDedupDeterministicAcrossCompletionOrder(t *testing.T) {
	shared := "Shared Result"
	sharedBody := "Identical content fetched by two connectors."

	web := connmock.NewConnector("web-search", core.SourceTypeWeb)
	web.Items = []*core.ContentItem{item("web-search", core.SourceTypeWeb, shared, sharedBody)}
	// Web is artificially slow so academic completes first.
	web.Latency = 100 * time.Millisecond

	academic := connmock.NewConnector("arxiv-search", core.SourceTypeAcademic)
	academic.Items = []*core.ContentItem{item("arxiv-search", core.SourceTypeAcademic, shared, sharedBody)}

	o, _ := newTestOrchestrator(t, []connector.Connector{web, academic})

	plan := testPlan(
		testSource("web-1", core.SourceTypeWeb, "shared"),
		testSource("academic-2", core.SourceTypeAcademic, "shared"),
	)

	result, err := o.Execute(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.DuplicatesRemoved)

	// Aggregation follows plan order, so the web copy wins even though
	// the academic task finished long before it.
	assert.Equal(t, "web-1", result.Items[0].Metadata[core.MetadataSourceID])
}

func TestConcurrencyBound(t *testing.T) {
	const bound = 2
	const sources = 6

	var running, peak atomic.Int32
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	conn.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		now := running.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		running.Add(-1)
		return []*core.ContentItem{item("web-search", core.SourceTypeWeb, query["terms"], query["terms"])}, nil
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{conn}, WithMaxConcurrent(bound))

	plannedSources := make([]*core.IngestionSource, sources)
	for i := range plannedSources {
		plannedSources[i] = testSource(fmt.Sprintf("web-%d", i+1), core.SourceTypeWeb, fmt.Sprintf("topic %d", i+1))
	}

	result, err := o.Execute(context.Background(), testPlan(plannedSources...))
	require.NoError(t, err)
	assert.Equal(t, sources, result.SourcesCompleted)
	assert.LessOrEqual(t, peak.Load(), int32(bound))
}

func TestRetryCeiling(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	conn.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		return nil, connector.NewNetworkError("connection refused", nil)
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{conn})

	source := testSource("web-1", core.SourceTypeWeb, "anything")
	source.MaxRetries = 2
	result, err := o.Execute(context.Background(), testPlan(source))
	require.NoError(t, err)

	assert.Equal(t, 3, conn.CallCount(), "exactly max retries + 1 attempts")
	assert.Equal(t, 2, result.RetryAttempts)
	assert.False(t, result.Success)
	assert.Equal(t, core.StatusFailed, source.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "web-1", result.Errors[0].SourceID)
}

func TestUnknownErrorRetriedOnce(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	conn.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		return nil, errors.New("something unclassified broke")
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{conn})

	source := testSource("web-1", core.SourceTypeWeb, "anything")
	source.MaxRetries = 5
	result, err := o.Execute(context.Background(), testPlan(source))
	require.NoError(t, err)

	assert.Equal(t, 2, conn.CallCount(), "unknown failures retry once, then terminal")
	assert.Equal(t, core.StatusFailed, source.Status)
	assert.False(t, result.Success)
}

func TestValidationErrorNotRetried(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	conn.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		return nil, connector.NewValidationError("missing terms parameter", nil)
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{conn})

	result, err := o.Execute(context.Background(), testPlan(testSource("web-1", core.SourceTypeWeb, "anything")))
	require.NoError(t, err)

	assert.Equal(t, 1, conn.CallCount())
	assert.False(t, result.Success)
}

func TestCacheIdempotence(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	o, _ := newTestOrchestrator(t, []connector.Connector{conn})

	plan := testPlan(testSource("web-1", core.SourceTypeWeb, "caching"))

	first, err := o.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	require.Len(t, first.Items, 2)

	second, err := o.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, second.SourcesAttempted, second.CacheHits)
	assert.Equal(t, 1, conn.CallCount(), "second run served entirely from cache")

	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Title, second.Items[i].Title)
		assert.Equal(t, first.Items[i].Content, second.Items[i].Content)
	}
}

func TestPartialSuccess(t *testing.T) {
	web := connmock.NewConnector("web-search", core.SourceTypeWeb)

	academic := connmock.NewConnector("arxiv-search", core.SourceTypeAcademic)
	academic.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		return nil, connector.NewValidationError("bad category", nil)
	}
	literature := connmock.NewConnector("pubmed-search", core.SourceTypeLiterature)
	literature.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		return nil, connector.NewValidationError("bad query", nil)
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{web, academic, literature})

	result, err := o.Execute(context.Background(), testPlan(
		testSource("web-1", core.SourceTypeWeb, "topic"),
		testSource("academic-2", core.SourceTypeAcademic, "topic"),
		testSource("literature-3", core.SourceTypeLiterature, "topic"),
	))
	require.NoError(t, err)

	assert.True(t, result.Success, "one completed source is still a success")
	assert.Equal(t, 1, result.SourcesCompleted)
	assert.Equal(t, 2, result.SourcesFailed)
	assert.Len(t, result.Errors, 2)
	assert.LessOrEqual(t, result.SourcesCompleted+result.SourcesFailed, result.SourcesAttempted)
}

func TestTimeoutIsolation(t *testing.T) {
	stuck := connmock.NewConnector("web-search", core.SourceTypeWeb)
	stuck.Latency = 10 * time.Second

	fast := connmock.NewConnector("arxiv-search", core.SourceTypeAcademic)

	o, _ := newTestOrchestrator(t, []connector.Connector{stuck, fast})

	stuckSource := testSource("web-1", core.SourceTypeWeb, "stuck")
	stuckSource.Timeout = 150 * time.Millisecond
	fastSource := testSource("academic-2", core.SourceTypeAcademic, "fast")

	start := time.Now()
	result, err := o.Execute(context.Background(), testPlan(stuckSource, fastSource))
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second, "stuck source must not stall the run")
	assert.Equal(t, core.StatusTimedOut, stuckSource.Status)
	assert.Equal(t, core.StatusCompleted, fastSource.Status)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.SourcesCompleted)
	assert.Equal(t, 1, result.SourcesFailed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "web-1", result.Errors[0].SourceID)
}

// With a pool bound of 1 the sources run serially, so the tail source is
// still queued when the plan-level budget (max source timeout plus grace)
// runs out and must be recorded as timed out, not failed or completed.
func TestPlanBudgetCancelsQueuedSources(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-second plan budget test in short mode")
	}

	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	conn.Latency = 2 * time.Second

	o, _ := newTestOrchestrator(t, []connector.Connector{conn}, WithMaxConcurrent(1))

	sources := make([]*core.IngestionSource, 4)
	for i := range sources {
		source := testSource(fmt.Sprintf("web-%d", i+1), core.SourceTypeWeb, fmt.Sprintf("topic %d", i+1))
		source.Timeout = 2500 * time.Millisecond
		sources[i] = source
	}

	result, err := o.Execute(context.Background(), testPlan(sources...))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.SourcesCompleted)
	assert.Equal(t, 1, result.SourcesFailed)
	assert.Equal(t, core.StatusCompleted, sources[0].Status)
	assert.Equal(t, core.StatusTimedOut, sources[3].Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "web-4", result.Errors[0].SourceID)
}

func TestQualityGate(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	conn.Items = []*core.ContentItem{
		item("web-search", core.SourceTypeWeb, "machine learning healthcare study", "machine learning healthcare content"),
		item("web-search", core.SourceTypeWeb, "unrelated", "unrelated content"),
	}

	assessor := assessmock.NewAssessor()
	o, _ := newTestOrchestrator(t, []connector.Connector{conn}, WithAssessor(assessor))

	result, err := o.Execute(context.Background(), testPlan(testSource("web-1", core.SourceTypeWeb, "topic")))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Metrics.ScoredItems)
	assert.Greater(t, result.Metrics.AverageQuality, 0.0)
	for _, it := range result.Items {
		assert.Contains(t, it.Metadata, core.MetadataQualityScore)
	}
}

func TestQualityGateToleratesPerItemFailure(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)

	assessor := assessmock.NewAssessor()
	failedOnce := false
	assessor.ScoreFunc = func(ctx context.Context, topic, title, content string) (float64, error) {
		if !failedOnce {
			failedOnce = true
			return 0, errors.New("scorer unavailable")
		}
		return 0.8, nil
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{conn}, WithAssessor(assessor))

	result, err := o.Execute(context.Background(), testPlan(testSource("web-1", core.SourceTypeWeb, "topic")))
	require.NoError(t, err)

	assert.Len(t, result.Items, 2, "assessment failure never drops items")
	assert.Equal(t, 1, result.Metrics.ScoredItems)
}

func TestWorkflowNotifications(t *testing.T) {
	web := connmock.NewConnector("web-search", core.SourceTypeWeb)
	academic := connmock.NewConnector("arxiv-search", core.SourceTypeAcademic)
	academic.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		return nil, connector.NewValidationError("broken", nil)
	}

	notifier := workflowmock.NewNotifier()
	o, _ := newTestOrchestrator(t, []connector.Connector{web, academic}, WithNotifier(notifier))

	plan := testPlan(
		testSource("web-1", core.SourceTypeWeb, "topic"),
		testSource("academic-2", core.SourceTypeAcademic, "topic"),
	)
	plan.WorkflowsEnabled = true

	_, err := o.Execute(context.Background(), plan)
	require.NoError(t, err)

	events := notifier.Events()
	require.Len(t, events, 3)
	assert.Equal(t, workflow.EventIngestionCompleted, events[0].Type)
	assert.Equal(t, plan.ID, events[0].Payload["plan_id"])
	assert.Equal(t, workflow.EventSourceCompleted, events[1].Type)
	assert.Equal(t, "web", events[1].Payload["source_type"])
	assert.Equal(t, workflow.EventSourceFailed, events[2].Type)
	assert.Equal(t, "academic-2", events[2].Payload["source_id"])
}

func TestWorkflowsDisabledEmitsNothing(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	notifier := workflowmock.NewNotifier()
	o, _ := newTestOrchestrator(t, []connector.Connector{conn}, WithNotifier(notifier))

	plan := testPlan(testSource("web-1", core.SourceTypeWeb, "topic"))
	plan.WorkflowsEnabled = false

	_, err := o.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Empty(t, notifier.Events())
}

func TestExecuteRejectsInvalidPlan(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	o, _ := newTestOrchestrator(t, []connector.Connector{conn})

	_, err := o.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidPlan)

	_, err = o.Execute(context.Background(), testPlan())
	assert.ErrorIs(t, err, core.ErrNoSources)
}

func TestExecuteRejectsUnknownSourceType(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	o, _ := newTestOrchestrator(t, []connector.Connector{conn})

	_, err := o.Execute(context.Background(), testPlan(testSource("academic-2", core.SourceTypeAcademic, "topic")))
	assert.ErrorIs(t, err, ErrNoConnectorForType)
}

func TestBrokenCacheDegradesToFetch(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	cache := storagemock.NewCache()
	cache.GetFunc = func(ctx context.Context, namespace string, key core.Fingerprint) (*core.CacheEnvelope, error) {
		return nil, errors.New("cache backend unreachable")
	}
	cache.SetFunc = func(ctx context.Context, namespace string, key core.Fingerprint, envelope *core.CacheEnvelope, ttl time.Duration) error {
		return errors.New("cache backend unreachable")
	}

	o, err := NewOrchestrator(cache, []connector.Connector{conn}, WithRetryBaseDelay(time.Millisecond))
	require.NoError(t, err)
	defer o.Release()

	result, err := o.Execute(context.Background(), testPlan(testSource("web-1", core.SourceTypeWeb, "topic")))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Items, 2)
}

func TestExecuteAfterRelease(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	cache := storagemock.NewCache()
	o, err := NewOrchestrator(cache, []connector.Connector{conn})
	require.NoError(t, err)

	o.Release()
	_, err = o.Execute(context.Background(), testPlan(testSource("web-1", core.SourceTypeWeb, "topic")))
	assert.ErrorIs(t, err, ErrReleased)
}

func TestNewOrchestratorValidation(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)

	_, err := NewOrchestrator(nil, []connector.Connector{conn})
	assert.ErrorIs(t, err, ErrCacheRequired)

	_, err = NewOrchestrator(storagemock.NewCache(), nil)
	assert.ErrorIs(t, err, ErrNoConnectors)

	dup := connmock.NewConnector("web-other", core.SourceTypeWeb)
	_, err = NewOrchestrator(storagemock.NewCache(), []connector.Connector{conn, dup})
	assert.ErrorIs(t, err, ErrDuplicateConnector)

	_, err = NewOrchestrator(storagemock.NewCache(), []connector.Connector{conn}, WithMaxConcurrent(0))
	assert.ErrorIs(t, err, ErrInvalidConcurrency)
}

func TestHealth(t *testing.T) {
	healthy := connmock.NewConnector("web-search", core.SourceTypeWeb)
	sick := connmock.NewConnector("arxiv-search", core.SourceTypeAcademic)
	sick.CheckHealthFunc = func(ctx context.Context) error {
		return errors.New("upstream 503")
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{healthy, sick})

	report := o.Health(context.Background())
	require.Len(t, report, 2)
	assert.NoError(t, report["web-search"])
	assert.Error(t, report["arxiv-search"])
}

// Regression guard: concurrent outcome writes must not race with each
// other or with the join.
func TestExecuteManySourcesStress(t *testing.T) {
	conn := connmock.NewConnector("web-search", core.SourceTypeWeb)
	var mu sync.Mutex
	calls := 0
	conn.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return []*core.ContentItem{item("web-search", core.SourceTypeWeb, query["terms"], query["terms"])}, nil
	}

	o, _ := newTestOrchestrator(t, []connector.Connector{conn}, WithMaxConcurrent(4))

	plannedSources := make([]*core.IngestionSource, 20)
	for i := range plannedSources {
		plannedSources[i] = testSource(fmt.Sprintf("web-%d", i+1), core.SourceTypeWeb, fmt.Sprintf("q%d", i+1))
	}

	result, err := o.Execute(context.Background(), testPlan(plannedSources...))
	require.NoError(t, err)
	assert.Equal(t, 20, result.SourcesCompleted)
	assert.Len(t, result.Items, 20)
	assert.Equal(t, 20, calls)
}
