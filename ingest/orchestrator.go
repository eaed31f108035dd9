// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/harvest/assess"
	"github.com/poiesic/harvest/connector"
	"github.com/poiesic/harvest/core"
	"github.com/poiesic/harvest/storage"
	"github.com/poiesic/harvest/workflow"
)

const (
	defaultMaxConcurrent = 3
	defaultRetryBase     = 500 * time.Millisecond

	// planGraceMargin pads the plan-level deadline past the longest
	// per-source timeout so slow joins surface as per-source TIMEOUTs,
	// not a truncated run.
	planGraceMargin = 5 * time.Second
)

// Orchestrator executes ingestion plans against registered connectors.
// It owns the worker pool bounding source concurrency; the cache store,
// assessor, and notifier are injected collaborators with their own
// lifecycles.
type Orchestrator struct {
	cache      storage.CacheStore
	connectors map[core.SourceType]connector.Connector
	pool       *ants.Pool
	ttl        storage.TTLPolicy
	assessor   assess.Assessor
	notifier   workflow.Notifier
	retryBase  time.Duration
	logger     *slog.Logger
	released   atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithMaxConcurrent sets the bound on simultaneously running source
// tasks. Plans with more sources than the bound queue the excess.
// Default is 3.
func WithMaxConcurrent(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			return ErrInvalidConcurrency
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "orchestrator")
		return nil
	}
}

// WithAssessor enables the quality gate. Scored items carry their score
// in metadata; items the assessor fails on stay unscored.
func WithAssessor(assessor assess.Assessor) Option {
	return func(o *Orchestrator) error {
		o.assessor = assessor
		return nil
	}
}

// WithNotifier sets the workflow event sink used for plans that have
// cross-source workflows enabled.
func WithNotifier(notifier workflow.Notifier) Option {
	return func(o *Orchestrator) error {
		o.notifier = notifier
		return nil
	}
}

// WithTTLPolicy overrides the per-source-type cache TTLs.
func WithTTLPolicy(policy storage.TTLPolicy) Option {
	return func(o *Orchestrator) error {
		o.ttl = policy
		return nil
	}
}

// WithRetryBaseDelay sets the base delay for exponential backoff
// between fetch retries. Default is 500ms.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return fmt.Errorf("retry base delay must be positive, got %s", d)
		}
		o.retryBase = d
		return nil
	}
}

// NewOrchestrator creates an orchestrator over the given cache and
// connectors. Each connector serves the source type it reports; two
// connectors for the same type is a construction error.
func NewOrchestrator(cache storage.CacheStore, connectors []connector.Connector, opts ...Option) (*Orchestrator, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if len(connectors) == 0 {
		return nil, ErrNoConnectors
	}

	byType := make(map[core.SourceType]connector.Connector, len(connectors))
	for _, conn := range connectors {
		if _, dup := byType[conn.Type()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateConnector, conn.Type())
		}
		byType[conn.Type()] = conn
	}

	pool, err := ants.NewPool(defaultMaxConcurrent)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cache:      cache,
		connectors: byType,
		pool:       pool,
		ttl:        storage.DefaultTTLPolicy(),
		retryBase:  defaultRetryBase,
		logger:     slog.Default().With("component", "orchestrator"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Execute runs every source in the plan under the concurrency bound and
// assembles a single result. Per-source failures are contained and
// reported in the result; Execute itself errors only on an invalid
// plan, a source type with no connector, or use after Release.
func (o *Orchestrator) Execute(ctx context.Context, plan *core.IngestionPlan) (*core.IngestionResult, error) {
	if o.released.Load() {
		return nil, ErrReleased
	}
	if err := core.ValidatePlan(plan); err != nil {
		return nil, err
	}
	for _, source := range plan.Sources {
		if _, ok := o.connectors[source.Type]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoConnectorForType, source.Type)
		}
	}

	start := time.Now()
	o.logger.Info("executing plan", "plan", plan.ID, "topic", plan.Topic, "sources", len(plan.Sources))

	planCtx, cancel := context.WithTimeout(ctx, planBudget(plan))
	defer cancel()

	outcomes := make([]sourceOutcome, len(plan.Sources))
	var wg sync.WaitGroup
	for i, source := range plan.Sources {
		conn := o.connectors[source.Type]
		wg.Add(1)
		err := o.pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = o.runSource(planCtx, source, conn)
		})
		if err != nil {
			source.Status = core.StatusFailed
			outcomes[i] = sourceOutcome{source: source, status: core.StatusFailed, err: err}
			wg.Done()
		}
	}
	wg.Wait()
	cancel()

	stats := runStats{}
	var items []*core.ContentItem
	for _, outcome := range outcomes {
		stats.retries += outcome.retries
		if outcome.cacheHit {
			stats.cacheHits++
		}
		switch outcome.status {
		case core.StatusCompleted:
			stats.completed++
			items = append(items, outcome.items...)
		default:
			stats.failed++
			message := "source task did not run"
			if outcome.err != nil {
				message = outcome.err.Error()
			}
			stats.errors = append(stats.errors, core.SourceError{
				SourceID:   outcome.source.ID,
				SourceType: outcome.source.Type,
				Message:    message,
			})
		}
	}

	if plan.DedupEnabled {
		items, stats.duplicates = dedupe(items)
	}
	if o.assessor != nil {
		stats.scoredItems, stats.scoreTotal = annotate(ctx, o.assessor, plan.Topic, items, o.logger)
	}

	result := assemble(plan, items, stats, time.Since(start))
	o.logger.Info("plan executed",
		"plan", plan.ID,
		"success", result.Success,
		"items", len(result.Items),
		"completed", result.SourcesCompleted,
		"failed", result.SourcesFailed,
		"cache_hits", result.CacheHits,
		"duplicates_removed", result.DuplicatesRemoved,
		"elapsed", result.ExecutionTime)

	if plan.WorkflowsEnabled && o.notifier != nil {
		o.emit(ctx, plan, result, outcomes)
	}
	return result, nil
}

// Health reports per-connector reachability. Connectors that do not
// implement connector.HealthChecker are assumed healthy.
func (o *Orchestrator) Health(ctx context.Context) map[string]error {
	report := make(map[string]error, len(o.connectors))
	for _, conn := range o.connectors {
		if checker, ok := conn.(connector.HealthChecker); ok {
			report[conn.Name()] = checker.CheckHealth(ctx)
		} else {
			report[conn.Name()] = nil
		}
	}
	return report
}

// Release frees the worker pool. The orchestrator must not be used
// after Release; the injected cache store is not closed here.
func (o *Orchestrator) Release() {
	o.released.Store(true)
	if o.pool != nil {
		o.pool.Release()
	}
}

// emit sends post-run workflow events. Notifiers cannot fail the run.
// Completed events are keyed by source type so downstream workflows can
// trigger per content family rather than per individual source.
func (o *Orchestrator) emit(ctx context.Context, plan *core.IngestionPlan, result *core.IngestionResult, outcomes []sourceOutcome) {
	o.notifier.Notify(ctx, workflow.EventIngestionCompleted, map[string]string{
		"plan_id":            plan.ID,
		"topic":              plan.Topic,
		"items":              strconv.Itoa(len(result.Items)),
		"sources_completed":  strconv.Itoa(result.SourcesCompleted),
		"sources_failed":     strconv.Itoa(result.SourcesFailed),
		"duplicates_removed": strconv.Itoa(result.DuplicatesRemoved),
	})

	itemsByType := make(map[core.SourceType]int, len(o.connectors))
	for _, item := range result.Items {
		itemsByType[item.SourceType]++
	}
	seen := make(map[core.SourceType]bool, len(o.connectors))
	for _, outcome := range outcomes {
		if outcome.status != core.StatusCompleted || seen[outcome.source.Type] {
			continue
		}
		seen[outcome.source.Type] = true
		o.notifier.Notify(ctx, workflow.EventSourceCompleted, map[string]string{
			"plan_id":     plan.ID,
			"source_type": outcome.source.Type.String(),
			"items":       strconv.Itoa(itemsByType[outcome.source.Type]),
		})
	}

	for _, sourceErr := range result.Errors {
		o.notifier.Notify(ctx, workflow.EventSourceFailed, map[string]string{
			"plan_id":     plan.ID,
			"source_id":   sourceErr.SourceID,
			"source_type": sourceErr.SourceType.String(),
			"error":       sourceErr.Message,
		})
	}
}

// planBudget is the plan-level deadline: the longest per-source timeout
// plus a grace margin, so one slow source cannot stall the join forever.
func planBudget(plan *core.IngestionPlan) time.Duration {
	budget := time.Duration(0)
	for _, source := range plan.Sources {
		if source.Timeout > budget {
			budget = source.Timeout
		}
	}
	return budget + planGraceMargin
}
