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

package harvest

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/harvest/assess"
	assessopenai "github.com/poiesic/harvest/assess/openai"
	"github.com/poiesic/harvest/connector"
	"github.com/poiesic/harvest/connector/arxiv"
	"github.com/poiesic/harvest/connector/pubmed"
	"github.com/poiesic/harvest/connector/web"
	"github.com/poiesic/harvest/core"
	"github.com/poiesic/harvest/ingest"
	"github.com/poiesic/harvest/plan"
	"github.com/poiesic/harvest/storage"
	badgerstore "github.com/poiesic/harvest/storage/badger"
	"github.com/poiesic/harvest/workflow"
)

// Service bundles the plan builder, connectors, cache, and orchestrator
// behind one constructor and lifecycle. It is the intended entry point
// for embedding the ingestion engine.
type Service struct {
	builder      *plan.Builder
	orchestrator *ingest.Orchestrator
	cache        storage.CacheStore
	connectors   []connector.Connector
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	connectors    []connector.Connector
	assessConfig  *assess.Config
	notifier      workflow.Notifier
	maxConcurrent int
	retryBase     time.Duration
	inMemory      bool
	logger        *slog.Logger
}

// WithConnectors replaces the default connector set (web, arXiv, PubMed).
func WithConnectors(connectors ...connector.Connector) ServiceOption {
	return func(o *serviceOptions) {
		o.connectors = connectors
	}
}

// WithQualityGate enables LLM-backed quality scoring with the given
// configuration.
func WithQualityGate(config *assess.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.assessConfig = config
	}
}

// WithWorkflowNotifier sets the event sink for plans with cross-source
// workflows enabled. Default is a log-backed notifier.
func WithWorkflowNotifier(notifier workflow.Notifier) ServiceOption {
	return func(o *serviceOptions) {
		o.notifier = notifier
	}
}

// WithMaxConcurrentSources bounds how many sources fetch simultaneously.
func WithMaxConcurrentSources(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.maxConcurrent = n
	}
}

// WithRetryBaseDelay sets the base delay for fetch retry backoff.
func WithRetryBaseDelay(delay time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.retryBase = delay
	}
}

// WithInMemoryCache uses a non-persistent cache backend. Intended for
// tests and one-shot runs.
func WithInMemoryCache() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithServiceLogger sets the logger used by all constructed components.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// HealthReport is the aggregate health view of the service.
type HealthReport struct {
	Healthy    bool
	Connectors map[string]error
	CacheStats storage.CacheStats
}

// NewService opens the cache at cachePath and wires the default
// pipeline. Pass WithInMemoryCache to skip disk entirely (cachePath is
// then ignored).
func NewService(cachePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := badgerstore.OpenBackend(cachePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	cache := badgerstore.NewCache(backend, logger)

	connectors := options.connectors
	if len(connectors) == 0 {
		connectors = []connector.Connector{
			web.NewConnector(web.WithLogger(logger)),
			arxiv.NewConnector(arxiv.WithLogger(logger)),
			pubmed.NewConnector(pubmed.WithLogger(logger)),
		}
	}

	notifier := options.notifier
	if notifier == nil {
		notifier = workflow.NewLogNotifier(logger)
	}

	orchestratorOpts := []ingest.Option{
		ingest.WithLogger(logger),
		ingest.WithNotifier(notifier),
	}
	if options.maxConcurrent > 0 {
		orchestratorOpts = append(orchestratorOpts, ingest.WithMaxConcurrent(options.maxConcurrent))
	}
	if options.retryBase > 0 {
		orchestratorOpts = append(orchestratorOpts, ingest.WithRetryBaseDelay(options.retryBase))
	}
	if options.assessConfig != nil {
		assessor, err := assessopenai.NewScorer(options.assessConfig)
		if err != nil {
			cache.Close()
			return nil, err
		}
		orchestratorOpts = append(orchestratorOpts, ingest.WithAssessor(assessor))
	}

	orchestrator, err := ingest.NewOrchestrator(cache, connectors, orchestratorOpts...)
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &Service{
		builder:      plan.NewBuilder(plan.WithLogger(logger)),
		orchestrator: orchestrator,
		cache:        cache,
		connectors:   connectors,
		logger:       logger,
	}, nil
}

// BuildPlan converts a free-text topic plus context hints into an
// executable ingestion plan. Pure; performs no I/O.
func (s *Service) BuildPlan(topic string, planContext map[string]string) (*core.IngestionPlan, error) {
	return s.builder.Build(topic, planContext)
}

// Execute runs a plan and returns its assembled result.
func (s *Service) Execute(ctx context.Context, p *core.IngestionPlan) (*core.IngestionResult, error) {
	return s.orchestrator.Execute(ctx, p)
}

// Ingest is the one-call convenience path: build a plan for topic and
// execute it immediately.
func (s *Service) Ingest(ctx context.Context, topic string, planContext map[string]string) (*core.IngestionResult, error) {
	p, err := s.BuildPlan(topic, planContext)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, p)
}

// Health reports connector reachability and cache statistics. The
// report is healthy only if every connector check passed and the cache
// responded.
func (s *Service) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Healthy:    true,
		Connectors: s.orchestrator.Health(ctx),
	}
	for _, err := range report.Connectors {
		if err != nil {
			report.Healthy = false
		}
	}

	stats, err := s.cache.Stats(ctx)
	if err != nil {
		s.logger.Warn("cache stats unavailable", "err", err)
		report.Healthy = false
	} else {
		report.CacheStats = stats
	}
	return report
}

// ClearCache drops all cached source results.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// Close releases the orchestrator's worker pool and closes the cache.
// The service must not be used after Close.
func (s *Service) Close() error {
	s.orchestrator.Release()
	if err := s.cache.Close(); err != nil {
		s.logger.Error("error closing cache store", "err", err)
		return err
	}
	return nil
}
