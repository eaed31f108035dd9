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


package plan

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/harvest/core"
)

// sourceDefaults holds the static per-type scheduling defaults.
type sourceDefaults struct {
	estimatedResults int
	timeout          time.Duration
	maxRetries       int
}

var typeDefaults = map[core.SourceType]sourceDefaults{
	core.SourceTypeWeb:        {estimatedResults: 5, timeout: 15 * time.Second, maxRetries: 2},
	core.SourceTypeAcademic:   {estimatedResults: 10, timeout: 30 * time.Second, maxRetries: 2},
	core.SourceTypeLiterature: {estimatedResults: 10, timeout: 30 * time.Second, maxRetries: 2},
}

// planOrder fixes the priority order of sources within a plan. Downstream
// result ordering follows this order regardless of task completion timing.
var planOrder = []core.SourceType{
	core.SourceTypeWeb,
	core.SourceTypeAcademic,
	core.SourceTypeLiterature,
}

// domainCategories maps a context domain hint to extra arXiv categories for
// the academic source.
var domainCategories = map[string]string{
	"healthcare": "cs.AI,cs.LG,q-bio.QM",
	"medicine":   "cs.AI,q-bio.QM",
	"finance":    "cs.AI,q-fin.CP",
	"physics":    "physics.comp-ph",
	"biology":    "q-bio.QM",
}

// Context keys recognized by the Builder. All values are strings; malformed
// values fail plan building with ErrMalformedContext.
const (
	// ContextDomain hints the research domain (e.g. "healthcare") and adds
	// categories to the academic source query.
	ContextDomain = "domain"
	// ContextDedup disables deduplication when set to "false".
	ContextDedup = "dedup"
	// ContextWorkflows enables cross-source workflow notifications when set
	// to "true".
	ContextWorkflows = "workflows"
	// ContextMaxRetries overrides the retry ceiling for all sources.
	ContextMaxRetries = "max_retries"

	// Per-type override key prefixes, suffixed with the source type name,
	// e.g. "timeout_web" or "max_results_academic".
	contextTimeoutPrefix    = "timeout_"
	contextMaxResultsPrefix = "max_results_"
)

// Builder converts topics into ingestion plans.
type Builder struct {
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a plan builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger: slog.Default().With("component", "plan-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build converts a topic and context into an immutable IngestionPlan with one
// source per connector type, in fixed priority order. It performs no I/O.
func (b *Builder) Build(topic string, planContext map[string]string) (*core.IngestionPlan, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidPlan, core.ErrEmptyTopic)
	}

	terms := extractTerms(topic)
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTerms, topic)
	}
	termsValue := strings.Join(terms, " ")

	if planContext == nil {
		planContext = map[string]string{}
	}

	dedupEnabled, err := contextBool(planContext, ContextDedup, true)
	if err != nil {
		return nil, err
	}
	workflowsEnabled, err := contextBool(planContext, ContextWorkflows, false)
	if err != nil {
		return nil, err
	}

	sources := make([]*core.IngestionSource, 0, len(planOrder))
	for i, sourceType := range planOrder {
		source, err := b.buildSource(sourceType, i+1, termsValue, planContext)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	built := &core.IngestionPlan{
		ID:               uuid.New().String(),
		Topic:            topic,
		Sources:          sources,
		CreatedAt:        time.Now().UTC(),
		DedupEnabled:     dedupEnabled,
		WorkflowsEnabled: workflowsEnabled,
		Context:          planContext,
	}

	if err := core.ValidatePlan(built); err != nil {
		return nil, err
	}

	b.logger.Debug("built ingestion plan",
		"plan_id", built.ID, "topic", topic, "terms", termsValue, "sources", len(sources))
	return built, nil
}

// buildSource instantiates one source descriptor from per-type defaults and
// context overrides.
func (b *Builder) buildSource(sourceType core.SourceType, priority int, terms string, planContext map[string]string) (*core.IngestionSource, error) {
	defaults := typeDefaults[sourceType]

	timeout := defaults.timeout
	if raw, ok := planContext[contextTimeoutPrefix+sourceType.String()]; ok {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: %s%s=%q", ErrMalformedContext, contextTimeoutPrefix, sourceType, raw)
		}
		timeout = parsed
	}

	estimated := defaults.estimatedResults
	if raw, ok := planContext[contextMaxResultsPrefix+sourceType.String()]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: %s%s=%q", ErrMalformedContext, contextMaxResultsPrefix, sourceType, raw)
		}
		estimated = parsed
	}

	maxRetries := defaults.maxRetries
	if raw, ok := planContext[ContextMaxRetries]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrMalformedContext, ContextMaxRetries, raw)
		}
		maxRetries = parsed
	}

	query := map[string]string{
		"terms": terms,
		"limit": strconv.Itoa(estimated),
	}

	// Domain hints only affect the academic source: extra arXiv categories.
	if sourceType == core.SourceTypeAcademic {
		if domain := strings.ToLower(planContext[ContextDomain]); domain != "" {
			if categories, ok := domainCategories[domain]; ok {
				query["categories"] = categories
			}
		}
	}

	return &core.IngestionSource{
		ID:               fmt.Sprintf("%s-%d", sourceType, priority),
		Type:             sourceType,
		Priority:         priority,
		Query:            query,
		EstimatedResults: estimated,
		Timeout:          timeout,
		MaxRetries:       maxRetries,
		Status:           core.StatusPending,
	}, nil
}

// contextBool parses an optional boolean context value.
func contextBool(planContext map[string]string, key string, defaultValue bool) (bool, error) {
	raw, ok := planContext[key]
	if !ok || raw == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrMalformedContext, key, raw)
	}
	return parsed, nil
}
