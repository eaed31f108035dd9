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
	"time"

	"github.com/poiesic/harvest/core"
)

// runStats accumulates per-source outcomes before result assembly.
type runStats struct {
	completed   int
	failed      int
	cacheHits   int
	retries     int
	errors      []core.SourceError
	scoredItems int
	scoreTotal  float64
	duplicates  int
}

// assemble builds the final IngestionResult from source outcomes and
// the post-processed item set. This step never fails; missing inputs
// degrade the derived metrics to zero rather than erroring.
func assemble(plan *core.IngestionPlan, items []*core.ContentItem, stats runStats, elapsed time.Duration) *core.IngestionResult {
	result := &core.IngestionResult{
		PlanID:            plan.ID,
		Success:           stats.completed > 0,
		Items:             items,
		SourcesAttempted:  len(plan.Sources),
		SourcesCompleted:  stats.completed,
		SourcesFailed:     stats.failed,
		ExecutionTime:     elapsed,
		Errors:            stats.errors,
		DuplicatesRemoved: stats.duplicates,
		CacheHits:         stats.cacheHits,
		RetryAttempts:     stats.retries,
	}

	result.Metrics.ScoredItems = stats.scoredItems
	if stats.scoredItems > 0 {
		result.Metrics.AverageQuality = stats.scoreTotal / float64(stats.scoredItems)
	}
	if len(items) > 0 {
		types := make(map[core.SourceType]struct{}, 3)
		for _, item := range items {
			types[item.SourceType] = struct{}{}
		}
		result.Metrics.ContentDiversity = float64(len(types)) / float64(len(items))
	}
	if len(plan.Sources) > 0 {
		result.Metrics.CacheHitRate = float64(stats.cacheHits) / float64(len(plan.Sources))
	}

	return result
}
