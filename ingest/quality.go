package ingest

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/poiesic/harvest/assess"
	"github.com/poiesic/harvest/core"
)

// annotate runs the quality gate: every item is scored by the assessor
// and the score attached under core.MetadataQualityScore. Items are
// never dropped here. A failed assessment leaves that item unscored and
// the batch continues. Returns the number of items that got a score and
// the sum of their scores.
func annotate(ctx context.Context, assessor assess.Assessor, topic string, items []*core.ContentItem, logger *slog.Logger) (scored int, total float64) {
	for _, item := range items {
		score, err := assessor.Score(ctx, topic, item.Title, item.Content)
		if err != nil {
			logger.Warn("quality assessment failed",
				"title", item.Title,
				"source", item.SourceName,
				"err", err)
			continue
		}
		if item.Metadata == nil {
			item.Metadata = make(map[string]string, 1)
		}
		item.Metadata[core.MetadataQualityScore] = strconv.FormatFloat(score, 'f', 4, 64)
		scored++
		total += score
	}
	return scored, total
}
