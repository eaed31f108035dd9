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
	"errors"
	"time"

	"github.com/poiesic/harvest/connector"
	"github.com/poiesic/harvest/core"
	"github.com/poiesic/harvest/storage"
)

// sourceOutcome is the task-local record of a single source's run.
// All fields are written by exactly one worker goroutine and read only
// after the pool join.
type sourceOutcome struct {
	source   *core.IngestionSource
	items    []*core.ContentItem
	status   core.SourceStatus
	err      error
	cacheHit bool
	retries  int
}

// runSource executes one source end to end: cache lookup, connector
// fetch with retry and backoff, cache write-back. The source's timeout
// bounds the whole loop including backoff sleeps.
func (o *Orchestrator) runSource(ctx context.Context, source *core.IngestionSource, conn connector.Connector) sourceOutcome {
	source.Status = core.StatusInProgress

	ctx, cancel := context.WithTimeout(ctx, source.Timeout)
	defer cancel()

	outcome := sourceOutcome{source: source}
	namespace := source.Type.String()
	key := core.QueryFingerprint(source.Type, source.Query)

	if envelope, err := o.cache.Get(ctx, namespace, key); err == nil {
		outcome.items = itemsFromEnvelope(envelope, source.ID)
		outcome.status = core.StatusCompleted
		outcome.cacheHit = true
		source.Status = outcome.status
		o.logger.Debug("source served from cache", "source", source.ID, "items", len(outcome.items))
		return outcome
	} else if !errors.Is(err, storage.ErrNotFound) {
		// A broken cache degrades to fetching, never fails the source.
		o.logger.Warn("cache lookup failed", "source", source.ID, "err", err)
	}

	unknownRetried := false
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			outcome.retries++
		}

		items, err := conn.Fetch(ctx, source.Query)
		if err == nil {
			for _, item := range items {
				tagSource(item, source.ID)
			}
			outcome.items = items
			outcome.status = core.StatusCompleted
			o.writeBack(ctx, namespace, key, source.Type, items)
			break
		}
		outcome.err = err

		if ctx.Err() != nil || connector.KindOf(err) == connector.ErrorKindTimeout {
			outcome.status = core.StatusTimedOut
			break
		}

		switch kind := connector.KindOf(err); kind {
		case connector.ErrorKindNetwork, connector.ErrorKindRateLimit:
			if attempt >= source.MaxRetries {
				outcome.status = core.StatusFailed
			}
		case connector.ErrorKindUnknown:
			// Unclassified failures get a single retry.
			if unknownRetried || attempt >= source.MaxRetries {
				outcome.status = core.StatusFailed
			}
			unknownRetried = true
		default:
			// Validation errors never heal on retry.
			outcome.status = core.StatusFailed
		}
		if outcome.status == core.StatusFailed {
			break
		}

		delay := backoffDelay(o.retryBase, attempt)
		o.logger.Debug("source fetch failed, will retry",
			"source", source.ID,
			"attempt", attempt+1,
			"backoff", delay,
			"err", err)
		if err := sleepContext(ctx, delay); err != nil {
			outcome.status = core.StatusTimedOut
			break
		}
	}

	source.Status = outcome.status
	return outcome
}

// writeBack stores freshly fetched items in the cache. Best effort: a
// failed write is logged and the items are still returned.
func (o *Orchestrator) writeBack(ctx context.Context, namespace string, key core.Fingerprint, sourceType core.SourceType, items []*core.ContentItem) {
	envelope := &core.CacheEnvelope{
		Items:     make([]core.ContentItem, len(items)),
		WrittenAt: time.Now().UTC(),
	}
	for i, item := range items {
		envelope.Items[i] = *item
	}
	if err := o.cache.Set(ctx, namespace, key, envelope, o.ttl.For(sourceType)); err != nil {
		o.logger.Warn("cache write failed", "namespace", namespace, "err", err)
	}
}

// itemsFromEnvelope converts cached value items to the pointer form the
// pipeline works with, tagging each with the source it now serves.
func itemsFromEnvelope(envelope *core.CacheEnvelope, sourceID string) []*core.ContentItem {
	items := make([]*core.ContentItem, len(envelope.Items))
	for i := range envelope.Items {
		item := envelope.Items[i]
		tagSource(&item, sourceID)
		items[i] = &item
	}
	return items
}

// tagSource records which plan source produced an item.
func tagSource(item *core.ContentItem, sourceID string) {
	if item.Metadata == nil {
		item.Metadata = make(map[string]string, 1)
	}
	item.Metadata[core.MetadataSourceID] = sourceID
}
