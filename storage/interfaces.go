package storage

import (
	"context"
	"time"

	"github.com/poiesic/harvest/core"
)

// CacheStore provides TTL-bounded storage of fetched source results, keyed by
// namespace (the source type name) and query fingerprint.
// Implementations must be thread-safe and support concurrent access.
type CacheStore interface {
	// Get returns the envelope stored under (namespace, key).
	// Returns ErrNotFound if the entry is absent or past its TTL.
	Get(ctx context.Context, namespace string, key core.Fingerprint) (*core.CacheEnvelope, error)

	// Set stores an envelope under (namespace, key) with the given TTL.
	// Overwrites any existing entry; writes for the same key are idempotent
	// so last-writer-wins is acceptable.
	Set(ctx context.Context, namespace string, key core.Fingerprint, envelope *core.CacheEnvelope, ttl time.Duration) error

	// Exists reports whether a live entry is stored under (namespace, key).
	Exists(ctx context.Context, namespace string, key core.Fingerprint) (bool, error)

	// Clear removes all cache entries across all namespaces.
	Clear(ctx context.Context) error

	// Stats returns backend statistics for the health surface.
	Stats(ctx context.Context) (CacheStats, error)

	// Close closes the cache and releases resources.
	Close() error
}

// CacheStats describes the cache backend's current footprint.
type CacheStats struct {
	// Entries is the number of live cache entries.
	Entries int
	// LSMBytes and ValueLogBytes are the backend's on-disk sizes; zero for
	// in-memory backends.
	LSMBytes      int64
	ValueLogBytes int64
}

// TTLPolicy maps source types to cache lifetimes. Slow-changing content
// (academic papers) is kept longer than live web pages.
type TTLPolicy map[core.SourceType]time.Duration

// DefaultTTLPolicy returns the standard per-type cache lifetimes.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		core.SourceTypeWeb:        15 * time.Minute,
		core.SourceTypeAcademic:   24 * time.Hour,
		core.SourceTypeLiterature: 12 * time.Hour,
	}
}

// defaultTTL bounds entries for source types the policy doesn't name.
const defaultTTL = time.Hour

// For returns the TTL for a source type, falling back to a one-hour default.
func (p TTLPolicy) For(sourceType core.SourceType) time.Duration {
	if ttl, ok := p[sourceType]; ok && ttl > 0 {
		return ttl
	}
	return defaultTTL
}
