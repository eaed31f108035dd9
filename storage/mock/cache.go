package mock

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/harvest/core"
	"github.com/poiesic/harvest/storage"
)

type entry struct {
	envelope  core.CacheEnvelope
	expiresAt time.Time
}

type cacheKey struct {
	namespace string
	key       core.Fingerprint
}

// Cache is an in-memory test double for storage.CacheStore.
// It honors TTLs against the wall clock and allows custom behavior
// injection via function fields. Safe for concurrent use.
type Cache struct {
	// GetFunc and SetFunc, if set, replace the default map-backed behavior.
	GetFunc func(ctx context.Context, namespace string, key core.Fingerprint) (*core.CacheEnvelope, error)
	SetFunc func(ctx context.Context, namespace string, key core.Fingerprint, envelope *core.CacheEnvelope, ttl time.Duration) error

	mu       sync.Mutex
	entries  map[cacheKey]entry
	getCalls int
	setCalls int
	closed   bool
}

var _ storage.CacheStore = (*Cache)(nil)

// NewCache creates an empty in-memory cache store.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]entry)}
}

func (c *Cache) Get(ctx context.Context, namespace string, key core.Fingerprint) (*core.CacheEnvelope, error) {
	c.mu.Lock()
	c.getCalls++
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, storage.ErrStorageClosed
	}

	if c.GetFunc != nil {
		return c.GetFunc(ctx, namespace, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey{namespace, key}]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, storage.ErrNotFound
	}
	envelope := copyEnvelope(&e.envelope)
	return &envelope, nil
}

func (c *Cache) Set(ctx context.Context, namespace string, key core.Fingerprint, envelope *core.CacheEnvelope, ttl time.Duration) error {
	c.mu.Lock()
	c.setCalls++
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return storage.ErrStorageClosed
	}
	if ttl <= 0 {
		return storage.ErrInvalidTTL
	}

	if c.SetFunc != nil {
		return c.SetFunc(ctx, namespace, key, envelope, ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{namespace, key}] = entry{
		envelope:  copyEnvelope(envelope),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// copyEnvelope detaches the stored value from the caller's items,
// matching the serialize-on-write behavior of the real backend.
func copyEnvelope(envelope *core.CacheEnvelope) core.CacheEnvelope {
	out := core.CacheEnvelope{
		Items:     make([]core.ContentItem, len(envelope.Items)),
		WrittenAt: envelope.WrittenAt,
	}
	for i, item := range envelope.Items {
		item.Tags = slices.Clone(item.Tags)
		item.Metadata = maps.Clone(item.Metadata)
		out.Items[i] = item
	}
	return out
}

func (c *Cache) Exists(ctx context.Context, namespace string, key core.Fingerprint) (bool, error) {
	_, err := c.Get(ctx, namespace, key)
	if err != nil {
		if err == storage.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return storage.ErrStorageClosed
	}
	c.entries = make(map[cacheKey]entry)
	return nil
}

func (c *Cache) Stats(ctx context.Context) (storage.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return storage.CacheStats{}, storage.ErrStorageClosed
	}
	return storage.CacheStats{Entries: len(c.entries)}, nil
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// GetCalls returns how many times Get was called.
func (c *Cache) GetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls
}

// SetCalls returns how many times Set was called.
func (c *Cache) SetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCalls
}
