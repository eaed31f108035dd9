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

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/poiesic/harvest/core"
	"github.com/poiesic/harvest/storage"
)

// Cache is a BadgerDB-backed cache store. Expiry is delegated to
// Badger's native entry TTLs, so expired entries surface as not-found
// without any sweeping on our side.
type Cache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.CacheStore = (*Cache)(nil)

// NewCache creates a cache store on top of an open backend.
func NewCache(backend *Backend, logger *slog.Logger) storage.CacheStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		backend: backend,
		logger:  logger.With("component", "badger-cache"),
	}
}

func (c *Cache) Get(ctx context.Context, namespace string, key core.Fingerprint) (*core.CacheEnvelope, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var envelope *core.CacheEnvelope
	err := c.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(cacheKey(namespace, key))
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			envelope, err = storage.UnmarshalCacheEnvelope(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("cache hit", "namespace", namespace, "key", fmt.Sprintf("%016x", uint64(key)), "items", len(envelope.Items))
	return envelope, nil
}

func (c *Cache) Set(ctx context.Context, namespace string, key core.Fingerprint, envelope *core.CacheEnvelope, ttl time.Duration) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: %s", storage.ErrInvalidTTL, ttl)
	}

	data := storage.MarshalCacheEnvelope(envelope)

	return c.backend.WithTx(func(tx *badgerdb.Txn) error {
		entry := badgerdb.NewEntry(cacheKey(namespace, key), data).WithTTL(ttl)
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (c *Cache) Exists(ctx context.Context, namespace string, key core.Fingerprint) (bool, error) {
	if c.backend.IsClosed() {
		return false, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	err := c.backend.WithTx(func(tx *badgerdb.Txn) error {
		_, err := tx.Get(cacheKey(namespace, key))
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

func (c *Cache) Clear(ctx context.Context) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.logger.Info("clearing cache")
	return c.backend.DropAll()
}

func (c *Cache) Stats(ctx context.Context) (storage.CacheStats, error) {
	if c.backend.IsClosed() {
		return storage.CacheStats{}, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return storage.CacheStats{}, err
	}

	stats := storage.CacheStats{}
	stats.LSMBytes, stats.ValueLogBytes = c.backend.Size()

	err := c.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(cacheKeyPrefix)
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			stats.Entries++
		}
		return nil
	}, false)
	if err != nil {
		return storage.CacheStats{}, err
	}
	return stats, nil
}

func (c *Cache) Close() error {
	return c.backend.Close()
}
