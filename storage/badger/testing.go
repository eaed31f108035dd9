package badger

import (
	"log/slog"

	"github.com/poiesic/harvest/storage"
)

// NewInMemoryCache creates a cache store backed by an in-memory
// BadgerDB instance. Intended for tests.
func NewInMemoryCache() (storage.CacheStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return NewCache(backend, slog.Default()), nil
}
