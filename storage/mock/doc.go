// Package mock provides an in-memory test double for storage.CacheStore.
//
// The mock keeps entries in a map and honors TTLs against the wall
// clock, so cache-dependent behavior can be tested without a BadgerDB
// backend or generated serializers.
package mock
