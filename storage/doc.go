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


// Package storage provides the cache abstraction layer for harvest.
//
// This package defines the CacheStore interface that decouples the
// orchestrator from the cache implementation. It allows for different
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a "return interface" pattern for public constructors
// to enforce abstraction and enable multiple backend implementations:
//
//	cache, err := badger.NewCache(backend)  // returns storage.CacheStore interface
//
// # TTL Semantics
//
// Every cache write carries a TTL chosen by the TTLPolicy for the source
// type. Entries past their TTL are never returned; the backend is free to
// evict early under memory pressure.
//
// # Thread Safety
//
// All implementations must be thread-safe: the executor performs concurrent
// get/set with no cross-key coordination. Last-writer-wins on identical keys
// is acceptable because writes are idempotent for a given query.
package storage
