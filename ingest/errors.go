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

import "errors"

var (
	// ErrCacheRequired indicates the orchestrator was constructed without a cache store.
	ErrCacheRequired = errors.New("cache store is required")

	// ErrNoConnectors indicates the orchestrator was constructed with no connectors.
	ErrNoConnectors = errors.New("at least one connector is required")

	// ErrDuplicateConnector indicates two connectors registered the same source type.
	ErrDuplicateConnector = errors.New("duplicate connector for source type")

	// ErrNoConnectorForType indicates a plan references a source type with no
	// registered connector. Caught at execute time, before any fetching.
	ErrNoConnectorForType = errors.New("no connector registered for source type")

	// ErrReleased indicates the orchestrator was used after Release.
	ErrReleased = errors.New("orchestrator released")

	// ErrInvalidConcurrency indicates a non-positive worker bound.
	ErrInvalidConcurrency = errors.New("max concurrent sources must be positive")
)
