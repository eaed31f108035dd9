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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPlan indicates an IngestionPlan failed validation.
	ErrInvalidPlan = errors.New("invalid ingestion plan")

	// ErrInvalidSource indicates an IngestionSource failed validation.
	ErrInvalidSource = errors.New("invalid ingestion source")

	// ErrEmptyTopic indicates the plan topic is empty.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrNoSources indicates a plan contains no sources.
	ErrNoSources = errors.New("plan must contain at least one source")

	// ErrEmptySourceID indicates the source ID field is empty.
	ErrEmptySourceID = errors.New("source id cannot be empty")

	// ErrDuplicateSourceID indicates two plan sources share an ID.
	ErrDuplicateSourceID = errors.New("source ids must be unique within a plan")

	// ErrInvalidSourceType indicates an unrecognized SourceType value.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrInvalidTimeout indicates a non-positive source timeout.
	ErrInvalidTimeout = errors.New("source timeout must be positive")

	// ErrNegativeRetries indicates a negative max retry count.
	ErrNegativeRetries = errors.New("max retries cannot be negative")
)
