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

import (
	"fmt"
)

// ValidatePlan validates an IngestionPlan according to domain rules.
//
// Validation rules:
//   - Topic must not be empty
//   - The plan must contain at least one source
//   - Source IDs must be unique within the plan
//   - Every source must pass ValidateSource
//
// NOT validated (populated by the executor):
//   - Source Status (zero value is treated as pending)
func ValidatePlan(plan *IngestionPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", ErrInvalidPlan)
	}

	if plan.Topic == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, ErrEmptyTopic)
	}

	if len(plan.Sources) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, ErrNoSources)
	}

	seen := make(map[string]bool, len(plan.Sources))
	for _, source := range plan.Sources {
		if err := ValidateSource(source); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
		}
		if seen[source.ID] {
			return fmt.Errorf("%w: %w: %q", ErrInvalidPlan, ErrDuplicateSourceID, source.ID)
		}
		seen[source.ID] = true
	}

	return nil
}

// ValidateSource validates an IngestionSource according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Type must be a known SourceType
//   - Timeout must be positive
//   - MaxRetries must not be negative
func ValidateSource(source *IngestionSource) error {
	if source == nil {
		return fmt.Errorf("%w: source is nil", ErrInvalidSource)
	}

	if source.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSource, ErrEmptySourceID)
	}

	if err := ValidateSourceType(source.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	if source.Timeout <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSource, ErrInvalidTimeout)
	}

	if source.MaxRetries < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSource, ErrNegativeRetries)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a valid value.
func ValidateSourceType(sourceType SourceType) error {
	switch sourceType {
	case SourceTypeWeb, SourceTypeAcademic, SourceTypeLiterature:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSourceType, sourceType)
	}
}
