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
	"math/rand/v2"
	"time"
)

// backoffDelay computes the sleep before retry number attempt (0-based):
// base * 2^attempt plus jitter of up to half the base delay. Jitter
// keeps concurrent sources hitting the same rate-limited backend from
// retrying in lockstep.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return delay + jitter
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
// Returns the context error when interrupted.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
