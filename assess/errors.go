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

package assess

import "errors"

var (
	// ErrMissingHost indicates the scoring service host was not configured.
	ErrMissingHost = errors.New("assess config: Host is required")

	// ErrMissingModel indicates the scoring model was not configured.
	ErrMissingModel = errors.New("assess config: Model is required")

	// ErrInvalidContentCap indicates a non-positive content truncation cap.
	ErrInvalidContentCap = errors.New("assess config: MaxContentChars must be positive")

	// ErrMalformedResponse indicates the model returned output that could
	// not be parsed as a score after all parse retries.
	ErrMalformedResponse = errors.New("malformed assessor response")

	// ErrScoreOutOfRange indicates the model returned a score outside [0, 1].
	ErrScoreOutOfRange = errors.New("assessor score out of range")
)
