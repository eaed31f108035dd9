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


package connector

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies connector failures for retry decisions.
type ErrorKind int

const (
	// ErrorKindNetwork is a transient transport failure; retryable.
	ErrorKindNetwork ErrorKind = iota + 1
	// ErrorKindRateLimit means the remote source throttled us; retryable.
	ErrorKindRateLimit
	// ErrorKindValidation means the query itself is malformed; never retried.
	ErrorKindValidation
	// ErrorKindTimeout means the fetch exceeded its deadline; terminal for
	// the source within the current execution.
	ErrorKindTimeout
	// ErrorKindUnknown is an unclassified failure; retried once, then terminal.
	ErrorKindUnknown
)

// String returns the canonical uppercase name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNetwork:
		return "NETWORK"
	case ErrorKindRateLimit:
		return "RATE_LIMIT"
	case ErrorKindValidation:
		return "VALIDATION"
	case ErrorKindTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// FetchError is the typed error connectors return from Fetch.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the executor should retry after this error.
// Unknown errors report false here; the executor grants them a single retry
// before treating them as terminal.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case ErrorKindNetwork, ErrorKindRateLimit:
		return true
	default:
		return false
	}
}

// NewNetworkError wraps a transient transport failure.
func NewNetworkError(message string, err error) *FetchError {
	return &FetchError{Kind: ErrorKindNetwork, Message: message, Err: err}
}

// NewRateLimitError wraps a throttling response from the remote source.
func NewRateLimitError(message string, err error) *FetchError {
	return &FetchError{Kind: ErrorKindRateLimit, Message: message, Err: err}
}

// NewValidationError wraps a malformed-query failure.
func NewValidationError(message string, err error) *FetchError {
	return &FetchError{Kind: ErrorKindValidation, Message: message, Err: err}
}

// NewTimeoutError wraps a deadline failure.
func NewTimeoutError(message string, err error) *FetchError {
	return &FetchError{Kind: ErrorKindTimeout, Message: message, Err: err}
}

// FromHTTPStatus classifies a non-success HTTP status into a FetchError.
// 429 maps to rate limiting, other 4xx to validation, everything else to a
// transient network failure.
func FromHTTPStatus(status int, message string) *FetchError {
	switch {
	case status == 429:
		return NewRateLimitError(fmt.Sprintf("%s: status %d", message, status), nil)
	case status >= 400 && status < 500:
		return NewValidationError(fmt.Sprintf("%s: status %d", message, status), nil)
	default:
		return NewNetworkError(fmt.Sprintf("%s: status %d", message, status), nil)
	}
}

// KindOf classifies an arbitrary error returned by a connector.
// Context deadline and cancellation errors map to ErrorKindTimeout; typed
// *FetchError values report their own kind; everything else is unknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorKindTimeout
	}

	return ErrorKindUnknown
}
