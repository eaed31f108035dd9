package plan

import "errors"

var (
	// ErrMalformedContext is returned when a context override value cannot
	// be parsed. Plan building is the only fatal, non-retryable stage.
	ErrMalformedContext = errors.New("malformed plan context")

	// ErrNoTerms is returned when a topic yields no usable search terms.
	ErrNoTerms = errors.New("topic yields no search terms")
)
