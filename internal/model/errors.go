package model

import "errors"

// Scoring errors. They are wrapped with context by the operation that
// detects them, so callers should match them with errors.Is.
var (
	// ErrInvalidDimension is returned when a dimension id or slug does not
	// name one of the six IMPACT dimensions.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrOutOfRange is returned when a score lies outside [0, 100].
	ErrOutOfRange = errors.New("score out of range: must be between 0 and 100")

	// ErrMalformedModel is returned by exporters when a snapshot does not
	// hold exactly the six dimensions in declaration order.
	ErrMalformedModel = errors.New("malformed model")
)
