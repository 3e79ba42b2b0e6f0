package input

import "errors"

// ErrInvalidAnalysis is returned when a file does not match the analysis schema.
var ErrInvalidAnalysis = errors.New("invalid analysis file")
