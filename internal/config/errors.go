package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() for programmatic handling.
var (
	// ErrNoFormat is returned when no export format is requested.
	ErrNoFormat = errors.New("no export format specified: use --format")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidWatchDebounce is returned when the watch debounce is negative.
	ErrInvalidWatchDebounce = errors.New("invalid watch debounce: must be non-negative")

	// ErrNoDBDir is returned when archiving is enabled without a database directory.
	ErrNoDBDir = errors.New("archive enabled but no database directory specified")
)
