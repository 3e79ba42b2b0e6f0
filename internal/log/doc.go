// Package log provides secure logging built on top of the standard slog
// package.
//
// The SecureHandler masks attribute values that carry analysis content:
// company names, notes and evidence. String values are reduced to their
// length, so a log line still shows whether a note was filled in without
// revealing it. Even in verbose mode this content is never written out.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("note updated",
//	    "dimension", "integration",
//	    "notes", text, // logged as "[42 chars]"
//	)
//	slog.SetDefault(logger)
package log
