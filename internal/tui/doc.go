// Package tui implements the interactive scoring editor.
//
// The editor shows a company name input, one slider per IMPACT dimension
// and a notes area with the challenge prompts of the focused dimension.
// Scores move in steps of 1 with the arrow keys and 10 with shift or
// page up/down, and are clamped to [0, 100]. Exports are delegated to an
// Exporter supplied by the caller.
package tui
