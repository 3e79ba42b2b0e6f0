// Package model defines the scoring model of the IMPACT radar.
//
// This package contains the following main types:
//   - DimensionSpec: the static description of one of the six dimensions
//   - Session: the mutable scores, notes and company name of one analysis
//   - Snapshot: a read-only copy of a Session consumed by exporters
//   - Severity: the Low/Medium/High bucket of a score
//
// Other packages (report, chart, tui, database) depend on these types, so
// they live in their own package to avoid import cycles.
package model
