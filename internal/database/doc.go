// Package database provides the SQLite archive of exported analyses.
//
// The Archive stores:
//   - One analysis row per export with its UUID, company and overall score
//   - The score and notes of every dimension of that export
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver, so the
// archive is a single file in the XDG data directory. Archiving is opt-in.
package database
