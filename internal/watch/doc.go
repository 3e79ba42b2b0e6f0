// Package watch re-runs work when analysis files change on disk.
package watch
