package tui

import "errors"

// ErrNoExporter is reported when export is requested but no exporter is set.
var ErrNoExporter = errors.New("export is not configured")
