package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "impactradar"

	// DefaultOutputDir is where exports are written when no directory is given.
	DefaultOutputDir = "."

	// DefaultFormat is the export format used when none is requested.
	// The Word document is the primary export of the tool.
	DefaultFormat = "docx"

	// DefaultBatchSize is the number of analysis files exported concurrently.
	// Exports are CPU bound, so a small number is enough.
	DefaultBatchSize = 4

	// DefaultWatchDebounce collapses the burst of write events editors emit
	// when saving a file.
	DefaultWatchDebounce = 300 * time.Millisecond
)

// Config holds all configuration options for impactradar.
// This struct is populated from CLI flags and the optional configuration
// file and passed through the application rather than held in global state.
type Config struct {
	// Inputs are the analysis files to export.
	Inputs []string

	// OutputDir is the directory exports are written to.
	// It is created if it does not exist.
	OutputDir string

	// Formats are the export format names, for example "docx" or "json".
	Formats []string

	// Benchmark overlays the traditional bank reference on charts.
	Benchmark bool

	// Charts embeds charts in structured documents.
	Charts bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of analysis files exported concurrently.
	BatchSize int

	// Watch re-exports inputs whenever they change on disk.
	Watch bool

	// WatchDebounce is the quiet period after a change before re-exporting.
	WatchDebounce time.Duration

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .impactradar in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// DBDir is the directory holding the SQLite archive.
	// Defaults to XDG data directory (~/.local/share/impactradar on Linux).
	DBDir string

	// SaveToDB records every export in the archive.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:     DefaultOutputDir,
		Formats:       []string{DefaultFormat},
		BatchSize:     DefaultBatchSize,
		WatchDebounce: DefaultWatchDebounce,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for impactradar.
// On Linux: ~/.local/share/impactradar
// On macOS: ~/Library/Application Support/impactradar
// On Windows: %LOCALAPPDATA%\impactradar
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for impactradar.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Formats) == 0 {
		return ErrNoFormat
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Watch && c.WatchDebounce < 0 {
		return ErrInvalidWatchDebounce
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
