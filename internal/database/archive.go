package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/impactradar/internal/model"
)

// FileName is the name of the database file inside the archive directory.
const FileName = "impactradar.db"

// storedTimeFormat has a fixed width so timestamps sort as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Archive provides SQLite-based storage for exported analyses.
// Every export is stored as one analysis row plus one row per dimension.
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an Archive in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Path returns the path of the database file.
func (a *Archive) Path() string {
	return a.dbPath
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (a *Archive) createTables() error {
	schema := `
	-- One row per exported analysis
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT NOT NULL UNIQUE,
		company_name TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		severity_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_company ON analyses(company_name);
	CREATE INDEX IF NOT EXISTS idx_analyses_timestamp ON analyses(timestamp);

	-- Scores and notes of each analysis, one row per dimension
	CREATE TABLE IF NOT EXISTS dimension_scores (
		analysis_id INTEGER NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		dimension TEXT NOT NULL,
		score INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (analysis_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_scores_dimension ON dimension_scores(dimension);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// AnalysisRecord contains summary information about a stored analysis.
// This is used for displaying history without loading every dimension.
type AnalysisRecord struct {
	// ID is the row id of the analysis.
	ID int64

	// UUID is the stable identifier handed out when the analysis was saved.
	UUID string

	// CompanyName is the analysed company, empty when none was given.
	CompanyName string

	// Timestamp is the export time supplied by the caller.
	Timestamp time.Time

	// OverallScore is the rounded average of the six scores.
	OverallScore int

	// SeveritySummary counts dimensions per severity label.
	SeveritySummary map[string]int
}

// StoredAnalysis is an analysis loaded back from the archive.
type StoredAnalysis struct {
	Record   AnalysisRecord
	Snapshot *model.Snapshot
}

// SaveAnalysis stores a snapshot taken at the given time and returns its UUID.
// Malformed snapshots are rejected with model.ErrMalformedModel.
func (a *Archive) SaveAnalysis(ctx context.Context, snap *model.Snapshot, at time.Time) (string, error) {
	if err := snap.Validate(); err != nil {
		return "", err
	}

	summary := make(map[string]int, 3)
	for sev, n := range snap.SeverityCounts() {
		summary[sev.String()] = n
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to serialize severity summary: %w", err)
	}

	id := uuid.NewString()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO analyses (uuid, company_name, timestamp, overall_score, severity_summary)
	VALUES (?, ?, ?, ?, ?)
	`,
		id,
		snap.CompanyName,
		at.UTC().Format(storedTimeFormat),
		snap.AverageScore(),
		string(summaryJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	rowID, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to read analysis id: %w", err)
	}

	for i, d := range snap.Dimensions {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO dimension_scores (analysis_id, position, dimension, score, notes)
		VALUES (?, ?, ?, ?, ?)
		`, rowID, i, d.ID.Slug(), d.Score, d.Notes)
		if err != nil {
			return "", fmt.Errorf("failed to save %s score: %w", d.ID.Slug(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit analysis: %w", err)
	}
	return id, nil
}

// ListCompanies returns every company with at least one stored analysis.
func (a *Archive) ListCompanies(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `
	SELECT DISTINCT company_name FROM analyses
	ORDER BY company_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var company string
		if err := rows.Scan(&company); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}

	return companies, rows.Err()
}

// GetHistory returns the analyses of a company, newest first.
func (a *Archive) GetHistory(ctx context.Context, company string) ([]AnalysisRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
	SELECT id, uuid, company_name, timestamp, overall_score, severity_summary
	FROM analyses
	WHERE company_name = ?
	ORDER BY timestamp DESC, id DESC
	`, company)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// GetLatestAnalysis returns the newest analysis of a company, or nil when
// none is stored.
func (a *Archive) GetLatestAnalysis(ctx context.Context, company string) (*StoredAnalysis, error) {
	row := a.db.QueryRowContext(ctx, `
	SELECT id, uuid, company_name, timestamp, overall_score, severity_summary
	FROM analyses
	WHERE company_name = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, company)
	return a.loadAnalysis(ctx, row)
}

// GetAnalysisByID returns an analysis by row id, or nil when it does not exist.
func (a *Archive) GetAnalysisByID(ctx context.Context, id int64) (*StoredAnalysis, error) {
	row := a.db.QueryRowContext(ctx, `
	SELECT id, uuid, company_name, timestamp, overall_score, severity_summary
	FROM analyses
	WHERE id = ?
	`, id)
	return a.loadAnalysis(ctx, row)
}

// GetAnalysisByUUID returns an analysis by UUID, or nil when it does not exist.
func (a *Archive) GetAnalysisByUUID(ctx context.Context, id string) (*StoredAnalysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", id, err)
	}
	row := a.db.QueryRowContext(ctx, `
	SELECT id, uuid, company_name, timestamp, overall_score, severity_summary
	FROM analyses
	WHERE uuid = ?
	`, id)
	return a.loadAnalysis(ctx, row)
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one analyses row.
func scanRecord(row rowScanner) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var timestamp string
	var summaryJSON sql.NullString

	if err := row.Scan(&rec.ID, &rec.UUID, &rec.CompanyName, &timestamp, &rec.OverallScore, &summaryJSON); err != nil {
		return nil, err
	}

	rec.Timestamp = parseTimestamp(timestamp)
	rec.SeveritySummary = make(map[string]int)
	if summaryJSON.Valid && summaryJSON.String != "" {
		if err := json.Unmarshal([]byte(summaryJSON.String), &rec.SeveritySummary); err != nil {
			rec.SeveritySummary = make(map[string]int)
		}
	}
	return &rec, nil
}

// loadAnalysis reads an analyses row and its dimension rows.
func (a *Archive) loadAnalysis(ctx context.Context, row *sql.Row) (*StoredAnalysis, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, `
	SELECT dimension, score, notes
	FROM dimension_scores
	WHERE analysis_id = ?
	ORDER BY position
	`, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dimension scores: %w", err)
	}
	defer rows.Close()

	s := model.NewSession()
	s.SetCompanyName(rec.CompanyName)
	seen := 0
	for rows.Next() {
		var slug, notes string
		var score int
		if err := rows.Scan(&slug, &score, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan dimension score: %w", err)
		}
		id, err := model.ParseDimensionID(slug)
		if err != nil {
			return nil, fmt.Errorf("analysis %d: %w", rec.ID, err)
		}
		if err := s.SetScore(id, score); err != nil {
			return nil, fmt.Errorf("analysis %d: %w", rec.ID, err)
		}
		if err := s.SetNote(id, notes); err != nil {
			return nil, fmt.Errorf("analysis %d: %w", rec.ID, err)
		}
		seen++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if seen != model.DimensionCount {
		return nil, fmt.Errorf("analysis %d: %w: stored %d dimensions", rec.ID, model.ErrMalformedModel, seen)
	}

	return &StoredAnalysis{Record: *rec, Snapshot: s.Snapshot()}, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
