package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nao1215/impactradar/internal/input"
	"github.com/nao1215/impactradar/internal/model"
	"github.com/nao1215/impactradar/internal/report"
)

// ErrNoSnapshot is returned by steps that need a loaded analysis when the
// job has none.
var ErrNoSnapshot = errors.New("no analysis loaded")

// ErrOutputConflict is returned when two inputs of one run would write the
// same export file.
var ErrOutputConflict = errors.New("export file already written by another analysis")

// OutputClaims records which input owns each export path during a run.
// It is safe for concurrent use and is shared by the export steps of all
// pipelines of a batch.
type OutputClaims struct {
	mu     sync.Mutex
	owners map[string]string
}

// NewOutputClaims creates an empty OutputClaims.
func NewOutputClaims() *OutputClaims {
	return &OutputClaims{owners: make(map[string]string)}
}

// Claim reserves every path for source. It claims nothing and returns
// ErrOutputConflict when any path is owned by a different source.
// Claiming a path again for the same source succeeds.
func (c *OutputClaims) Claim(source string, paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range paths {
		if owner, ok := c.owners[p]; ok && owner != source {
			return fmt.Errorf("%w: %s is the export of %s", ErrOutputConflict, p, owner)
		}
	}
	for _, p := range paths {
		c.owners[p] = source
	}
	return nil
}

// LoadStep reads and validates the analysis file of a job.
type LoadStep struct{}

// NewLoadStep creates a LoadStep.
func NewLoadStep() *LoadStep {
	return &LoadStep{}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads job.Path into job.Session and job.Snapshot.
func (s *LoadStep) Do(_ context.Context, job *Job) error {
	session, err := input.Load(job.Path)
	if err != nil {
		return err
	}
	job.Session = session
	job.Snapshot = session.Snapshot()
	return nil
}

// ExportStep writes the snapshot of a job in every configured format.
type ExportStep struct {
	dir     string
	formats []report.Format
	opts    report.ExportOptions
	now     func() time.Time
	claims  *OutputClaims
}

// ExportOption configures an ExportStep.
type ExportOption func(*ExportStep)

// WithExportOptions sets chart and benchmark options.
func WithExportOptions(opts report.ExportOptions) ExportOption {
	return func(s *ExportStep) {
		s.opts = opts
	}
}

// WithClock sets the time source for export timestamps.
// It is only used when the export options carry no timestamp.
func WithClock(now func() time.Time) ExportOption {
	return func(s *ExportStep) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOutputClaims makes the step refuse to overwrite exports claimed by
// another input.
func WithOutputClaims(claims *OutputClaims) ExportOption {
	return func(s *ExportStep) {
		s.claims = claims
	}
}

// NewExportStep creates an ExportStep writing to dir.
func NewExportStep(dir string, formats []report.Format, opts ...ExportOption) *ExportStep {
	s := &ExportStep{
		dir:     dir,
		formats: formats,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do writes one file per format and records the paths in job.Outputs.
func (s *ExportStep) Do(_ context.Context, job *Job) error {
	if job.Snapshot == nil {
		return ErrNoSnapshot
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := s.opts
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = s.now()
	}

	paths := make([]string, len(s.formats))
	for i, f := range s.formats {
		paths[i] = filepath.Join(s.dir, report.FileName(job.Snapshot.CompanyName, f))
	}
	if s.claims != nil {
		if err := s.claims.Claim(job.Path, paths...); err != nil {
			return err
		}
	}

	for i, f := range s.formats {
		if err := writeExport(paths[i], f, job.Snapshot, opts); err != nil {
			return err
		}
		job.Outputs = append(job.Outputs, paths[i])
	}
	return nil
}

// writeExport renders into a temporary file and renames it into place, so
// readers never see a partial document.
func writeExport(path string, f report.Format, snap *model.Snapshot, opts report.ExportOptions) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".impactradar-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w, err := report.NewWriter(f, tmp, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(snap); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil { //nolint:gosec // Exports are meant to be shared
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Saver stores snapshots. *database.Archive implements it.
type Saver interface {
	SaveAnalysis(ctx context.Context, snap *model.Snapshot, at time.Time) (string, error)
}

// ArchiveStep records the snapshot of a job in the archive.
type ArchiveStep struct {
	saver Saver
	now   func() time.Time
}

// NewArchiveStep creates an ArchiveStep. A nil clock means time.Now.
func NewArchiveStep(saver Saver, now func() time.Time) *ArchiveStep {
	if now == nil {
		now = time.Now
	}
	return &ArchiveStep{saver: saver, now: now}
}

// Name returns the step name.
func (s *ArchiveStep) Name() string {
	return "archive"
}

// Do saves job.Snapshot and records the archive id.
func (s *ArchiveStep) Do(ctx context.Context, job *Job) error {
	if job.Snapshot == nil {
		return ErrNoSnapshot
	}
	id, err := s.saver.SaveAnalysis(ctx, job.Snapshot, s.now())
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", job.Path, err)
	}
	job.ArchiveID = id
	return nil
}
