package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/impactradar/internal/config"
	"github.com/nao1215/impactradar/internal/database"
	"github.com/nao1215/impactradar/internal/pipeline"
	"github.com/nao1215/impactradar/internal/report"
	"github.com/nao1215/impactradar/internal/watch"
)

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <analysis.yaml>...",
		Short: "Export analysis files as reports",
		Long: `Score loads one or more analysis files and exports each of them in the
requested formats. Several files are exported concurrently.

Supported formats:
  docx      Word document (default)
  markdown  Markdown document with an optional Mermaid radar chart
  json      Machine-readable scores and notes
  text      Plain text summary
  svg       Radar chart

Examples:
  # Export a Word document to the current directory
  impactradar score acme.yaml

  # Export several formats for every analysis in a directory
  impactradar score -f docx,markdown,json -o reports analyses/*.yaml

  # Overlay the traditional bank benchmark and embed charts
  impactradar score --benchmark --charts acme.yaml

  # Re-export whenever the file changes
  impactradar score --watch acme.yaml

  # Record every export in the local archive
  impactradar score --archive acme.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScoreCmd,
	}

	addExportFlags(cmd)

	cmd.Flags().IntP("batch-size", "n", config.DefaultBatchSize,
		"Number of analysis files exported concurrently")
	cmd.Flags().BoolP("watch", "w", false,
		"Re-export files whenever they change")
	cmd.Flags().Duration("debounce", config.DefaultWatchDebounce,
		"Quiet period before re-exporting a changed file")

	return cmd
}

// addExportFlags registers the flags shared by score and edit.
func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory to write exports to (created if needed)")
	cmd.Flags().StringSliceP("format", "f", []string{config.DefaultFormat},
		"Export formats: docx, markdown, json, text, svg")
	cmd.Flags().BoolP("benchmark", "b", false,
		"Overlay the traditional bank benchmark on charts")
	cmd.Flags().Bool("charts", false,
		"Embed radar and severity charts in Markdown and Word exports")
	cmd.Flags().BoolP("archive", "a", false,
		"Record each export in the local SQLite archive")
	cmd.Flags().String("db-dir", "",
		"Archive directory (default: XDG data directory)")
}

// runScoreCmd executes the score command.
func runScoreCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScoreConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScore(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildExportConfig reads the flags registered by addExportFlags.
func buildExportConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Formats, err = cmd.Flags().GetStringSlice("format"); err != nil {
		return nil, err
	}
	if cfg.Benchmark, err = cmd.Flags().GetBool("benchmark"); err != nil {
		return nil, err
	}
	if cfg.Charts, err = cmd.Flags().GetBool("charts"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = cmd.Flags().GetBool("archive"); err != nil {
		return nil, err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	return cfg, nil
}

// buildScoreConfig creates a Config from the score command flags and the
// configuration file.
func buildScoreConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildExportConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch-size"); err != nil {
		return nil, err
	}
	if cfg.Watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return nil, err
	}
	if cfg.WatchDebounce, err = cmd.Flags().GetDuration("debounce"); err != nil {
		return nil, err
	}

	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Inputs = args
	return cfg, nil
}

// parseFormats resolves format names, dropping duplicates.
func parseFormats(names []string) ([]report.Format, error) {
	seen := make(map[report.Format]bool, len(names))
	formats := make([]report.Format, 0, len(names))
	for _, name := range names {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// exporter builds export pipelines from a Config.
type exporter struct {
	cfg     *config.Config
	formats []report.Format
	archive *database.Archive
	logger  *slog.Logger
	now     func() time.Time
	claims  *pipeline.OutputClaims
}

// newExporter resolves formats and opens the archive when it is enabled.
// The caller must call close.
func newExporter(cfg *config.Config, logger *slog.Logger) (*exporter, error) {
	formats, err := parseFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}

	e := &exporter{
		cfg:     cfg,
		formats: formats,
		logger:  logger,
		now:     time.Now,
		claims:  pipeline.NewOutputClaims(),
	}

	if cfg.SaveToDB {
		e.archive, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		logger.Info("archive opened", "path", e.archive.Path())
	}
	return e, nil
}

func (e *exporter) close() error {
	if e.archive == nil {
		return nil
	}
	return e.archive.Close()
}

// exportSteps returns the export and archive steps for the given benchmark
// setting.
func (e *exporter) exportSteps(benchmark bool) []pipeline.Step {
	steps := []pipeline.Step{
		pipeline.NewExportStep(e.cfg.OutputDir, e.formats,
			pipeline.WithExportOptions(report.ExportOptions{
				Benchmark: benchmark,
				Charts:    e.cfg.Charts,
			}),
			pipeline.WithClock(e.now),
			pipeline.WithOutputClaims(e.claims),
		),
	}
	if e.archive != nil {
		steps = append(steps, pipeline.NewArchiveStep(e.archive, e.now))
	}
	return steps
}

// filePipeline returns a pipeline that loads an analysis file and exports it.
func (e *exporter) filePipeline() *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(e.logger))
	p.AddStep(pipeline.NewLoadStep())
	p.AddSteps(e.exportSteps(e.cfg.Benchmark)...)
	return p
}

// runScore exports every input once and then, in watch mode, again on
// every change until ctx is cancelled.
func runScore(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("no analysis files provided")
	}

	logger.Info("starting export",
		"files", len(cfg.Inputs),
		"formats", strings.Join(cfg.Formats, ","),
		"batch_size", cfg.BatchSize,
		"archive", cfg.SaveToDB,
	)

	e, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.close(); err != nil {
			logger.Error("failed to close archive", "error", err)
		}
	}()

	failed, err := runBatchExport(ctx, e, cfg, logger, out)
	if err != nil {
		return err
	}

	if cfg.Watch {
		return runWatch(ctx, e, cfg, logger, out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analysis files failed to export", failed, len(cfg.Inputs))
	}
	return nil
}

// runBatchExport exports all inputs and prints one line per file.
// It returns the number of failed files.
func runBatchExport(ctx context.Context, e *exporter, cfg *config.Config, logger *slog.Logger, out io.Writer) (int, error) {
	bp := pipeline.NewBatchProcessor(
		e.filePipeline,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	failed := 0
	err := bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(job *pipeline.Job, index int) {
		mu.Lock()
		defer mu.Unlock()

		prefix := fmt.Sprintf("[%d/%d]", index+1, len(cfg.Inputs))
		if job.Err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", prefix, job.Path, job.Err)
			return
		}
		printJob(out, prefix, job)
	})
	return failed, err
}

// printJob prints the outputs of a finished job.
func printJob(out io.Writer, prefix string, job *pipeline.Job) {
	fmt.Fprintf(out, "%s %s\n", prefix, job.Path)
	for _, path := range job.Outputs {
		fmt.Fprintf(out, "      -> %s\n", path)
	}
	if job.ArchiveID != "" {
		fmt.Fprintf(out, "      archived as %s\n", job.ArchiveID)
	}
}

// runWatch re-exports a file each time it changes.
func runWatch(ctx context.Context, e *exporter, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	var mu sync.Mutex
	w, err := watch.New(cfg.Inputs, cfg.WatchDebounce, func(path string) {
		job := pipeline.NewJob(path)
		_ = e.filePipeline().Execute(ctx, job)

		mu.Lock()
		defer mu.Unlock()
		prefix := time.Now().Format("[15:04:05]")
		if job.Err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", prefix, path, job.Err)
			return
		}
		printJob(out, prefix, job)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %d file(s) for changes. Press Ctrl+C to stop.\n", len(cfg.Inputs))
	logger.Info("watching files", "files", len(cfg.Inputs), "debounce", cfg.WatchDebounce)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
