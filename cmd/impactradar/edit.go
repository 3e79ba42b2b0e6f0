package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nao1215/impactradar/internal/input"
	"github.com/nao1215/impactradar/internal/model"
	"github.com/nao1215/impactradar/internal/pipeline"
	"github.com/nao1215/impactradar/internal/tui"
)

// NewEditCmd creates the edit command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [analysis.yaml]",
		Short: "Score a company interactively",
		Long: `Edit opens the interactive scoring editor.

When a file is given, the analysis is loaded from it (if it exists) and
written back when the editor is closed. Press ctrl+s inside the editor to
export the current analysis with the configured formats.

Keys:
  tab / shift+tab        move between fields
  ← / →                  change a score by 1
  shift+← / shift+→      change a score by 10 (also pgdn / pgup)
  b                      toggle the traditional bank benchmark
  ctrl+r                 reset the analysis
  ctrl+s                 export
  esc                    quit

Examples:
  # Start a new analysis and save it to acme.yaml on exit
  impactradar edit acme.yaml

  # Export Markdown and JSON to ./reports on ctrl+s
  impactradar edit -f markdown,json -o reports acme.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEditCmd,
	}

	addExportFlags(cmd)

	return cmd
}

// runEditCmd executes the edit command.
func runEditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildExportConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyConfigFile(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Without --verbose only warnings reach stderr, which keeps the editor clean.
	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	session, err := loadOrNewSession(path)
	if err != nil {
		return err
	}

	e, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.close(); err != nil {
			logger.Error("failed to close archive", "error", err)
		}
	}()

	m := tui.NewModel(session,
		tui.WithExporter(e.snapshotExporter(cmd.Context(), path)),
		tui.WithBenchmark(cfg.Benchmark),
	)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	if path == "" {
		return nil
	}
	edited, ok := final.(tui.Model)
	if !ok {
		return fmt.Errorf("unexpected editor model %T", final)
	}
	if err := saveAnalysis(path, edited.Session()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved analysis to %s\n", path)
	return nil
}

// loadOrNewSession loads path, or returns a fresh session when path is empty
// or does not exist yet.
func loadOrNewSession(path string) (*model.Session, error) {
	if path == "" {
		return model.NewSession(), nil
	}
	s, err := input.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewSession(), nil
	}
	return s, err
}

// saveAnalysis writes the session to path as an analysis file.
func saveAnalysis(path string, s *model.Session) error {
	data, err := input.FromSession(s).Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write analysis file: %w", err)
	}
	return nil
}

// snapshotExporter adapts the export pipeline to the editor.
func (e *exporter) snapshotExporter(ctx context.Context, source string) tui.Exporter {
	return func(snap *model.Snapshot, benchmark bool) (string, error) {
		job := pipeline.NewJob(source)
		job.Snapshot = snap

		p := pipeline.New(pipeline.WithLogger(e.logger))
		p.AddSteps(e.exportSteps(benchmark)...)
		if err := p.Execute(ctx, job); err != nil {
			return "", err
		}

		names := make([]string, 0, len(job.Outputs))
		for _, o := range job.Outputs {
			names = append(names, filepath.Base(o))
		}
		e.logger.Info("exported from editor", slog.Int("files", len(job.Outputs)))
		return "Exported " + strings.Join(names, ", "), nil
	}
}
