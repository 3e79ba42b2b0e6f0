package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files exported at once when no
// concurrency is configured.
const DefaultConcurrency = 4

// BatchProcessor exports multiple analysis files concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file so no state is
	// shared between jobs.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs the pipeline for every path and returns one job per
// path in input order. A failing file does not stop the others; its error is
// recorded in the job. The returned error is only set when the batch was
// cancelled; jobs that never started are then nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*Job, error) {
	jobs := make([]*Job, len(paths))
	err := bp.ProcessBatchWithCallback(ctx, paths, func(job *Job, index int) {
		// Each index is written by exactly one goroutine.
		jobs[index] = job
	})
	return jobs, err
}

// ProcessBatchWithCallback runs the pipeline for every path and calls
// callback as each job finishes. The callback runs on the goroutine that
// processed the job, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch export",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			job := NewJob(path)
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("export failed",
					"file", path,
					"error", err,
				)
			} else {
				bp.logger.Info("export completed",
					"file", path,
					"outputs", len(job.Outputs),
				)
			}

			callback(job, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch export complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)
	return err
}
