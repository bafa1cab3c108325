package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor evaluates many fact files concurrently.
// At most the configured number of jobs run at once.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func() *Pipeline

	concurrency int

	logger *slog.Logger

	// target overrides the target of every job when set.
	target string
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent evaluations.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithTargetOverride evaluates every input as if it described target.
func WithTargetOverride(target string) BatchOption {
	return func(b *BatchProcessor) {
		b.target = target
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     10,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch evaluates the fact files and returns their jobs in input
// order, including the failed ones. The error is non-nil only when the
// context was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]*Job, error) {
	bp.logger.Info("starting batch evaluation",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Each goroutine writes only its own index.
	jobs := make([]*Job, len(inputs))
	err := bp.ProcessBatchWithCallback(ctx, inputs, func(job *Job, index int) {
		jobs[index] = job
	})

	bp.logger.Info("batch evaluation complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)
	return jobs, err
}

// ProcessBatchWithCallback evaluates the fact files and calls callback
// for each finished job. The callback runs on the goroutine that finished
// the job, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []string,
	callback func(job *Job, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			job := NewJob(input)
			job.Target = bp.target
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				// Recorded in the report; other jobs keep going.
				bp.logger.Warn("evaluation failed", "input", input, "error", err)
			} else {
				bp.logger.Debug("evaluation completed", "input", input, "target", job.Report.Target)
			}
			callback(job, i)
			return nil
		})
	}
	return g.Wait()
}
