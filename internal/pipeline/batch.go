package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/slashannots/internal/model"
)

// DefaultConcurrency is the number of documents processed at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// BatchResult holds the outcome of a batch.
type BatchResult struct {
	// Reports has one entry per job, in job order.
	Reports []*model.RedactionReport

	// Stats is the sum of the stats of every job.
	Stats *model.AnnotationStats
}

// Failed returns the number of jobs that did not succeed.
func (r *BatchResult) Failed() int {
	n := 0
	for _, report := range r.Reports {
		if report == nil || !report.Succeeded() {
			n++
		}
	}
	return n
}

// BatchProcessor redacts multiple documents concurrently.
// Each job runs in a fresh pipeline created by the factory.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each job.
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

// ProcessBatch redacts every job under policy.
//
// A failing job does not stop the others; its error is recorded in its
// report. The returned error is only non-nil when ctx is cancelled, in which
// case jobs that never started have a report carrying the cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []Job, policy *model.RedactionPolicy) (*BatchResult, error) {
	bp.logger.Info("starting batch processing",
		"total_jobs", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own slot.
	reports := make([]*model.RedactionReport, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			run := NewRun(job, policy)
			reports[i] = run.Report

			select {
			case <-gctx.Done():
				run.Report.Error = gctx.Err().Error()
				return gctx.Err()
			default:
			}

			bp.logger.Debug("redacting document",
				"input", job.InputPath,
				"index", i+1,
				"total", len(jobs),
			)

			if err := bp.pipelineFactory().Execute(gctx, run); err != nil {
				bp.logger.Warn("redaction failed",
					"input", job.InputPath,
					"error", err,
				)
				// Other jobs continue; the error stays in the report.
				return nil
			}

			return nil
		})
	}

	err := g.Wait()

	result := &BatchResult{
		Reports: reports,
		Stats:   model.NewAnnotationStats(),
	}
	for _, report := range reports {
		if report != nil {
			result.Stats.Merge(report.Stats)
		}
	}

	bp.logger.Info("batch processing complete",
		"total_jobs", len(jobs),
		"failed", result.Failed(),
		"elapsed", time.Since(startTime),
	)

	return result, err
}
