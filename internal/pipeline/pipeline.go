package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/nao1215/slashannots/internal/model"
)

// Codec turns the bytes of an input file into a redactable document.
type Codec interface {
	Decode(rs io.ReadSeeker) (model.Container, error)
}

// Job names the input and output file of one redaction.
type Job struct {
	// InputPath is the document to read.
	InputPath string

	// OutputPath is where the redacted document goes.
	// Empty means DefaultOutputPath(InputPath).
	OutputPath string
}

// Run is the state shared by the steps of one pipeline execution.
type Run struct {
	// Job is the file pair being processed.
	Job Job

	// Policy is applied by the redact step.
	Policy *model.RedactionPolicy

	// Report collects results; it is returned to the caller even on failure.
	Report *model.RedactionReport

	// Document is set by the read step.
	Document model.Container
}

// NewRun creates the state for job under policy.
func NewRun(job Job, policy *model.RedactionPolicy) *Run {
	if job.OutputPath == "" {
		job.OutputPath = DefaultOutputPath(job.InputPath)
	}
	return &Run{
		Job:    job,
		Policy: policy,
		Report: model.NewRedactionReport(job.InputPath, policy),
	}
}

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the step. A returned error stops the pipeline.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline. Steps are added with AddStep.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and stops at the first error, which
// is also recorded in run.Report.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.Report.Error = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"input", run.Job.InputPath,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"input", run.Job.InputPath,
				"error", err,
			)
			run.Report.Error = err.Error()
			return err
		}
	}

	return nil
}

// Process executes the pipeline for a single job and returns its report.
// The report is returned even when err is non-nil.
func (p *Pipeline) Process(ctx context.Context, job Job, policy *model.RedactionPolicy) (*model.RedactionReport, error) {
	run := NewRun(job, policy)
	err := p.Execute(ctx, run)
	return run.Report, err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
