package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sitescore/internal/config"
	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// Job is the state of one fact file moving through a pipeline.
type Job struct {
	// Input is the path of the fact file.
	Input string

	// Target overrides the target recorded in the fact file when set.
	Target string

	// Snapshot is the decoded fact file, set by LoadStep.
	Snapshot *facts.Snapshot

	// Settings are the per-target settings, set by SettingsStep.
	Settings config.TargetConfig

	// Report is the evaluation outcome. Its Error field records the
	// first step failure.
	Report *model.EvaluationReport

	// HistoryID is the database row of the saved report, set by SaveStep.
	HistoryID int64

	// Performed lists the steps that ran, in order, including a failed one.
	Performed []string
}

// NewJob creates a job for the fact file at input.
func NewJob(input string) *Job {
	report := model.NewEvaluationReport("")
	report.Source = input
	return &Job{Input: input, Report: report}
}

// Step is one stage of a pipeline. Steps run in the order they were
// added and see the job as the previous steps left it.
type Step interface {
	// Do advances the job. A returned error stops the pipeline unless it
	// continues on error.
	Do(ctx context.Context, job *Job) error

	// Name identifies the step in logs and in Job.Performed.
	Name() string
}

// Pipeline runs steps over one job at a time.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps running later steps after a failure.
	continueOnError bool

	// timeout bounds a single Execute call when positive.
	timeout time.Duration
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and the first error
// is recorded in the report, but subsequent steps still execute.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// WithTimeout bounds the execution of all steps for one job.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps over job. The context is checked before each
// step; a running step must honour it itself.
//
// The first failure is recorded in job.Report.Error. Execute returns it
// unless the pipeline continues on error, in which case only
// cancellation is returned.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	for _, step := range p.steps {
		log := p.logger.With("step", step.Name(), "input", job.Input)

		if err := ctx.Err(); err != nil {
			log.Warn("pipeline cancelled", "reason", err)
			p.recordError(job, err)
			return err
		}

		started := time.Now()
		err := step.Do(ctx, job)
		job.Performed = append(job.Performed, step.Name())
		if err == nil {
			log.Debug("step completed", "elapsed", time.Since(started))
			continue
		}

		log.Error("step failed", "error", err)
		p.recordError(job, err)
		if !p.continueOnError {
			return err
		}
	}
	return nil
}

func (p *Pipeline) recordError(job *Job, err error) {
	if job.Report != nil && job.Report.Error == "" {
		job.Report.Error = err.Error()
	}
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
