package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/bookdiff/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the comparison filled in by
// the previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It returns an error if the step fails critically; non-critical
	// problems are logged and Do returns nil.
	Do(ctx context.Context, cmp *model.Comparison) error

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
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
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
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and stops at the first error.
// Cancellation is checked before each step; a step that is already running
// (such as the alignment) is not interrupted.
//
// The error is also stored in cmp.Error, and cmp.Elapsed is set in every
// case.
func (p *Pipeline) Execute(ctx context.Context, cmp *model.Comparison) error {
	start := time.Now()
	defer func() {
		cmp.Elapsed = time.Since(start)
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			cmp.Error = err
			return err
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"old", cmp.OldSource,
			"new", cmp.NewSource,
		)

		stepStart := time.Now()
		if err := step.Do(ctx, cmp); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			cmp.Error = err
			return err
		}
		p.logger.Debug("step completed",
			"step", step.Name(),
			"elapsed", time.Since(stepStart),
		)

		cmp.PerformedSteps = append(cmp.PerformedSteps, step.Name())
	}

	return nil
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
