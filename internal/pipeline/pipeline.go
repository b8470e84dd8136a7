package pipeline

import (
	"context"
	"log/slog"
)

// Step defines the interface that all capture pipeline steps implement.
// Steps execute in sequence, each receiving the pass state accumulated by
// the steps before it.
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the pass state to modify. Returns an error only
	// when the step fails critically; recoverable failures are recorded
	// as warnings on the capture and return nil.
	Do(ctx context.Context, capture *Capture) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of one breakpoint pass.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution even
// when a step fails. Failed steps are logged and recorded as warnings, but
// subsequent steps still execute. The default is to stop, because a failed
// render leaves nothing for later stages to work on.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps are added with AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
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

// Execute runs all pipeline steps in sequence. It checks for cancellation
// between steps; steps bound their own work via the passed context.
//
// Returns the first error encountered if continueOnError is false, or nil
// if all steps complete (absorbed failures live in capture.Warnings).
func (p *Pipeline) Execute(ctx context.Context, capture *Capture) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"breakpoint", capture.Breakpoint.Name,
				"reason", ctx.Err(),
			)
			capture.Partial = true
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"breakpoint", capture.Breakpoint.Name,
			"url", capture.URL,
		)

		if err := step.Do(ctx, capture); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"breakpoint", capture.Breakpoint.Name,
				"error", err,
			)

			if !p.continueOnError {
				return err
			}
			capture.Warn(step.Name(), err.Error())
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"breakpoint", capture.Breakpoint.Name,
			)
		}

		capture.CompletedSteps = append(capture.CompletedSteps, step.Name())
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
