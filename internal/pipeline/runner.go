package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StepStatus is how a step ended.
type StepStatus int

const (
	StepDone StepStatus = iota
	StepUpToDate
	StepDescribed
	StepFailed
)

func (s StepStatus) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepUpToDate:
		return "nothing to do"
	case StepDescribed:
		return "dry run"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result lists the status of every step that was reached, in order.
type Result struct {
	Statuses   []StepStatus
	FailedStep string
	// Err is the failed step's error prefixed with its name.
	Err error
}

// Count returns how many steps ended with status s.
func (r Result) Count(s StepStatus) int {
	n := 0
	for _, st := range r.Statuses {
		if st == s {
			n++
		}
	}
	return n
}

// Runner executes pipeline steps one after another.
type Runner struct {
	logger   *slog.Logger
	dryRun   bool
	onStart  func(step *Step, index, total int)
	onFinish func(step *Step, status StepStatus, err error)
}

// NewRunner creates a Runner. In dry-run mode steps are described, not run.
func NewRunner(logger *slog.Logger, dryRun bool) *Runner {
	return &Runner{logger: logger, dryRun: dryRun}
}

func (r *Runner) DryRun() bool {
	return r.dryRun
}

// OnStart registers fn to be called before each step. Nil clears it.
func (r *Runner) OnStart(fn func(step *Step, index, total int)) {
	r.onStart = fn
}

// OnFinish registers fn to be called after each step. Nil clears it.
func (r *Runner) OnFinish(fn func(step *Step, status StepStatus, err error)) {
	r.onFinish = fn
}

// Run processes the steps of p in order and stops at the first failure.
// A step whose Check returns true is not run, even in dry-run mode.
func (r *Runner) Run(ctx context.Context, p *Pipeline) Result {
	var res Result
	for i := range p.Steps {
		step := &p.Steps[i]
		if r.onStart != nil {
			r.onStart(step, i, len(p.Steps))
		}

		status, elapsed, err := r.runStep(ctx, step)
		res.Statuses = append(res.Statuses, status)

		log := r.logger.With(slog.String("pipeline", p.ID), slog.String("step", step.Name))
		if err != nil {
			res.FailedStep = step.Name
			res.Err = fmt.Errorf("%s: %w", step.Name, err)
			log.Error("step failed", slog.Duration("elapsed", elapsed), slog.String("error", err.Error()))
		} else {
			log.Info("step finished", slog.String("status", status.String()), slog.Duration("elapsed", elapsed))
		}

		if r.onFinish != nil {
			r.onFinish(step, status, err)
		}
		if err != nil {
			break
		}
	}
	return res
}

func (r *Runner) runStep(ctx context.Context, step *Step) (StepStatus, time.Duration, error) {
	if step.Check != nil && step.Check(ctx) {
		return StepUpToDate, 0, nil
	}
	if r.dryRun {
		if step.DryRun != nil {
			r.logger.Info("dry run", slog.String("step", step.Name), slog.String("would_do", step.DryRun(ctx)))
		}
		return StepDescribed, 0, nil
	}

	start := time.Now()
	if err := step.Run(ctx); err != nil {
		return StepFailed, time.Since(start), err
	}
	return StepDone, time.Since(start), nil
}
