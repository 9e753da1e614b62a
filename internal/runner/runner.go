package runner

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/deploycheck/internal/checks"
	"github.com/hamed0406/deploycheck/internal/probe"
	"github.com/hamed0406/deploycheck/internal/report"
)

// Liveness answers whether the target container's process is still running.
// Satisfied by the container runtime client.
type Liveness interface {
	IsRunning(ctx context.Context, containerID string) (bool, error)
}

// RunState is the mutable state of one pass over the checks. A fresh value
// is built per attempt; nothing survives an attempt except the counter.
type RunState struct {
	Attempt int
	Failed  []probe.Result
}

func (s *RunState) record(r probe.Result) {
	if !r.Passed {
		s.Failed = append(s.Failed, r)
	}
}

// Err aggregates the attempt's failure reasons.
func (s *RunState) Err() error {
	var err error
	for _, f := range s.Failed {
		err = multierr.Append(err, f.Err())
	}
	return err
}

// Runner drives repeated passes over all checks. Execution is strictly
// sequential, both across attempts and across checks within an attempt:
// parallel probing against a still-starting server produces misleading
// transient failures and racy log interleaving.
type Runner struct {
	Checker  probe.Checker
	Reporter report.Reporter
	Settings checks.Settings

	// Sleep is time.Sleep unless a test substitutes it.
	Sleep func(time.Duration)
}

func New(checker probe.Checker, rep report.Reporter, settings checks.Settings) *Runner {
	if settings.Attempts < 1 {
		settings.Attempts = 1
	}
	return &Runner{
		Checker:  checker,
		Reporter: rep,
		Settings: settings,
		Sleep:    time.Sleep,
	}
}

// Run waits, probes every check in specification order, and retries whole
// passes until one has zero failures or the attempt budget is spent. A
// failing check never aborts the pass early, so the reported count is the
// true number of broken endpoints.
func (r *Runner) Run(ctx context.Context, specs []checks.CheckSpec, target probe.Target) error {
	var last *RunState
	for attempt := 1; attempt <= r.Settings.Attempts; attempt++ {
		r.Reporter.Verbose("attempt_waiting",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.Settings.Attempts),
			zap.Duration("wait", r.Settings.Wait),
		)
		r.Sleep(r.Settings.Wait)

		state := &RunState{Attempt: attempt}
		for _, spec := range specs {
			state.record(r.Checker.Check(ctx, spec, target))
		}
		last = state

		if len(state.Failed) == 0 {
			r.Reporter.Info("checks_passed",
				zap.Int("attempt", attempt),
				zap.Int("checks", len(specs)),
			)
			return nil
		}
		r.Reporter.Warn("attempt_failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.Settings.Attempts),
			zap.Int("failed", len(state.Failed)),
		)
	}

	return &ExhaustedError{
		Attempts:    r.Settings.Attempts,
		FailedCount: len(last.Failed),
		Err:         last.Err(),
	}
}

// Fallback is the liveness-only path taken when no usable specification
// exists or the process type is not web-facing: give the process a grace
// period, then ask the runtime once whether it is still up.
func (r *Runner) Fallback(ctx context.Context, live Liveness, containerID string, wait time.Duration) error {
	r.Reporter.Info("no_checks_liveness_probe",
		zap.String("container", containerID),
		zap.Duration("wait", wait),
	)
	r.Sleep(wait)

	running, err := live.IsRunning(ctx, containerID)
	if err != nil {
		r.Reporter.Warn("liveness_query_failed", zap.Error(err))
		return &ProcessAbsentError{ContainerID: containerID}
	}
	if !running {
		return &ProcessAbsentError{ContainerID: containerID}
	}
	r.Reporter.Info("process_running", zap.String("container", containerID))
	return nil
}
