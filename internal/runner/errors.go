package runner

import "fmt"

// ExhaustedError is the terminal failure of the attempt loop: every attempt
// ran and the last one still had failing checks.
type ExhaustedError struct {
	Attempts    int
	FailedCount int
	Err         error // aggregated reasons from the last attempt
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%d check(s) still failing after %d attempt(s): %v",
		e.FailedCount, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// ProcessAbsentError is the terminal failure of the fallback prober: the
// container is gone, so the app failed to start. Never retried.
type ProcessAbsentError struct {
	ContainerID string
}

func (e *ProcessAbsentError) Error() string {
	return fmt.Sprintf("container %s is not running: app failed to start", e.ContainerID)
}
