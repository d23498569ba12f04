package executor

import (
	"errors"
	"fmt"
	"time"
)

// ErrAlreadyRunning is returned by Start when an execution is active on the
// same instance. Concurrent starts are rejected, never queued.
var ErrAlreadyRunning = errors.New("an execution is already running on this executor")

// SpawnError reports that the child process could not be started. The
// executor never enters the Running state when this is returned.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError is returned by Run when the child outlives the deadline.
// Partial carries whatever output had been captured before the forced stop.
type TimeoutError struct {
	After   time.Duration
	Partial string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timed out after %s", e.After)
}

// ExitError reports a non-zero exit from the child. A best-effort parsed
// result is still produced alongside it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}
