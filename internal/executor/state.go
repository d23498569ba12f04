package executor

// State is the execution lifecycle of one executor instance.
//
// Transitions: Idle → Running → (Completed | Stopped | Failed). A terminal
// state is left only by the next Start, which resets to Running.
type State int

const (
	// StateIdle means no execution has started yet.
	StateIdle State = iota
	// StateRunning means the child process is alive and being drained.
	StateRunning
	// StateCompleted means the child exited with status zero.
	StateCompleted
	// StateStopped means the execution was cancelled by the caller.
	StateStopped
	// StateFailed means the child exited non-zero.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state is one of the three end states.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateFailed
}
