// Package executor manages the lifecycle of one external load-test process:
// spawn, cooperative draining of its output, cancellation with bounded
// force-kill escalation, and exit-status capture.
//
// The executor holds no background reader of its own beyond a single
// goroutine that pushes output chunks onto a channel; all observable work
// happens inside Poll, which the host's event loop is expected to call
// repeatedly while an execution is running. Callers must serialize
// Start/Poll/Stop on a given instance.
package executor

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/volleyhq/volley/internal/parser"
)

const (
	// DefaultGracePeriod bounds how long Stop waits after the termination
	// signal before escalating to a kill.
	DefaultGracePeriod = 2 * time.Second

	pollInterval = 50 * time.Millisecond
	chunkBuffer  = 1024
	readBufSize  = 4096
)

// StopMarker is appended to the capture when an execution is cancelled.
const StopMarker = "\n[stopped by user]\n"

// OutputFunc receives newly read output, exactly once per chunk, in order.
type OutputFunc func(chunk string)

// CompleteFunc receives the parsed result, exactly once per execution.
type CompleteFunc func(result *parser.TestResult)

// Executor runs at most one external process at a time.
//
// The zero value is not usable; construct with New.
type Executor struct {
	mu sync.Mutex

	state      State
	cmd        *exec.Cmd
	chunks     chan string
	done       chan struct{}
	waitErr    error
	capture    strings.Builder
	onChunk    OutputFunc
	onComplete CompleteFunc
	result     *parser.TestResult
	exitCode   int

	grace time.Duration
	log   zerolog.Logger
}

// New returns an idle executor. Read errors and kill escalations are
// reported through log; nothing user-facing depends on it.
func New(log zerolog.Logger) *Executor {
	return &Executor{
		state: StateIdle,
		grace: DefaultGracePeriod,
		log:   log,
	}
}

// SetGracePeriod overrides the stop grace period. Intended for tests.
func (e *Executor) SetGracePeriod(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.grace = d
	}
}

// State returns the current lifecycle state.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ExitCode returns the child's exit status once a run has finished.
func (e *Executor) ExitCode() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exitCode
}

// Result returns the parsed result of the last finished execution, or nil.
func (e *Executor) Result() *parser.TestResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Capture returns the output accumulated so far. While running this is a
// snapshot; once the state is terminal the capture no longer changes.
func (e *Executor) Capture() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capture.String()
}

// Start spawns the process described by argv (argv[0] is the binary path;
// no shell is involved) and begins draining its combined stdout/stderr.
// It returns immediately.
//
// Fails with ErrAlreadyRunning if an execution is active, or with a
// *SpawnError if the process cannot be started; in both cases the state is
// left unchanged and no process is spawned.
func (e *Executor) Start(argv []string, onChunk OutputFunc, onComplete CompleteFunc) error {
	if len(argv) == 0 {
		return errors.New("empty argument vector")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return ErrAlreadyRunning
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	configureSysProcAttr(cmd)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return &SpawnError{Path: argv[0], Err: err}
	}

	e.cmd = cmd
	e.chunks = make(chan string, chunkBuffer)
	e.done = make(chan struct{})
	e.waitErr = nil
	e.capture.Reset()
	e.onChunk = onChunk
	e.onComplete = onComplete
	e.result = nil
	e.exitCode = 0
	e.state = StateRunning

	e.log.Debug().Str("binary", argv[0]).Int("args", len(argv)-1).Msg("process started")

	go e.readLoop(pr, e.chunks)
	go e.waitLoop(cmd, pw, e.done)
	return nil
}

// readLoop moves process output onto the chunk channel until EOF. Read
// errors are logged and end the loop; the partial capture survives and
// completion handling still runs.
func (e *Executor) readLoop(r *io.PipeReader, chunks chan<- string) {
	defer close(chunks)
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunks <- string(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				e.log.Warn().Err(err).Msg("output read error; keeping partial capture")
			}
			return
		}
	}
}

// waitLoop reaps the child. Closing the pipe writer afterwards lets the
// read loop observe EOF and close the chunk channel, which is how Poll
// learns the execution is over.
func (e *Executor) waitLoop(cmd *exec.Cmd, pw *io.PipeWriter, done chan struct{}) {
	err := cmd.Wait()
	e.mu.Lock()
	e.waitErr = err
	e.mu.Unlock()
	pw.Close()
	close(done)
}

// Poll drains any newly available output without blocking, appends it to
// the capture, and forwards it to the chunk callback. When the process has
// exited and its output is fully drained, Poll performs completion
// handling: records the exit code, transitions to Completed or Failed,
// parses the capture, and invokes the completion callback exactly once.
//
// Poll is a no-op unless the state is Running.
func (e *Executor) Poll() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}

	var fresh []string
	finished := false
drain:
	for {
		select {
		case chunk, ok := <-e.chunks:
			if !ok {
				finished = true
				break drain
			}
			e.capture.WriteString(chunk)
			fresh = append(fresh, chunk)
		default:
			break drain
		}
	}

	onChunk := e.onChunk
	var onComplete CompleteFunc
	var result *parser.TestResult
	if finished {
		// The chunk channel closes only after Wait has returned, so the
		// exit status is final here.
		e.exitCode = exitCodeOf(e.cmd, e.waitErr)
		if e.waitErr == nil {
			e.state = StateCompleted
		} else {
			e.state = StateFailed
			e.log.Debug().Err(e.waitErr).Int("exitCode", e.exitCode).Msg("process failed")
		}
		result = parser.Parse(e.capture.String())
		e.result = result
		onComplete = e.onComplete
		e.cmd = nil
	}
	e.mu.Unlock()

	if onChunk != nil {
		for _, chunk := range fresh {
			onChunk(chunk)
		}
	}
	if onComplete != nil {
		onComplete(result)
	}
}

// Stop cancels a running execution: termination signal, a bounded grace
// period, then a kill. It appends StopMarker to the capture, transitions to
// Stopped, and delivers the completion callback with a best-effort parse of
// the partial output.
//
// When nothing is running, Stop returns (false, nil) and does nothing, so
// it is safe to call unconditionally. Stop always returns within roughly
// two grace periods even if the child ignores the termination signal.
func (e *Executor) Stop() (bool, error) {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return false, nil
	}
	cmd := e.cmd
	done := e.done
	chunks := e.chunks
	grace := e.grace
	e.mu.Unlock()

	if err := terminate(cmd.Process); err != nil {
		e.log.Debug().Err(err).Msg("termination signal not delivered")
	}
	if !e.awaitExit(done, chunks, grace) {
		e.log.Warn().Dur("grace", grace).Msg("process ignored termination signal; killing")
		if err := kill(cmd.Process); err != nil {
			e.log.Debug().Err(err).Msg("kill failed")
		}
		e.awaitExit(done, chunks, grace)
	}

	e.mu.Lock()
	if e.state != StateRunning {
		// A concurrent finalize won; nothing left to do.
		e.mu.Unlock()
		return true, nil
	}
	// Fold in whatever output is still queued, without blocking.
remainder:
	for {
		select {
		case chunk, ok := <-e.chunks:
			if !ok {
				break remainder
			}
			e.capture.WriteString(chunk)
		default:
			break remainder
		}
	}
	e.capture.WriteString(StopMarker)
	e.exitCode = exitCodeOf(e.cmd, e.waitErr)
	e.state = StateStopped
	result := parser.Parse(e.capture.String())
	e.result = result
	onComplete := e.onComplete
	e.cmd = nil
	e.mu.Unlock()

	if onComplete != nil {
		onComplete(result)
	}
	return true, nil
}

// awaitExit waits for the child to be reaped, draining output chunks while
// it waits so a full pipe cannot stall the exit. Returns false if the limit
// elapsed first.
func (e *Executor) awaitExit(done chan struct{}, chunks chan string, limit time.Duration) bool {
	deadline := time.NewTimer(limit)
	defer deadline.Stop()
	for {
		select {
		case <-done:
			return true
		case chunk, ok := <-chunks:
			if !ok {
				// Channel closed; only done or the deadline remain.
				chunks = nil
				continue
			}
			e.mu.Lock()
			e.capture.WriteString(chunk)
			e.mu.Unlock()
		case <-deadline.C:
			return false
		}
	}
}

// Run is the blocking convenience path: Start plus a Poll loop until the
// execution finishes, the context is cancelled, or timeout elapses. On
// timeout the process is force-stopped and a *TimeoutError carrying the
// partial output is returned. A timeout of zero means no deadline.
//
// Output chunks are forwarded to onChunk as they arrive; onChunk may be nil.
func (e *Executor) Run(ctx context.Context, argv []string, timeout time.Duration, onChunk OutputFunc) (*parser.TestResult, error) {
	var result *parser.TestResult
	err := e.Start(argv, onChunk, func(r *parser.TestResult) { result = r })
	if err != nil {
		return nil, err
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		e.Poll()
		if e.State() != StateRunning {
			break
		}
		select {
		case <-ctx.Done():
			e.Stop()
			return result, ctx.Err()
		case <-deadline:
			e.Stop()
			return nil, &TimeoutError{After: timeout, Partial: e.Capture()}
		case <-ticker.C:
		}
	}

	if e.State() == StateFailed {
		return result, &ExitError{Code: e.ExitCode()}
	}
	return result, nil
}

// Close stops a still-running child, guarding against orphaned processes
// when an executor is discarded mid-run. Safe to call in any state.
func (e *Executor) Close() error {
	_, err := e.Stop()
	return err
}

func exitCodeOf(cmd *exec.Cmd, waitErr error) int {
	if cmd != nil && cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return 0
}
