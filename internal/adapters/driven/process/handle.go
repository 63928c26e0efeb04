package process

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/aretw0/introspection"
)

var (
	_ introspection.Introspectable = (*Handle)(nil)
	_ introspection.Component      = (*Handle)(nil)
)

// Handle is a started worker process. The zero Handle is a process that
// was never started.
type Handle struct {
	path    string
	cmd     *exec.Cmd
	pid     int
	started time.Time

	stdin  *os.File
	stdout *os.File

	done     chan struct{}
	exitCode int
	waitErr  error

	stopOnce sync.Once
	stopErr  error
}

// PID returns the process id, or 0 for a handle that was never started.
func (h *Handle) PID() int {
	return h.pid
}

// Stdin returns the write end of the child's stdin.
func (h *Handle) Stdin() io.WriteCloser {
	return h.stdin
}

// Stdout returns the read end of the child's stdout.
func (h *Handle) Stdout() io.ReadCloser {
	return h.stdout
}

// Done is closed once the process has exited and been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// ExitCode returns the exit status once Done is closed. It is -1 while the
// process runs and when it was ended by a signal.
func (h *Handle) ExitCode() int {
	if !h.exited() {
		return -1
	}
	return h.exitCode
}

// Err returns the error reported when waiting for the process, if any.
func (h *Handle) Err() error {
	if !h.exited() {
		return nil
	}
	return h.waitErr
}

func (h *Handle) isStarted() bool {
	return h != nil && h.cmd != nil && h.done != nil
}

func (h *Handle) exited() bool {
	if !h.isStarted() {
		return false
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// HandleState is the introspection view of a Handle.
type HandleState struct {
	Path      string    `json:"path"`
	PID       int       `json:"pid"`
	Running   bool      `json:"running"`
	ExitCode  int       `json:"exit_code"`
	StartedAt time.Time `json:"started_at,omitzero"`
	Uptime    string    `json:"uptime,omitempty"`
}

// State implements introspection.Introspectable.
func (h *Handle) State() any {
	state := HandleState{
		Path:      h.path,
		PID:       h.pid,
		Running:   h.isStarted() && !h.exited(),
		ExitCode:  h.ExitCode(),
		StartedAt: h.started,
	}
	if state.Running {
		state.Uptime = time.Since(h.started).Round(time.Millisecond).String()
	}
	return state
}

// ComponentType implements introspection.Component.
func (h *Handle) ComponentType() string {
	return "worker-process"
}
