package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/custodia-labs/famlink/internal/logger"
)

// DefaultGrace is how long Stop waits after each shutdown step.
const DefaultGrace = 5 * time.Second

// maxStderrLine bounds one relayed stderr line.
const maxStderrLine = 1 << 20

// Supervisor launches and terminates worker processes.
type Supervisor struct {
	grace time.Duration
	sink  func(line string)
	env   []string
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithGrace sets the wait after closing stdin and after SIGTERM.
func WithGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithStderrSink sets where the child's stderr lines go.
func WithStderrSink(sink func(line string)) Option {
	return func(s *Supervisor) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithEnv adds KEY=value pairs to the inherited environment.
func WithEnv(kv ...string) Option {
	return func(s *Supervisor) {
		s.env = append(s.env, kv...)
	}
}

// NewSupervisor creates a supervisor.
func NewSupervisor(opts ...Option) *Supervisor {
	s := &Supervisor{
		grace: DefaultGrace,
		sink:  logger.LineSink("[worker]"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches path with args. Stdin and stdout are pipes owned by the
// returned Handle. A missing executable or failed launch is a *SpawnError.
func (s *Supervisor) Start(ctx context.Context, path string, args ...string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}

	p, err := newPipes()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}

	cmd := exec.Command(resolved, args...)
	cmd.Stdin = p.childStdin
	cmd.Stdout = p.childStdout
	cmd.Stderr = p.childStderr
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}

	if err := cmd.Start(); err != nil {
		p.closeAll()
		return nil, &SpawnError{Path: path, Err: err}
	}
	p.closeChildEnds()

	h := &Handle{
		path:     resolved,
		cmd:      cmd,
		pid:      cmd.Process.Pid,
		started:  time.Now(),
		stdin:    p.stdin,
		stdout:   p.stdout,
		done:     make(chan struct{}),
		exitCode: -1,
	}
	logger.Debug("started worker %s (pid %d) args=%v", resolved, h.pid, args)

	// The drain and wait goroutines must outlive a cancelled start context.
	bg := context.WithoutCancel(ctx)
	drained := make(chan struct{})

	lifecycle.Go(bg, func(context.Context) error {
		defer close(drained)
		return s.drain(p.stderr)
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Warn("worker %d stderr drain: %v", h.pid, err)
	}))

	lifecycle.Go(bg, func(context.Context) error {
		return s.wait(h, drained)
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("worker %d wait: %v", h.pid, err)
	}))

	return h, nil
}

// drain relays stderr lines to the sink until the stream ends.
func (s *Supervisor) drain(r *os.File) error {
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStderrLine)
	for scanner.Scan() {
		s.sink(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// Keep the pipe empty so the child cannot block on it.
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("reading stderr: %w", err)
	}
	return nil
}

// wait reaps the process and records its exit status.
func (s *Supervisor) wait(h *Handle, drained <-chan struct{}) error {
	err := h.cmd.Wait()

	// A grandchild may keep stderr open; do not wait on it forever.
	select {
	case <-drained:
	case <-time.After(s.grace):
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		h.exitCode = 0
	case errors.As(err, &exitErr):
		h.exitCode = exitErr.ExitCode()
	default:
		h.waitErr = err
	}
	close(h.done)

	logger.Debug("worker %d exited with code %d", h.pid, h.exitCode)
	if h.waitErr != nil {
		return h.waitErr
	}
	return nil
}

// IsRunning reports whether the process behind h is alive. Nil, unstarted
// and reaped handles are not running; an unknown pid is not running.
func (s *Supervisor) IsRunning(h *Handle) bool {
	if !h.isStarted() || h.exited() {
		return false
	}
	return alive(h.pid)
}

// Stop terminates the process and waits for it to exit. It closes stdin
// first, then sends SIGTERM, then SIGKILL, waiting the grace period between
// steps; a cancelled ctx skips the remaining waits. Stop is idempotent and
// a no-op for nil or unstarted handles.
func (s *Supervisor) Stop(ctx context.Context, h *Handle) error {
	if !h.isStarted() {
		return nil
	}
	h.stopOnce.Do(func() {
		h.stopErr = s.terminate(ctx, h)
	})
	return h.stopErr
}

func (s *Supervisor) terminate(ctx context.Context, h *Handle) error {
	_ = h.stdin.Close()
	if s.await(ctx, h) {
		logger.Debug("worker %d stopped after stdin closed", h.pid)
		return nil
	}

	logger.Warn("worker %d still running after %s, sending SIGTERM", h.pid, s.grace)
	if err := terminateProcess(h.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Warn("worker %d: SIGTERM: %v", h.pid, err)
	}
	if s.await(ctx, h) {
		return nil
	}

	logger.Warn("worker %d ignored SIGTERM, killing", h.pid)
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill worker %d: %w", h.pid, err)
	}
	<-h.done
	return nil
}

// await waits up to the grace period for the process to exit.
func (s *Supervisor) await(ctx context.Context, h *Handle) bool {
	timer := time.NewTimer(s.grace)
	defer timer.Stop()

	select {
	case <-h.done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		select {
		case <-h.done:
			return true
		default:
			return false
		}
	}
}

// pipes holds both ends of the child's three standard streams.
type pipes struct {
	stdin, childStdin   *os.File
	stdout, childStdout *os.File
	stderr, childStderr *os.File
}

func newPipes() (*pipes, error) {
	p := &pipes{}
	var err error
	if p.childStdin, p.stdin, err = os.Pipe(); err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if p.stdout, p.childStdout, err = os.Pipe(); err != nil {
		p.closeAll()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if p.stderr, p.childStderr, err = os.Pipe(); err != nil {
		p.closeAll()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	return p, nil
}

func (p *pipes) closeChildEnds() {
	for _, f := range []*os.File{p.childStdin, p.childStdout, p.childStderr} {
		if f != nil {
			_ = f.Close()
		}
	}
}

func (p *pipes) closeAll() {
	p.closeChildEnds()
	for _, f := range []*os.File{p.stdin, p.stdout, p.stderr} {
		if f != nil {
			_ = f.Close()
		}
	}
}
