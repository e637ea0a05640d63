// Package worker manages long-lived external worker processes and the
// synchronous request/response protocol spoken with them.
package worker

import (
	"bufio"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/croftbox/hsworker/internal/logging"
	"github.com/croftbox/hsworker/internal/wire"
)

// shutdownGrace bounds how long teardown waits for a worker to exit on
// its own before it is killed, and again after the kill.
const shutdownGrace = 5 * time.Second

// Handle owns a running worker process: its three byte streams, the
// process itself and the flags it was launched with. A Handle belongs
// to exactly one session and must not be shared across concurrent
// request issuers.
type Handle struct {
	Stdin  io.WriteCloser
	Stdout io.ReadCloser
	Flags  []string

	cmd    *exec.Cmd
	stderr io.ReadCloser
	done   chan struct{}

	clientOnce sync.Once
	client     *Client

	closeOnce sync.Once
	closeErr  error
}

// Start locates and launches the named worker executable, invoked as
// <executable> <workingDir> <args...>, with three independent pipes
// connected. Lookup and spawn failures are reported as
// CannotStartWorkerError; no retry is attempted here.
func Start(name, workingDir string, args []string) (*Handle, error) {
	path, err := Locate(name)
	if err != nil {
		return nil, &CannotStartWorkerError{Name: name, Reason: err.Error()}
	}

	cmd := exec.Command(path, append([]string{workingDir}, args...)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &CannotStartWorkerError{Name: name, Reason: err.Error()}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CannotStartWorkerError{Name: name, Reason: err.Error()}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CannotStartWorkerError{Name: name, Reason: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return nil, &CannotStartWorkerError{Name: name, Reason: err.Error()}
	}

	h := &Handle{
		Stdin:  stdin,
		Stdout: stdout,
		Flags:  args,
		cmd:    cmd,
		stderr: stderr,
		done:   make(chan struct{}),
	}

	// Drain stderr on its own goroutine so worker diagnostics can never
	// back-pressure the output stream mid-request.
	go h.drainStderr(name)

	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()

	return h, nil
}

// NewHandle builds a handle around existing streams with no process
// attached. Used by tests and by in-process worker setups.
func NewHandle(stdin io.WriteCloser, stdout io.ReadCloser, flags []string) *Handle {
	done := make(chan struct{})
	close(done)

	return &Handle{
		Stdin:  stdin,
		Stdout: stdout,
		Flags:  flags,
		done:   done,
	}
}

func (h *Handle) drainStderr(name string) {
	log := logging.WithFields("worker", name)

	scanner := bufio.NewScanner(h.stderr)
	for scanner.Scan() {
		log.Debug(scanner.Text())
	}
}

// Exited reports whether the worker process has been reaped.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Client returns the protocol client for this handle. The same client
// is returned on every call so stream buffering stays consistent.
func (h *Handle) Client() *Client {
	h.clientOnce.Do(func() {
		h.client = NewClient(h.Stdin, h.Stdout)
	})

	return h.client
}

// Call issues one synchronous request over the handle's streams.
func (h *Handle) Call(req wire.Request) (wire.Response, error) {
	return h.Client().Call(req)
}

// Close tears the worker down: closes all streams and, if the process
// has not exited within the grace period, kills it. Close is idempotent
// and never blocks indefinitely on an unresponsive process. A non-zero
// exit during teardown is ignored.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = h.Stdin.Close()

		if h.cmd != nil {
			select {
			case <-h.done:
			case <-time.After(shutdownGrace):
				_ = h.cmd.Process.Kill()
				select {
				case <-h.done:
				case <-time.After(shutdownGrace):
				}
			}
		}

		_ = h.Stdout.Close()
		if h.stderr != nil {
			_ = h.stderr.Close()
		}
	})

	return h.closeErr
}
