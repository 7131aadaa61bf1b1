package topaz

import (
	"syscall"
	"time"

	"git.unix.lgbt/diamondburned/topaz/topaz/exec"
	"git.unix.lgbt/diamondburned/topaz/topaz/renderer"
	"github.com/pkg/errors"
)

// ProcessWaitTimeout is the time to wait for the renderer to exit after
// SIGTERM until it is SIGKILLed.
var ProcessWaitTimeout = 10 * time.Second

// ProcessRecord describes the renderer held by a ProcessHandle.
type ProcessRecord struct {
	PID     int
	File    string
	Running bool
}

// ProcessHandle holds at most one renderer process. It is a narrow primitive:
// it does not stop the previous process on Start, so the caller must call
// Stop first. It is not safe for concurrent use; only one goroutine may own
// it.
type ProcessHandle struct {
	// WaitTimeout is how long Stop waits after SIGTERM before escalating to
	// SIGKILL. Zero or less waits forever.
	WaitTimeout time.Duration

	j         Journaler
	tmpl      renderer.ArgsTemplate
	startProc exec.StartFunc

	// states
	proc   exec.Process
	file   string
	exited chan struct{}
}

// NewProcessHandle creates a handle that starts renderers from tmpl, with their
// output going to the given writers.
func NewProcessHandle(tmpl renderer.ArgsTemplate, opts exec.Options, j Journaler) *ProcessHandle {
	return &ProcessHandle{
		WaitTimeout: ProcessWaitTimeout,

		j:    j,
		tmpl: tmpl,
		startProc: func(argv []string) (exec.Process, error) {
			return exec.StartProcess(argv, opts)
		},
	}
}

// Start starts a new renderer for the given media file. An error matching
// ErrLaunch is returned if it cannot be started.
func (h *ProcessHandle) Start(file string) (ProcessRecord, error) {
	argv := h.tmpl.Argv(file)

	p, err := h.startProc(argv)
	if err != nil {
		h.j.Write(&EventProcessSpawnError{
			File:   file,
			Reason: err.Error(),
		})

		return ProcessRecord{}, withKind(ErrLaunch, errors.Wrapf(err, "failed to start %q", argv[0]))
	}

	h.proc = p
	h.file = file
	h.startWaiting()

	rec, _ := h.Record()
	return rec, nil
}

// startWaiting reports the PID to the journal and starts a waiting routine.
func (h *ProcessHandle) startWaiting() {
	h.j.Write(&EventProcessSpawned{
		PID:  h.proc.PID(),
		File: h.file,
	})

	exited := make(chan struct{})
	h.exited = exited

	go func(proc exec.Process, file string) {
		status := proc.Wait()

		ev := &EventProcessExited{
			PID:      status.PID,
			File:     file,
			ExitCode: status.Code,
		}

		if status.Error != nil {
			ev.Error = status.Error.Error()
		}

		// Write to the journal before signaling that the process is dead to
		// ensure that the journal entry gets written.
		h.j.Write(ev)

		close(exited)
	}(h.proc, h.file)
}

// Stop terminates the held renderer and waits for it to exit. It does nothing
// if no renderer is held. The slot is always cleared, even if an error
// matching ErrTerminate is returned; that error is only worth logging.
func (h *ProcessHandle) Stop() error {
	if h.proc == nil {
		return nil
	}

	proc, exited := h.proc, h.exited
	h.proc = nil
	h.file = ""
	h.exited = nil

	if isClosed(exited) {
		return nil
	}

	var stopErr error

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		stopErr = err
		// Try to SIGKILL if we can't SIGTERM.
		proc.Kill()
	}

	if !waitClosed(exited, h.WaitTimeout) {
		// Timeout reached and the renderer still hasn't exited yet. SIGKILL
		// cannot be ignored, so the wait below is short.
		if err := proc.Kill(); err != nil && stopErr == nil {
			stopErr = err
		}

		<-exited

		if stopErr == nil {
			stopErr = errors.Errorf("timed out after %v waiting for renderer to exit", h.WaitTimeout)
		}
	}

	if stopErr != nil {
		stopErr = withKind(ErrTerminate, stopErr)

		h.j.Write(&EventWarning{
			Component: "process",
			Error:     stopErr.Error(),
		})
	}

	return stopErr
}

// Running returns true if a renderer is held and has not exited yet.
func (h *ProcessHandle) Running() bool {
	return h.proc != nil && !isClosed(h.exited)
}

// Record returns the held renderer, if any.
func (h *ProcessHandle) Record() (ProcessRecord, bool) {
	if h.proc == nil {
		return ProcessRecord{}, false
	}

	return ProcessRecord{
		PID:     h.proc.PID(),
		File:    h.file,
		Running: !isClosed(h.exited),
	}, true
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// waitClosed waits until ch is closed or the timeout is reached. A timeout of
// zero or less waits forever.
func waitClosed(ch <-chan struct{}, timeout time.Duration) bool {
	if timeout <= 0 {
		<-ch
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}
