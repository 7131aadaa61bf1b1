package exec

import (
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// GroupPollInterval is how often a process group is checked for survivors
// after its leader exits.
var GroupPollInterval = 50 * time.Millisecond

type process struct {
	pid    int
	done   chan struct{}
	status ExitStatus
}

var _ Process = (*process)(nil)

// StartProcess starts argv in its own process group. argv[0] is looked up in
// $PATH. The returned Process's Wait only returns once every member of the
// group has exited, not just argv[0].
func StartProcess(argv []string, opts Options) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty argv")
	}

	proc := &process{done: make(chan struct{})}
	started := make(chan error, 1)

	go func() {
		// Pdeathsig fires when the thread that forked the child dies, not when
		// the process does. Keep this thread for as long as the child lives.
		// See https://github.com/golang/go/issues/27505.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		// We need to be the subreaper so that the programs down the chain
		// can't disown themselves and outlive the group.
		if err := unix.Prctl(unix.PR_SET_CHILD_SUBREAPER, 1, 0, 0, 0); err != nil {
			started <- errors.Wrap(err, "failed to set subreaper")
			return
		}

		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Setpgid:   true,
			Pdeathsig: syscall.SIGTERM,
		}

		if err := cmd.Start(); err != nil {
			started <- err
			return
		}

		proc.pid = cmd.Process.Pid
		started <- nil

		err := cmd.Wait()

		// A non-zero exit is reported through the code, not as an error.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = nil
		}

		proc.status = ExitStatus{
			PID:   proc.pid,
			Code:  cmd.ProcessState.ExitCode(),
			Error: err,
		}

		// The renderer is only gone once its whole group is.
		waitGroup(proc.pid)

		close(proc.done)
	}()

	if err := <-started; err != nil {
		return nil, err
	}

	return proc, nil
}

func (proc *process) PID() int {
	return proc.pid
}

func (proc *process) Signal(sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return errors.Errorf("unsupported signal %v", sig)
	}

	if err := unix.Kill(-proc.pid, s); err != nil {
		return errors.Wrapf(err, "failed to signal process group %d", proc.pid)
	}

	return nil
}

func (proc *process) Kill() error {
	return proc.Signal(syscall.SIGKILL)
}

func (proc *process) Wait() ExitStatus {
	<-proc.done
	return proc.status
}

// waitGroup blocks until the process group pgid is empty. Members that were
// reparented to us are reaped on the way, since they would otherwise linger as
// zombies and keep the group alive.
func waitGroup(pgid int) {
	tick := time.NewTicker(GroupPollInterval)
	defer tick.Stop()

	for {
		reapGroup(pgid)

		if err := unix.Kill(-pgid, 0); err != nil {
			// ESRCH: nothing left.
			return
		}

		<-tick.C
	}
}

func reapGroup(pgid int) {
	for {
		var status unix.WaitStatus

		pid, err := unix.Wait4(-pgid, &status, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
	}
}
