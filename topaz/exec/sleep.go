package exec

import (
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// SleepProcess is a process that only idles. It is used for testing.
type SleepProcess struct {
	once  sync.Once
	stop  chan struct{}
	timer *time.Timer
	delay time.Duration

	pid  int
	exit int32

	sigMut  sync.Mutex
	signals []os.Signal
}

var _ Process = (*SleepProcess)(nil)

// NewSleepProcess creates a process that idles for dura. If delay is larger
// than 0, then the process takes that long to honor SIGINT or SIGTERM, unless
// it is SIGKILLed in the meantime.
func NewSleepProcess(dura, delay time.Duration, pid int) *SleepProcess {
	return &SleepProcess{
		stop:  make(chan struct{}),
		timer: time.NewTimer(dura),
		delay: delay,

		pid:  pid,
		exit: -2,
	}
}

func (mock *SleepProcess) PID() int { return mock.pid }

// Signals returns every signal the process has received, in order.
func (mock *SleepProcess) Signals() []os.Signal {
	mock.sigMut.Lock()
	defer mock.sigMut.Unlock()

	return append([]os.Signal(nil), mock.signals...)
}

func (mock *SleepProcess) Signal(sig os.Signal) error {
	var status int32

	switch sig {
	case syscall.SIGINT, syscall.SIGTERM: // catchable
		status = 0
	case syscall.SIGKILL:
		status = -1
	default:
		return errors.New("unknown signal")
	}

	mock.sigMut.Lock()
	mock.signals = append(mock.signals, sig)
	mock.sigMut.Unlock()

	go func() {
		if mock.delay > 0 && sig != syscall.SIGKILL {
			select {
			case <-time.After(mock.delay):

			case <-mock.stop:
				return
			}
		}

		// Ensure exit is still unset (-2), otherwise bail.
		if !atomic.CompareAndSwapInt32(&mock.exit, -2, status) {
			return
		}

		close(mock.stop)
		mock.timer.Stop()
	}()

	return nil
}

func (mock *SleepProcess) Kill() error {
	return mock.Signal(syscall.SIGKILL)
}

func (mock *SleepProcess) Wait() ExitStatus {
	mock.once.Do(func() {
		select {
		case <-mock.stop:
		case <-mock.timer.C:
			atomic.CompareAndSwapInt32(&mock.exit, -2, 0)
		}
	})

	return ExitStatus{
		PID:  mock.pid,
		Code: int(atomic.LoadInt32(&mock.exit)),
	}
}
