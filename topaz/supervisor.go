package topaz

import (
	"sync"

	"github.com/pkg/errors"
)

// State is a state of the Supervisor.
type State string

const (
	StateStarting        State = "starting"
	StateRunning         State = "running"
	StateReloadingConfig State = "reloading config"
	StateShuttingDown    State = "shutting down"
	StateStopped         State = "stopped"
)

// Supervisor keeps one renderer running for the configured media file. It owns
// its ProcessHandle; nothing else may use the handle once the Supervisor is
// created.
type Supervisor struct {
	// Verbose makes EventConfigLoaded carry the parsed configuration.
	Verbose bool

	j     Journaler
	store *ConfigStore
	proc  *ProcessHandle

	stateMut sync.Mutex
	state    State
}

// NewSupervisor creates a new supervisor in the Starting state.
func NewSupervisor(store *ConfigStore, proc *ProcessHandle, j Journaler) *Supervisor {
	return &Supervisor{
		j:     j,
		store: store,
		proc:  proc,
		state: StateStarting,
	}
}

// State returns the current state. It is safe to call from any goroutine.
func (s *Supervisor) State() State {
	s.stateMut.Lock()
	defer s.stateMut.Unlock()

	return s.state
}

func (s *Supervisor) setState(state State) {
	s.stateMut.Lock()
	from := s.state
	s.state = state
	s.stateMut.Unlock()

	if from != state {
		s.j.Write(&EventStateChanged{From: from, To: state})
	}
}

// Record returns the renderer currently held. It must only be called from the
// goroutine that calls Run, or when Run isn't running.
func (s *Supervisor) Record() (ProcessRecord, bool) {
	return s.proc.Record()
}

// Start loads the configuration and starts the first renderer. Any error is
// fatal; it matches one of ErrConfigIO, ErrMissingKey or ErrLaunch.
func (s *Supervisor) Start() error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	file, _ := cfg.File()

	if _, err := s.proc.Start(file); err != nil {
		return err
	}

	return nil
}

// Run is the control loop. It handles one event at a time until a shutdown
// signal arrives, then stops the renderer and returns that signal. A pending
// shutdown signal is always picked over pending watch events.
func (s *Supervisor) Run(events <-chan WatchEvent, shutdown <-chan ShutdownSignal) ShutdownSignal {
	s.setState(StateRunning)

	for {
		select {
		case sig := <-shutdown:
			return s.shutdown(sig)
		default:
		}

		select {
		case sig := <-shutdown:
			return s.shutdown(sig)

		case ev, ok := <-events:
			if !ok {
				// Only a shutdown can wake us up now.
				events = nil
				continue
			}

			// The shutdown may have come in while we were picking the event.
			select {
			case sig := <-shutdown:
				return s.shutdown(sig)
			default:
			}

			s.handleWatch(ev)
		}
	}
}

func (s *Supervisor) handleWatch(ev WatchEvent) {
	s.j.Write(&EventConfigChanged{Op: ev.Op, Path: ev.Path})

	if !ev.Reloads() {
		return
	}

	s.setState(StateReloadingConfig)
	s.reload()
	s.setState(StateRunning)
}

// reload replaces the renderer. A configuration that can't be read or lacks
// the file key keeps the current renderer; a renderer that fails to start
// leaves none running until the next change.
func (s *Supervisor) reload() {
	cfg, err := s.loadConfig()
	if err != nil {
		s.j.Write(&EventWarning{
			Component: "supervisor",
			Error:     "not reloading: " + err.Error(),
		})
		return
	}

	file, _ := cfg.File()

	// Both errors are already journaled by the handle.
	s.proc.Stop()
	s.proc.Start(file)
}

func (s *Supervisor) shutdown(sig ShutdownSignal) ShutdownSignal {
	s.j.Write(&EventShutdownRequested{Signal: sig})
	s.Abort()
	return sig
}

// Abort stops the renderer and moves to the Stopped state. It is for bailing
// out between Start and Run; it must not be called while Run is running.
func (s *Supervisor) Abort() {
	s.setState(StateShuttingDown)
	s.proc.Stop()
	s.setState(StateStopped)
}

func (s *Supervisor) loadConfig() (Configuration, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", s.store.Path())
	}

	ev := &EventConfigLoaded{Path: s.store.Path()}
	if s.Verbose {
		ev.Config = cfg
	}
	s.j.Write(ev)

	if err := cfg.Require(FileKey); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", s.store.Path())
	}

	return cfg, nil
}
