package topaz

// eventType describes an event type.
type eventType = string

const (
	eventWarning            eventType = "warning"
	eventAcquired           eventType = "acquired lock"
	eventConfigLoaded       eventType = "config loaded"
	eventConfigChanged      eventType = "config changed"
	eventStateChanged       eventType = "state changed"
	eventProcessSpawnError  eventType = "process spawn error"
	eventProcessSpawned     eventType = "process spawned"
	eventProcessExited      eventType = "process exited"
	eventShutdownRequested  eventType = "shutdown requested"
	eventDependencyNotFound eventType = "dependency not found"
)

// Event is an interface describing known events.
type Event interface {
	Type() string
	event()
}

// NewEvent creates a new event from the given event type. It is used primarily
// for decoding events from its type. Nil is returned if the event type is
// unknown.
func NewEvent(eventType string) Event {
	switch eventType {
	case eventWarning:
		return &EventWarning{}
	case eventAcquired:
		return &EventAcquired{}
	case eventConfigLoaded:
		return &EventConfigLoaded{}
	case eventConfigChanged:
		return &EventConfigChanged{}
	case eventStateChanged:
		return &EventStateChanged{}
	case eventProcessSpawnError:
		return &EventProcessSpawnError{}
	case eventProcessSpawned:
		return &EventProcessSpawned{}
	case eventProcessExited:
		return &EventProcessExited{}
	case eventShutdownRequested:
		return &EventShutdownRequested{}
	case eventDependencyNotFound:
		return &EventDependencyNotFound{}
	default:
		return nil
	}
}

// EventWarning is emitted when a non-fatal error occurs.
type EventWarning struct {
	Component string `json:"component"`
	Error     string `json:"error"`
}

func (ev *EventWarning) Type() string { return eventWarning }
func (ev *EventWarning) event()       {}

// EventAcquired is emitted when the flock (i.e. write lock on the journal) is
// acquired, which is on startup.
type EventAcquired struct{}

func (ev *EventAcquired) Type() string { return eventAcquired }
func (ev *EventAcquired) event()       {}

// EventConfigLoaded is emitted every time the configuration file is parsed
// successfully. Config is only filled in verbose mode.
type EventConfigLoaded struct {
	Path   string            `json:"path"`
	Config map[string]string `json:"config,omitempty"`
}

func (ev *EventConfigLoaded) Type() string { return eventConfigLoaded }
func (ev *EventConfigLoaded) event()       {}

// EventConfigChanged is emitted for every filesystem event observed on the
// configuration file, including the ones that don't cause a reload.
type EventConfigChanged struct {
	Op   WatchOp `json:"op"`
	Path string  `json:"path"`
}

func (ev *EventConfigChanged) Type() string { return eventConfigChanged }
func (ev *EventConfigChanged) event()       {}

// EventStateChanged is emitted on every supervisor state transition.
type EventStateChanged struct {
	From State `json:"from"`
	To   State `json:"to"`
}

func (ev *EventStateChanged) Type() string { return eventStateChanged }
func (ev *EventStateChanged) event()       {}

// EventProcessSpawnError is emitted when the renderer fails to start for any
// reason.
type EventProcessSpawnError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (ev *EventProcessSpawnError) Type() string { return eventProcessSpawnError }
func (ev *EventProcessSpawnError) event()       {}

// EventProcessSpawned is emitted when the renderer has been started.
type EventProcessSpawned struct {
	File string `json:"file"`
	PID  int    `json:"pid"`
}

func (ev *EventProcessSpawned) Type() string { return eventProcessSpawned }
func (ev *EventProcessSpawned) event()       {}

// EventProcessExited is emitted when the renderer has been stopped for any
// reason.
type EventProcessExited struct {
	PID      int    `json:"pid"`
	File     string `json:"file"`
	Error    string `json:"error,omitempty"`
	ExitCode int    `json:"exit_code"` // -1 if killed by a signal
}

// IsGraceful returns true if the process exited on its own terms.
func (ev EventProcessExited) IsGraceful() bool {
	return ev.ExitCode != -1
}

func (ev *EventProcessExited) Type() string { return eventProcessExited }
func (ev *EventProcessExited) event()       {}

// EventShutdownRequested is emitted when a shutdown signal is picked up by the
// control loop.
type EventShutdownRequested struct {
	Signal ShutdownSignal `json:"signal"`
}

func (ev *EventShutdownRequested) Type() string { return eventShutdownRequested }
func (ev *EventShutdownRequested) event()       {}

// EventDependencyNotFound is emitted when a renderer executable is missing.
type EventDependencyNotFound struct {
	Name string `json:"name"`
}

func (ev *EventDependencyNotFound) Type() string { return eventDependencyNotFound }
func (ev *EventDependencyNotFound) event()       {}
