// Package exec provides an abstraction around the renderer's process group
// for easier testing.
package exec

import (
	"io"
	"os"
)

// Process describes a started command. Signals are delivered to the whole
// process group, since the renderer is a chain of programs.
type Process interface {
	PID() int
	Signal(os.Signal) error
	Kill() error
	// Wait blocks until the process has exited. It may be called any number
	// of times, from any goroutine.
	Wait() ExitStatus
}

// ExitStatus is a process' exit status.
type ExitStatus struct {
	PID   int
	Code  int // -1 if killed by a signal
	Error error
}

// Options describes where the output of a started process goes. Nil writers
// discard the output.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// StartFunc starts argv.
type StartFunc func(argv []string) (Process, error)
