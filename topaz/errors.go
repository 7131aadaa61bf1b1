package topaz

import (
	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package matches exactly one of
// these through errors.Is, while still carrying its cause.
var (
	// ErrConfigIO is returned when the configuration file or its directory
	// cannot be created or read.
	ErrConfigIO = errors.New("config I/O error")
	// ErrMissingKey is returned when the configuration lacks a required key.
	ErrMissingKey = errors.New("missing required config key")
	// ErrLaunch is returned when the renderer fails to start.
	ErrLaunch = errors.New("failed to launch renderer")
	// ErrTerminate is returned when the renderer could not be signaled or did
	// not exit in time. It is never fatal.
	ErrTerminate = errors.New("failed to terminate renderer")
	// ErrWatch is returned when the configuration file cannot be watched.
	ErrWatch = errors.New("failed to watch config")
	// ErrDependencyMissing is returned when a renderer executable is not in
	// $PATH.
	ErrDependencyMissing = errors.New("dependency not found in $PATH")
)

type kindError struct {
	kind error
	err  error
}

// withKind marks err as being of the given kind. A nil err yields a nil error.
func withKind(kind, err error) error {
	if err == nil {
		return nil
	}
	return kindError{kind, err}
}

func (err kindError) Error() string {
	return err.kind.Error() + ": " + err.err.Error()
}

func (err kindError) Is(target error) bool { return target == err.kind }
func (err kindError) Unwrap() error        { return err.err }
