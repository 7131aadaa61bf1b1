package topaz

import (
	"strings"

	"git.unix.lgbt/diamondburned/topaz/topaz/renderer"
	"github.com/pkg/errors"
)

// CheckDependencies journals every dependency that lookPath can't find, and
// returns an error matching ErrDependencyMissing if there is any. A nil
// lookPath searches $PATH.
func CheckDependencies(lookPath renderer.LookPathFunc, deps []string, j Journaler) error {
	missing := renderer.MissingDependencies(lookPath, deps...)
	if len(missing) == 0 {
		return nil
	}

	for _, name := range missing {
		j.Write(&EventDependencyNotFound{Name: name})
	}

	return withKind(ErrDependencyMissing, errors.Errorf(
		"%s: please install and try again", strings.Join(missing, ", "),
	))
}
