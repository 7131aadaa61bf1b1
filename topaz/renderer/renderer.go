// Package renderer describes the external programs that draw the wallpaper.
package renderer

import (
	"os/exec"
	"strings"
)

// Dependencies are the executables that must be in $PATH.
var Dependencies = []string{"xwinwrap", "mpv"}

// ArgsTemplate is an argv into which the media file is appended as the last
// argument.
type ArgsTemplate []string

// DefaultTemplate runs mpv inside an xwinwrap desktop window at a low
// priority, looping the media file without audio.
var DefaultTemplate = ArgsTemplate{
	"nice",
	"xwinwrap", "-b", "-s", "-fs", "-st", "-sp", "-nf", "-ov", "-fdt",
	"--",
	"mpv", "-wid", "%WID",
	"--loop",
	"--no-audio",
	"--panscan=1.0",
	"--framedrop=vo",
}

// Argv returns a new argv with file as its final argument.
func (tmpl ArgsTemplate) Argv(file string) []string {
	argv := make([]string, 0, len(tmpl)+1)
	argv = append(argv, tmpl...)
	return append(argv, file)
}

// String returns the template joined with spaces.
func (tmpl ArgsTemplate) String() string {
	return strings.Join(tmpl, " ")
}

// LookPathFunc resolves an executable name. It has the signature of
// exec.LookPath.
type LookPathFunc func(name string) (string, error)

// MissingDependencies returns the names in deps that lookPath cannot resolve.
// A nil lookPath uses exec.LookPath.
func MissingDependencies(lookPath LookPathFunc, deps ...string) []string {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var missing []string
	for _, dep := range deps {
		if _, err := lookPath(dep); err != nil {
			missing = append(missing, dep)
		}
	}

	return missing
}

// ExistsInPath returns true if name is an executable in $PATH.
func ExistsInPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
