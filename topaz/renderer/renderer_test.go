package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgv(t *testing.T) {
	tmpl := ArgsTemplate{"nice", "mpv", "--loop"}

	argv := tmpl.Argv("/media/x.mp4")
	assert.Equal(t, []string{"nice", "mpv", "--loop", "/media/x.mp4"}, argv)

	argv[0] = "changed"
	assert.Equal(t, "nice", tmpl[0], "template was modified through argv")

	last := DefaultTemplate.Argv("/media/y.mp4")
	assert.Equal(t, "/media/y.mp4", last[len(last)-1])
	assert.Len(t, last, len(DefaultTemplate)+1)
}

func TestMissingDependencies(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "mpv" {
			return "/usr/bin/mpv", nil
		}
		return "", errors.New("not found")
	}

	assert.Equal(t, []string{"xwinwrap"}, MissingDependencies(lookPath, Dependencies...))
	assert.Empty(t, MissingDependencies(lookPath, "mpv"))
}

func TestExistsInPath(t *testing.T) {
	assert.True(t, ExistsInPath("sh"))
	assert.False(t, ExistsInPath("topaz-does-not-exist"))
}
