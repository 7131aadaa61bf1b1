package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "topaz", "renderer.log")

	out, err := NewOutput(path)
	require.NoError(t, err)

	_, err = out.Write([]byte("[mpv] playing\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[mpv] playing\n", string(b))
}
