package topaz

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	defaults, err := DefaultOptions("topaz")
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		opts, err := LoadOptions(defaults, nil, "TOPAZTEST_")
		require.NoError(t, err)

		assert.Equal(t, Options{
			Config:      filepath.Join("/xdg/config", "topaz", "topaz.conf"),
			Journal:     filepath.Join("/xdg/config", "topaz", "journal.json"),
			RendererLog: filepath.Join("/xdg/cache", "topaz", "renderer.log"),
			WaitTimeout: ProcessWaitTimeout,
		}, opts)
	})

	t.Run("env then overrides", func(t *testing.T) {
		t.Setenv("TOPAZTEST_WAIT_TIMEOUT", "3s")
		t.Setenv("TOPAZTEST_VERBOSE", "true")
		t.Setenv("TOPAZTEST_CONFIG", "/env/topaz.conf")

		opts, err := LoadOptions(defaults, map[string]interface{}{
			"config": "/flag/topaz.conf",
		}, "TOPAZTEST_")
		require.NoError(t, err)

		assert.Equal(t, 3*time.Second, opts.WaitTimeout)
		assert.True(t, opts.Verbose)
		assert.Equal(t, "/flag/topaz.conf", opts.Config)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TOPAZTEST_WAIT_TIMEOUT", "soon")

		_, err := LoadOptions(defaults, nil, "TOPAZTEST_")
		assert.Error(t, err)
	})
}
