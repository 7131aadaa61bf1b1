package journal

import (
	"testing"

	"git.unix.lgbt/diamondburned/topaz/topaz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWriter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := NewZapWriter(zap.New(core))

	require.NoError(t, w.Write(&topaz.EventProcessSpawned{PID: 7, File: "/media/x.mp4"}))
	require.NoError(t, w.Write(&topaz.EventWarning{Component: "watcher", Error: "inotify error"}))
	// Below the level.
	require.NoError(t, w.Write(&topaz.EventStateChanged{From: topaz.StateStarting, To: topaz.StateRunning}))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, "process spawned", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{"pid": int64(7), "file": "/media/x.mp4"}, entries[0].ContextMap())

	assert.Equal(t, "warning", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "watcher", entries[1].ContextMap()["component"])
}
