package topaz

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalListener(t *testing.T) {
	l := ListenSignals()
	t.Cleanup(l.Stop)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sig, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, ShutdownTerminate, sig)
}

func TestSignalListenerCanceled(t *testing.T) {
	l := ListenSignals()
	l.Stop()
	l.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranslateSignal(t *testing.T) {
	assert.Equal(t, ShutdownInterrupt, translateSignal(syscall.SIGINT))
	assert.Equal(t, ShutdownTerminate, translateSignal(syscall.SIGTERM))
}
