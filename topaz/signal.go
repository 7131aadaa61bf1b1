package topaz

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignal is the OS request that ends the supervisor.
type ShutdownSignal string

const (
	ShutdownInterrupt ShutdownSignal = "interrupt"
	ShutdownTerminate ShutdownSignal = "terminate"
)

// SignalListener waits for SIGINT or SIGTERM. It fires only once.
type SignalListener struct {
	done chan ShutdownSignal
	sigs chan os.Signal
	stop chan struct{}
}

// ListenSignals starts listening for SIGINT and SIGTERM.
func ListenSignals() *SignalListener {
	l := &SignalListener{
		done: make(chan ShutdownSignal, 1),
		sigs: make(chan os.Signal, 1),
		stop: make(chan struct{}),
	}

	signal.Notify(l.sigs, syscall.SIGINT, syscall.SIGTERM)
	go l.listen()

	return l
}

func (l *SignalListener) listen() {
	defer signal.Stop(l.sigs)

	select {
	case sig := <-l.sigs:
		l.done <- translateSignal(sig)
	case <-l.stop:
	}
}

// Done returns a channel that receives the shutdown signal once.
func (l *SignalListener) Done() <-chan ShutdownSignal {
	return l.done
}

// Wait blocks until a shutdown signal arrives or ctx is canceled.
func (l *SignalListener) Wait(ctx context.Context) (ShutdownSignal, error) {
	select {
	case sig := <-l.done:
		return sig, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop stops listening. Signals arriving afterwards get their default
// behavior back.
func (l *SignalListener) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

func translateSignal(sig os.Signal) ShutdownSignal {
	if sig == syscall.SIGTERM {
		return ShutdownTerminate
	}
	return ShutdownInterrupt
}
