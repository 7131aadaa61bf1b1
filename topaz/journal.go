package topaz

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// Journaler describes an event logger.
type Journaler interface {
	Write(Event) error
}

// JournalReader describes a journal that can be read from the newest entry to
// the oldest. Read returns io.EOF once the oldest entry has been consumed.
type JournalReader interface {
	Read() (Event, time.Time, error)
}

// JournalReadWriter is both a Journaler and a JournalReader.
type JournalReadWriter interface {
	Journaler
	JournalReader
}

// PreviousState is what the journal says about the last topaz session.
type PreviousState struct {
	// Process is the last spawned renderer. It is nil if the renderer was
	// stopped, or if it was never started in the last session.
	Process *EventProcessSpawned
	// State is the last state the supervisor transitioned into.
	State State
	// Time is the time of the newest entry in the journal.
	Time time.Time
}

// ReadPreviousState reads the journal backwards until it knows enough about
// the last session. Reading stops at the session boundary, which is the
// EventAcquired written when the journal lock was taken.
func ReadPreviousState(r JournalReader) (*PreviousState, error) {
	var state PreviousState
	var seenProc, seenState bool

	for !(seenProc && seenState) {
		ev, t, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrap(err, "failed to read journal")
		}

		if state.Time.IsZero() {
			state.Time = t
		}

		switch ev := ev.(type) {
		case *EventAcquired:
			return &state, nil
		case *EventStateChanged:
			if !seenState {
				state.State = ev.To
				seenState = true
			}
		case *EventProcessSpawned:
			if !seenProc {
				state.Process = ev
				seenProc = true
			}
		case *EventProcessExited:
			seenProc = true
		}
	}

	return &state, nil
}
