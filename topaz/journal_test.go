package topaz

import (
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockJournal is an in-memory storage of journals, primarily used for testing.
// A zero-value instance is a valid instance.
type mockJournal struct {
	mutex    sync.Mutex
	journals []Event
}

var _ Journaler = (*mockJournal)(nil)

// Write appends a journal event into the internal store.
func (m *mockJournal) Write(ev Event) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.journals = append(m.journals, ev)
	return nil
}

// Journals returns a copy of the journal slice.
func (m *mockJournal) Journals() []Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]Event(nil), m.journals...)
}

// Filter returns only the events that have one of the given types.
func (m *mockJournal) Filter(types ...string) []Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var filtered []Event
	for _, ev := range m.journals {
		for _, typ := range types {
			if ev.Type() == typ {
				filtered = append(filtered, ev)
				break
			}
		}
	}
	return filtered
}

// Verify verifies that the given journals slice is equal to the one stored
// internally. If strict is true, then a length check is performed, otherwise,
// the unmatched events are returned.
//
// Consecutive calls to Verify will match the remaining unmatched events.
func (m *mockJournal) Verify(t *testing.T, strict bool, journals []Event) []Event {
	t.Helper()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if strict && len(journals) != len(m.journals) {
		t.Errorf("mismatch journal length, got %d, expected %d", len(m.journals), len(journals))
		return nil
	}

	if len(journals) > len(m.journals) {
		t.Errorf("journal too short, got %d, expected at least %d", len(m.journals), len(journals))
		return nil
	}

	for i, ev := range journals {
		if !reflect.DeepEqual(m.journals[i], ev) {
			t.Errorf("journal %d mismatch, got %#v, expected %#v", i, m.journals[i], ev)
		}
	}

	m.journals = m.journals[len(journals):]
	return m.journals
}

// sliceReader reads the given events from the last one to the first one.
type sliceReader struct {
	events []Event
}

func (r *sliceReader) Read() (Event, time.Time, error) {
	if len(r.events) == 0 {
		return nil, time.Time{}, io.EOF
	}

	last := len(r.events) - 1
	ev := r.events[last]
	r.events = r.events[:last]

	return ev, time.Unix(int64(last), 0), nil
}

func TestReadPreviousState(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		state, err := ReadPreviousState(&sliceReader{[]Event{
			&EventAcquired{},
			&EventProcessSpawned{PID: 1, File: "/media/x.mp4"},
			&EventStateChanged{From: StateStarting, To: StateRunning},
			&EventProcessExited{PID: 1, File: "/media/x.mp4"},
			&EventProcessSpawned{PID: 2, File: "/media/y.mp4"},
			&EventStateChanged{From: StateReloadingConfig, To: StateRunning},
		}})
		require.NoError(t, err)

		assert.Equal(t, StateRunning, state.State)
		assert.Equal(t, &EventProcessSpawned{PID: 2, File: "/media/y.mp4"}, state.Process)
		assert.Equal(t, time.Unix(5, 0), state.Time)
	})

	t.Run("stopped", func(t *testing.T) {
		state, err := ReadPreviousState(&sliceReader{[]Event{
			&EventAcquired{},
			&EventProcessSpawned{PID: 1, File: "/media/x.mp4"},
			&EventStateChanged{From: StateRunning, To: StateShuttingDown},
			&EventProcessExited{PID: 1, File: "/media/x.mp4"},
			&EventStateChanged{From: StateShuttingDown, To: StateStopped},
		}})
		require.NoError(t, err)

		assert.Equal(t, StateStopped, state.State)
		assert.Nil(t, state.Process)
	})

	t.Run("session boundary", func(t *testing.T) {
		state, err := ReadPreviousState(&sliceReader{[]Event{
			&EventAcquired{},
			&EventProcessSpawned{PID: 1, File: "/media/x.mp4"},
			&EventAcquired{},
			&EventStateChanged{From: StateStarting, To: StateStopped},
		}})
		require.NoError(t, err)

		assert.Equal(t, StateStopped, state.State)
		assert.Nil(t, state.Process, "process from an older session leaked")
	})

	t.Run("empty", func(t *testing.T) {
		state, err := ReadPreviousState(&sliceReader{})
		require.NoError(t, err)

		assert.Equal(t, &PreviousState{}, state)
	})
}
