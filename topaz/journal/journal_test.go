package journal

import (
	"bytes"
	"path/filepath"
	"testing"

	"git.unix.lgbt/diamondburned/topaz/topaz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	events := []topaz.Event{
		&topaz.EventAcquired{},
		&topaz.EventProcessSpawned{PID: 10, File: "/media/x.mp4"},
		&topaz.EventStateChanged{From: topaz.StateStarting, To: topaz.StateRunning},
	}

	for _, ev := range events {
		require.NoError(t, w.Write(ev))
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))

	for i := len(events) - 1; i >= 0; i-- {
		ev, tm, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, events[i], ev)
		assert.False(t, tm.IsZero())
	}

	_, _, err := r.Read()
	assert.Error(t, err)
}

func TestReadPreviousState(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Write(&topaz.EventAcquired{})
	w.Write(&topaz.EventProcessSpawned{PID: 10, File: "/media/x.mp4"})
	w.Write(&topaz.EventStateChanged{From: topaz.StateStarting, To: topaz.StateRunning})

	state, err := ReadPreviousState(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, topaz.StateRunning, state.State)
	assert.Equal(t, &topaz.EventProcessSpawned{PID: 10, File: "/media/x.mp4"}, state.Process)
}

func TestReadUnknownEvent(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte(`{"type":"bogus","data":{}}` + "\n")))

	_, _, err := r.Read()
	assert.Error(t, err)
}

func TestFileLockJournaler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topaz", "journal.json")

	j, err := NewFileLockJournaler(path)
	require.NoError(t, err)

	require.NoError(t, j.Write(&topaz.EventAcquired{}))
	require.NoError(t, j.Write(&topaz.EventProcessSpawned{PID: 3, File: "/media/x.mp4"}))

	_, err = NewFileLockJournaler(path)
	assert.True(t, errors.Is(err, ErrLockedElsewhere), "unexpected error: %v", err)

	locked, err := IsLocked(path)
	require.NoError(t, err)
	assert.True(t, locked)

	// Reading needs no lock.
	state, err := ReadPreviousStateFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, &topaz.EventProcessSpawned{PID: 3, File: "/media/x.mp4"}, state.Process)

	require.NoError(t, j.Close())

	locked, err = IsLocked(path)
	require.NoError(t, err)
	assert.False(t, locked)

	j, err = NewFileLockJournaler(path)
	require.NoError(t, err, "lock not released on close")
	require.NoError(t, j.Close())
}

func TestIsLockedMissing(t *testing.T) {
	locked, err := IsLocked(filepath.Join(t.TempDir(), "journal.json"))
	require.NoError(t, err)
	assert.False(t, locked)
}

type recordJournal struct {
	events []topaz.Event
	err    error
}

func (j *recordJournal) Write(ev topaz.Event) error {
	j.events = append(j.events, ev)
	return j.err
}

func TestMultiWriter(t *testing.T) {
	failing := &recordJournal{err: errors.New("disk full")}
	ok := &recordJournal{}

	w := MultiWriter(failing, ok)

	err := w.Write(&topaz.EventAcquired{})
	assert.EqualError(t, err, "disk full")
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1, "later writer skipped after error")
}
