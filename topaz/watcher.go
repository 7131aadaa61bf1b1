package topaz

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// WatchOp is the kind of change observed on the configuration file.
type WatchOp string

const (
	WatchCreated  WatchOp = "created"
	WatchModified WatchOp = "modified"
	WatchOther    WatchOp = "other"
)

// WatchEvent is a change observed on the configuration file.
type WatchEvent struct {
	Op   WatchOp
	Path string
}

// Reloads returns true if the event should cause the configuration to be
// reloaded.
func (ev WatchEvent) Reloads() bool {
	return ev.Op == WatchCreated || ev.Op == WatchModified
}

// Watcher is a topaz watcher that watches a single file. The parent directory
// is what's actually watched, so that editors replacing the file by renaming
// over it are still noticed; events on other files are dropped.
type Watcher struct {
	Events chan WatchEvent

	w    *fsnotify.Watcher
	j    Journaler
	path string
}

// NewWatcher watches the given file and sends its events into Events. The
// watcher is stopped once the given context is canceled. An error matching
// ErrWatch is returned if the watch can't be established.
func NewWatcher(ctx context.Context, path string, j Journaler) (*Watcher, error) {
	path = filepath.Clean(path)

	w := &Watcher{
		Events: make(chan WatchEvent),
		j:      j,
		path:   path,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, withKind(ErrWatch, errors.Wrap(err, "failed to create watcher"))
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, withKind(ErrWatch, errors.Wrap(err, "failed to watch config dir"))
	}

	w.w = watcher

	go w.watch(ctx)
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

func (w *Watcher) watch(ctx context.Context) {
	defer w.w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}

			w.j.Write(&EventWarning{
				Component: "watcher",
				Error:     "inotify error: " + err.Error(),
			})

		case evt, ok := <-w.w.Events:
			if !ok {
				return
			}

			event, ok := translateFsnotifyEvt(evt, w.path)
			if !ok {
				continue
			}

			select {
			case w.Events <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

// translateFsnotifyEvt translates an fsnotify event into a WatchEvent. False is
// returned if the event is not about the given path.
func translateFsnotifyEvt(evt fsnotify.Event, path string) (WatchEvent, bool) {
	if filepath.Clean(evt.Name) != path {
		return WatchEvent{}, false
	}

	switch {
	case evt.Op&fsnotify.Create != 0:
		return WatchEvent{Op: WatchCreated, Path: path}, true
	case evt.Op&fsnotify.Write != 0:
		return WatchEvent{Op: WatchModified, Path: path}, true
	default:
		return WatchEvent{Op: WatchOther, Path: path}, true
	}
}

func (ev WatchEvent) String() string {
	return fmt.Sprintf("%s %s", ev.Op, ev.Path)
}
