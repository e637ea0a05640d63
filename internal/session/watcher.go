package session

import (
	"github.com/fsnotify/fsnotify"

	"github.com/croftbox/hsworker/internal/logging"
)

// Watcher invalidates cached sessions as soon as the file behind their
// configuration changes, instead of waiting for the next mtime check.
// It is purely an acceleration: the mtime comparison in ValidOrRefresh
// stays authoritative.
type Watcher struct {
	store *Store
	fs    *fsnotify.Watcher
	done  chan struct{}
}

// NewWatcher attaches a file watcher to the store and starts its event
// loop. Close the watcher before discarding the store.
func NewWatcher(store *Store) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store: store,
		fs:    fs,
		done:  make(chan struct{}),
	}

	store.mu.Lock()
	store.watch = w
	store.mu.Unlock()

	go w.loop()

	return w, nil
}

func (w *Watcher) add(path string) error {
	return w.fs.Add(path)
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.store.invalidateByPath(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}

			logging.Logger().Warn("config watcher error", "err", err)
		}
	}
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.store.mu.Lock()
	if w.store.watch == w {
		w.store.watch = nil
	}
	w.store.mu.Unlock()

	close(w.done)

	return w.fs.Close()
}
