package watcher

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/aurdex/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify. It observes the
// metadata source locations so the index can be refreshed on change.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]bool
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: watcher,
		files:     make(map[string]bool),
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching the given paths. Directories are watched
// non-recursively. A path that names a file is watched through its parent
// directory, so replace-by-rename updates are still observed.
func (w *Watcher) Start(ctx context.Context, paths []string) error {
	for _, path := range paths {
		watchPath := path
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			// The file may not exist yet; its parent directory does.
			w.files[filepath.Clean(path)] = true
			watchPath = filepath.Dir(path)
		}
		if err := w.fsWatcher.Add(watchPath); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// processEvents converts raw fsnotify events to ports.WatchEvent.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			watchEvent := convertEvent(event)
			if watchEvent == nil {
				continue
			}
			select {
			case w.events <- *watchEvent:
			case <-ctx.Done():
				return
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant drops sibling noise from parent directories that are only
// watched on behalf of a single tracked file.
func (w *Watcher) relevant(path string) bool {
	clean := filepath.Clean(path)
	if w.files[clean] {
		return true
	}
	return !w.inFileParent(clean)
}

// inFileParent reports whether path sits in a directory we only watch
// because a tracked file lives there.
func (w *Watcher) inFileParent(path string) bool {
	dir := filepath.Dir(path)
	for file := range w.files {
		if filepath.Dir(file) == dir {
			return true
		}
	}
	return false
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
func convertEvent(event fsnotify.Event) *ports.WatchEvent {
	ops := []struct {
		fs fsnotify.Op
		op ports.WatchOp
	}{
		{fsnotify.Write, ports.OpWrite},
		{fsnotify.Create, ports.OpCreate},
		{fsnotify.Remove, ports.OpRemove},
		{fsnotify.Rename, ports.OpRename},
	}
	for _, m := range ops {
		if event.Op&m.fs == m.fs {
			return &ports.WatchEvent{Path: event.Name, Operation: m.op}
		}
	}
	return nil
}
