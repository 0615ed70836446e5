// Package watcher provides debounced file system watching for the
// browsed document directory.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/pubsub"
)

// WatcherEventType distinguishes watcher notifications.
type WatcherEventType int

const (
	// DirChanged is published once per burst of matching file changes.
	DirChanged WatcherEventType = iota
	// WatcherError carries an error reported by the OS watcher.
	WatcherError
)

// WatcherEvent is the payload published on the watcher's broker.
type WatcherEvent struct {
	Type  WatcherEventType
	Error error
}

// Watcher monitors a directory for document changes and publishes
// notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	match     func(path string) bool
	debounce  time.Duration
	broker    *pubsub.Broker[WatcherEvent]
	done      chan struct{}
	// watched holds every directory added to fsWatcher. Owned by Start,
	// then by loop.
	watched map[string]bool
}

// Config holds watcher configuration options.
type Config struct {
	Dir string
	// Match selects the files whose changes matter. Nil matches every file.
	Match       func(path string) bool
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dir string, match func(path string) bool) Config {
	return Config{
		Dir:         dir,
		Match:       match,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a new directory watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		match:     cfg.Match,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[WatcherEvent](),
		done:      make(chan struct{}),
		watched:   make(map[string]bool),
	}, nil
}

// Broker returns the broker watcher events are published on.
// Subscribe before Start to see every event.
func (w *Watcher) Broker() *pubsub.Broker[WatcherEvent] {
	return w.broker
}

// Start begins watching the directory and every non-hidden directory
// below it.
func (w *Watcher) Start() error {
	if err := w.addTree(w.dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	log.Debug(log.CatWatcher, "Watching directory", "dir", w.dir, "dirs", len(w.watched), "debounce", w.debounce)

	go w.loop()

	return nil
}

// addTree adds root and its non-hidden subdirectories. Only a failure on
// root is returned; subdirectories that cannot be added are logged.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn(log.CatWatcher, "Skipping unreadable directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.dir && isHidden(path) {
			return filepath.SkipDir
		}
		if w.watched[path] {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			if path == root {
				return err
			}
			log.Warn(log.CatWatcher, "Cannot watch directory", "path", path, "error", err)
			return filepath.SkipDir
		}
		w.watched[path] = true
		return nil
	})
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Stop terminates the watcher and releases resources. Subscriber channels
// are closed.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.broker.Close()
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			dirChanged := w.handleDirEvent(event)
			if !dirChanged && !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				log.Debug(log.CatWatcher, "Directory changed", "dir", w.dir)
				w.broker.Publish(pubsub.ChangedEvent, WatcherEvent{Type: DirChanged})
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err, "dir", w.dir)
			w.broker.Publish(pubsub.ChangedEvent, WatcherEvent{Type: WatcherError, Error: err})

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// handleDirEvent tracks directories appearing and disappearing below the
// root. It reports whether the event changes which documents exist.
func (w *Watcher) handleDirEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if !w.watched[event.Name] {
			return false
		}
		// fsnotify drops the watch itself.
		prefix := event.Name + string(filepath.Separator)
		for dir := range w.watched {
			if dir == event.Name || strings.HasPrefix(dir, prefix) {
				delete(w.watched, dir)
			}
		}
		return true
	}
	if event.Op&fsnotify.Create == 0 || isHidden(event.Name) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return false
	}
	// Files created before the watch was added are caught by the rescan.
	if err := w.addTree(event.Name); err != nil {
		log.Warn(log.CatWatcher, "Cannot watch new directory", "path", event.Name, "error", err)
	}
	return true
}

// isRelevantEvent checks if the event should trigger a rescan. Removes
// and renames count, since the document list shrinks.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.match == nil || w.match(event.Name)
}
