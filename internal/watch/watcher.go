// Package watch reports directories whose listing changed on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"colfm/internal/log"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// relevant is the set of operations that change a listing.
const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename | fsnotify.Chmod

// Watcher monitors a small, changing set of directories using fsnotify.
type Watcher struct {
	// Directories being watched
	directories map[string]bool

	// Changed directories are delivered here
	changes chan string

	stopChan  chan struct{}
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	stopped bool
}

// New creates a watcher that watches nothing yet.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: make(map[string]bool),
		changes:     make(chan string, 64),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// Watch replaces the watched set with dirs. Paths that cannot be watched are
// logged and skipped.
func (w *Watcher) Watch(dirs ...string) {
	want := lo.SliceToMap(lo.Compact(dirs), func(d string) (string, bool) {
		return filepath.Clean(d), true
	})

	w.mutex.Lock()
	defer w.mutex.Unlock()

	for dir := range w.directories {
		if want[dir] {
			continue
		}
		if err := w.fsWatcher.Remove(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("unwatch failed")
		}
		delete(w.directories, dir)
	}
	for dir := range want {
		if w.directories[dir] {
			continue
		}
		if err := w.add(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("watch failed")
			continue
		}
		w.directories[dir] = true
	}
}

func (w *Watcher) add(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	return nil
}

// Changes delivers the path of every watched directory whose content
// changed. Bursts may be coalesced or dropped when the reader falls behind.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Directories returns the watched paths.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return lo.Keys(w.directories)
}

// dirOf maps an event to the watched directory it affects.
func (w *Watcher) dirOf(name string) (string, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	name = filepath.Clean(name)
	if dir := filepath.Dir(name); w.directories[dir] {
		return dir, true
	}
	// The watched directory itself was removed or renamed.
	if w.directories[name] {
		return name, true
	}
	return "", false
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if w.stopped {
		w.mutex.Unlock()
		return fmt.Errorf("watcher stopped")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go func() {
		defer close(w.changes)
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				if event.Op&relevant == 0 {
					continue
				}
				dir, ok := w.dirOf(event.Name)
				if !ok {
					continue
				}
				select {
				case w.changes <- dir:
				case <-stop:
					return
				default:
					log.LogWithFields(log.F("directory", dir)).Debug("change channel full, dropped event")
				}

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Warn("fsnotify watcher error")

			case <-stop:
				return
			}
		}
	}()

	log.Debug("watcher started")
	return nil
}

// Stop ends the event loop, which then closes the Changes channel. A stopped
// watcher cannot be started again.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.stopped {
		return
	}
	if w.running {
		close(w.stopChan)
	}
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	w.stopped = true
	log.Debug("watcher stopped")
}

// IsRunning returns whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
