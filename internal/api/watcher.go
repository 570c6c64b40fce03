package api

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const watchDebounce = 100 * time.Millisecond

// FileWatcher watches the board data file for writes made by other
// processes, such as the CLI, and calls onChange once per burst.
//
// The file backend replaces the file by renaming a temp file over it, so
// the parent directory is watched and events are filtered by name.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   log.FieldLogger

	mu      sync.Mutex
	timer   *time.Timer
	stopCh  chan struct{}
	running bool
	stopped bool // once stopped, cannot restart
}

// NewFileWatcher creates a watcher for the data file at path.
func NewFileWatcher(path string, onChange func(), logger log.FieldLogger) (*FileWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("file watcher requires a path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &FileWatcher{
		watcher:  watcher,
		path:     filepath.Clean(path),
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}
	if fw.stopped {
		return fmt.Errorf("file watcher cannot be restarted after stop")
	}
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(fw.path), err)
	}
	fw.running = true
	go fw.run()
	return nil
}

// Stop stops watching and cancels a pending notification.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.stopped = true
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
	fw.mu.Unlock()

	close(fw.stopCh)
	return fw.watcher.Close()
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.WithError(err).Warn("file watcher error")

		case <-fw.stopCh:
			return
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if !fw.relevant(event) {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(watchDebounce, fw.fire)
}

// relevant reports whether event changed the data file's contents.
func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fw.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (fw *FileWatcher) fire() {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return
	}
	fw.timer = nil
	fw.mu.Unlock()

	fw.logger.WithField("path", fw.path).Debug("data file changed")
	fw.onChange()
}
