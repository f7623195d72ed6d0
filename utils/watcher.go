package utils

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FileWatcher watches files for changes and calls back once the writes settle.
// Callbacks never run concurrently.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	logger    *zap.Logger
	debounce  time.Duration
	mu        sync.Mutex
	run       sync.Mutex
	callbacks map[string]func(string)
	timers    map[string]*time.Timer
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(debounce time.Duration, logger *zap.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWatcher{
		watcher:   watcher,
		logger:    logger,
		debounce:  debounce,
		callbacks: make(map[string]func(string)),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch registers the callback for the files. The parent directories are
// watched so that editors replacing the file on save are still noticed.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve path %s", file)
		}
		if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return errors.Wrapf(err, "failed to watch %s", absPath)
		}
		fw.callbacks[absPath] = callback
	}
	return nil
}

// Start begins watching for file changes until Close is called.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					fw.handleFileChange(event.Name)
				}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()
}

// handleFileChange restarts the debounce timer of the file.
func (fw *FileWatcher) handleFileChange(name string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	path, err := filepath.Abs(name)
	if err != nil {
		return
	}
	callback, exists := fw.callbacks[path]
	if !exists {
		return
	}
	if timer, exists := fw.timers[path]; exists {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.run.Lock()
		defer fw.run.Unlock()
		callback(path)
	})
}

// Close stops the watcher and the pending timers.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
