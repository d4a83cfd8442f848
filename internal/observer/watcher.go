package observer

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a watched file changes
type ChangeCallback func(path string)

// ConfigWatcher monitors configuration files and fires a debounced
// callback when one changes. Editors and atomic saves produce bursts
// of events for a single logical change, so the directory is watched
// and rapid events are coalesced.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	callback ChangeCallback
	debounce time.Duration

	// Absolute paths of the files we care about
	files map[string]struct{}
	// Directories currently added to the fsnotify watcher
	dirs map[string]struct{}

	pending map[string]struct{}
	timer   *time.Timer
	mu      sync.Mutex

	cancel context.CancelFunc
}

// NewConfigWatcher creates a watcher with a 500ms debounce
func NewConfigWatcher(callback ChangeCallback) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		watcher:  watcher,
		callback: callback,
		debounce: 500 * time.Millisecond,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		pending:  make(map[string]struct{}),
	}, nil
}

// AddFile starts watching a file. The parent directory is watched so
// rename-over saves are still seen.
func (cw *ConfigWatcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()

	if _, exists := cw.files[abs]; exists {
		return nil
	}

	dir := filepath.Dir(abs)
	if _, watched := cw.dirs[dir]; !watched {
		if err := cw.watcher.Add(dir); err != nil {
			return err
		}
		cw.dirs[dir] = struct{}{}
	}

	cw.files[abs] = struct{}{}
	return nil
}

// Start begins watching for file changes
func (cw *ConfigWatcher) Start(ctx context.Context) {
	ctx, cw.cancel = context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-cw.watcher.Events:
				if !ok {
					return
				}
				cw.handleEvent(event)
			case _, ok := <-cw.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// Stop stops watching for file changes
func (cw *ConfigWatcher) Stop() {
	if cw.cancel != nil {
		cw.cancel()
	}
	cw.watcher.Close()
}

func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()

	if _, watched := cw.files[abs]; !watched {
		return
	}

	cw.pending[abs] = struct{}{}

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.flush)
}

func (cw *ConfigWatcher) flush() {
	cw.mu.Lock()
	pending := cw.pending
	cw.pending = make(map[string]struct{})
	cw.mu.Unlock()

	if cw.callback == nil {
		return
	}

	for path := range pending {
		cw.callback(path)
	}
}

// SetDebounce sets the debounce duration for batching file changes
func (cw *ConfigWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.debounce = d
}
