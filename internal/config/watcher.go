package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher reloads a configuration file when it changes on disk.
type Watcher struct {
	watcher   *fsnotify.Watcher
	filePath  string
	debounce  time.Duration
	onReload  func(*Config)
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewWatcher creates a Watcher for filePath. After a change settles for the
// debounce interval the file is loaded again; onReload receives the new
// Config and onError receives load and watch failures. A config that fails
// to load or validate is reported and not passed to onReload.
func NewWatcher(filePath string, debounce time.Duration, onReload func(*Config), onError func(error)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Watch the directory so editors that save by rename are still seen.
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		watcher:   watcher,
		filePath:  filePath,
		debounce:  debounce,
		onReload:  onReload,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching for file changes in a goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.watchLoop()
}

// Stop stops the watcher and waits for its goroutine to exit. A Watcher
// that was never started only releases its fsnotify handle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Watcher) watchLoop() {
	defer close(w.stoppedCh)
	defer w.watcher.Close()

	absPath, _ := filepath.Abs(w.filePath)
	baseName := filepath.Base(w.filePath)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceTimer = nil
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.filePath)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
