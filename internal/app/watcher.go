package app

import (
	"os"
	"sync"
	"time"
)

// DefaultWatchInterval is how often a Watcher polls the file.
const DefaultWatchInterval = time.Second

// Watcher polls a file's modification time and calls a callback when the
// file changes, so an illustration being edited is shown live.
type Watcher struct {
	path          string
	checkInterval time.Duration

	mu       sync.Mutex
	baseline time.Time
	stopCh   chan struct{}
	onChange func()
}

// NewWatcher creates a watcher for path. The file must exist.
func NewWatcher(path string, checkInterval time.Duration) (*Watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if checkInterval <= 0 {
		checkInterval = DefaultWatchInterval
	}
	return &Watcher{
		path:          path,
		checkInterval: checkInterval,
		baseline:      info.ModTime(),
	}, nil
}

// OnChange sets the callback to invoke when the file changes. The callback
// runs on the watcher goroutine.
func (w *Watcher) OnChange(callback func()) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		return
	}
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine. A stopped watcher can be started again.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *Watcher) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if w.Check() {
				w.mu.Lock()
				cb := w.onChange
				w.mu.Unlock()
				if cb != nil {
					cb()
				}
			}
		}
	}
}

// Check reports whether the file changed since the last check and moves the
// baseline forward. A file that is temporarily missing, as during an
// editor's save, is not a change.
func (w *Watcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return false
	}
	w.baseline = info.ModTime()
	return true
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}
