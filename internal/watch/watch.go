// Package watch reloads the gesture configuration when another process
// rewrites one of the stored configuration files.
package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits for writes to settle.
const DefaultDelay = 150 * time.Millisecond

// ErrClosed is returned when using a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Watcher calls onChange, debounced, after a watched file is written or
// created. Files are watched through their parent directories so atomic
// replace-by-rename is seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool // absolute paths
	delay    time.Duration
	onChange func()

	debouncer utils.Debouncer
	mu        sync.Mutex
	closed    bool
	done      chan struct{}
	wg        sync.WaitGroup
}

// New starts watching files. Missing parent directories are created.
func New(onChange func(), delay time.Duration, files ...string) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool, len(files)),
		delay:    delay,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving '%s': %w", f, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("creating '%s': %w", dir, err)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching '%s': %w", dir, err)
		}
		dirs[dir] = true
		logger.DebugTagf("watch", "Watching %s", dir)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			logger.DebugTagf("watch", "Detected %s on %s", ev.Op, ev.Name)
			w.debouncer.Debounce(w.delay, w.fire)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnf("File watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	w.onChange()
}

// Close stops watching. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.debouncer.Stop()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
