// Package watcher observes backed-up home paths for changes and fires a
// debounced callback, so the watch command can refresh backups
// automatically instead of on a timer.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/backmey/backmey/internal/logging"
)

// DefaultDebounce batches bursts of filesystem events into one trigger.
const DefaultDebounce = 30 * time.Second

// Watcher wraps an fsnotify watcher with per-burst debouncing. Desktop
// applications rewrite config files constantly; without the quiet
// period every saved file would trigger a full backup.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher that calls onChange after the debounce window
// closes on a burst of events.
func New(debounce time.Duration, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback cannot be nil")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fs:       fs,
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}, nil
}

// Add watches a path. Directories are watched recursively one level
// deep per subdirectory found now; paths that do not exist are skipped.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := w.fs.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(path, func(sub string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || sub == path {
			return nil
		}
		if err := w.fs.Add(sub); err != nil {
			log := logging.Get("watcher")
			log.Debug().Str("path", sub).Err(err).Msg("watch failed")
		}
		return nil
	})
}

// Start begins processing events until Stop is called.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	log := logging.Get("watcher")

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change observed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			w.onChange()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watch error")
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop halts event processing and releases the underlying watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()
	return w.fs.Close()
}
