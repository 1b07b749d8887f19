package gps

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"gpstaild/pkg/log"
)

var ErrWatchArmed = errors.New("watch is already armed")

// oneShotWatch delivers at most one change notification per arm. The session
// re-arms only after it has fully drained the log for a pass, so a burst of
// driver appends never floods an in-flight read.
type oneShotWatch struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// arm registers a watch on dir and calls fn once when the entry called name
// is written, created or renamed into place. The watch disarms itself before
// fn runs.
func (w *oneShotWatch) arm(dir string, name string, fn func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return ErrWatchArmed
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	go w.deliver(fw, filepath.Join(dir, name), fn)

	return nil
}

func (w *oneShotWatch) deliver(fw *fsnotify.Watcher, path string, fn func()) {
	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Name != path {
				continue
			}
			// Create also covers files moved into place over the log
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.disarm()
				fn()
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Warn("file watch error", zap.Error(err))
		}
	}
}

// disarm is idempotent, disarming an unarmed watch is a no-op.
func (w *oneShotWatch) disarm() {
	w.mu.Lock()
	fw := w.watcher
	w.watcher = nil
	w.mu.Unlock()

	if fw != nil {
		_ = fw.Close()
	}
}

// armed reports whether a registration is currently live.
func (w *oneShotWatch) armed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.watcher != nil
}
