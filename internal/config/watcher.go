package config

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a settings file when it changes on disk and pushes the
// checkpoint flags into a Toggles.
//
// The parent directory is watched rather than the file itself, because
// editors and Save replace the file by renaming over it.
type Watcher struct {
	path     string
	toggles  *Toggles
	logger   *log.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	onReload func(File)
}

// NewWatcher creates a watcher for path. Call Run to start it.
func NewWatcher(path string, toggles *Toggles, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		toggles:  toggles,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		watcher:  fw,
	}, nil
}

// OnReload registers a callback invoked after each successful reload.
func (w *Watcher) OnReload(fn func(File)) {
	w.onReload = fn
}

// Run processes events until ctx is canceled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("settings watcher error", "error", err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := ReadFile(w.path)
	if err != nil {
		// Keep the previous flags; a half-edited file is common.
		w.logger.Warn("could not reload settings", "error", err)
		return
	}
	w.toggles.Replace(cfg.Checkpoints)
	w.logger.Info("settings reloaded", "disabled", len(w.toggles.Disabled()))
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
