package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eowm/eowm/internal/util"
)

const reloadDebounce = 250 * time.Millisecond

// configWatcher turns bursts of file-system events on the config file into
// single reload requests. The parent directory is watched so editors that
// save by rename or delete-and-create are still seen.
type configWatcher struct {
	path     string
	logger   *util.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

func newConfigWatcher(path string, logger *util.Logger) (*configWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	path = filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		logger.Warnf("unable to watch %s, hot reload disabled: %v", filepath.Dir(path), err)
	}
	return &configWatcher{path: path, logger: logger, debounce: reloadDebounce, fsw: fsw}, nil
}

// Run sends a reason on out once the file has been quiet for the debounce
// window after a change. A request is dropped when one is already queued.
func (w *configWatcher) Run(ctx context.Context, out chan<- string) {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Tracef("config event %s", ev)
			fire = time.After(w.debounce)
		case <-fire:
			fire = nil
			select {
			case out <- "config file updated":
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("config watcher: %v", err)
		}
	}
}

func (w *configWatcher) Close() error {
	return w.fsw.Close()
}
