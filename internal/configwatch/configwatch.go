// Package configwatch hot-reloads the TOML config file while the engine
// runs: fsnotify events on the file's directory, debounced, trigger a
// fresh parse and a reload callback.
package configwatch

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/paneguard/tmux-monitor/internal/config"
)

// debounce coalesces the burst of events editors emit on save.
const debounce = 200 * time.Millisecond

// Watcher reloads path on every filesystem write/create/rename event,
// debounced, and invokes onReload with the freshly parsed config.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	onReload func(*config.Config)
}

// New starts watching the directory containing path (fsnotify watches
// directories, not bare files, so editors that replace-via-rename are
// still observed) and returns a Watcher whose Run method must be started
// in its own goroutine.
func New(path string, onReload func(*config.Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := parentDir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{fsw: fsw, path: path, onReload: onReload}, nil
}

// Run blocks, applying debounced reloads until ctx is cancelled. Call it
// in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	reload := func() {
		cfg, err := config.Load(w.path)
		if err != nil {
			log.Printf("⚠️  panemonitor: config reload failed: %v", err)
			return
		}
		w.onReload(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  panemonitor: config watch error: %v", err)
		}
	}
}

func parentDir(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' {
		i--
	}
	if i < 0 {
		return "."
	}
	if i == 0 {
		return "/"
	}
	return path[:i]
}
