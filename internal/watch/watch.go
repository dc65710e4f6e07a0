// Package watch reruns site generation when source or template files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceTime coalesces bursts of filesystem events (editors often emit
// several writes per save) into one rebuild.
const debounceTime = 500 * time.Millisecond

// BuildFunc runs one generation pass.
type BuildFunc func(ctx context.Context) error

// Watcher monitors the input directory and template files and triggers
// rebuilds on changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	build   BuildFunc
	trigger chan struct{}
}

// New creates a Watcher over the given directories and files.
func New(build BuildFunc, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve watch path %s: %w", p, err)
		}
		if err := fsw.Add(abs); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", abs, err)
		}
	}

	return &Watcher{
		watcher: fsw,
		build:   build,
		trigger: make(chan struct{}, 1),
	}, nil
}

// Run blocks, rebuilding on changes until the context is canceled. An
// initial build runs before watching starts.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", "error", err)
		}
	}()

	if err := w.build(ctx); err != nil {
		slog.Error("Initial build failed", "error", err)
	}

	go w.eventLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.trigger:
			// Debounce: absorb the burst before rebuilding.
			timer := time.NewTimer(debounceTime)
		drain:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-w.trigger:
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(debounceTime)
				case <-timer.C:
					break drain
				}
			}
			slog.Info("Change detected, rebuilding")
			if err := w.build(ctx); err != nil {
				slog.Error("Rebuild failed", "error", err)
			}
		}
	}
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("File event", "op", event.Op.String(), "file", event.Name)
				select {
				case w.trigger <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}
