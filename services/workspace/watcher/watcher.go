// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watcher turns raw filesystem notifications for a space root
// into change events on the notification hub, so clients converge even
// when a change bypassed the mutation API (shell, sync tool, another
// process).
//
// # Debouncing
//
// Raw fsnotify events are collected into a buffer. When the debounce
// window expires without new events, the batch is deduplicated per path
// and published. This prevents one event per write syscall during active
// editing.
//
// # Thread Safety
//
// Safe for concurrent use. Events are published from a single goroutine.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/events"
	"github.com/fsnotify/fsnotify"
)

// Options configures a space Watcher.
type Options struct {
	// DebounceWindow is how long to wait for more changes before
	// publishing a batch. Default: 100ms.
	DebounceWindow time.Duration

	// BufferSize is the size of the raw change buffer. Default: 1000.
	BufferSize int

	// Logger receives watcher log output. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 100 * time.Millisecond,
		BufferSize:     1000,
	}
}

// rawChange is one pre-debounce filesystem change.
type rawChange struct {
	relPath string
	op      fsnotify.Op
	isDir   bool
}

// Watcher observes one space's root directory and publishes change
// events to the hub.
type Watcher struct {
	space datatypes.SpaceRef
	root  string
	hub   *events.Hub
	fsw   *fsnotify.Watcher

	debounce time.Duration
	logger   *slog.Logger

	changes  chan rawChange
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	dirs     map[string]struct{} // relative paths of watched directories
	watching bool
}

// New creates a watcher for the given space root. Call Start to begin
// watching and Stop to release the underlying fsnotify resources.
func New(space datatypes.SpaceRef, root string, hub *events.Hub, opts *Options) (*Watcher, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = 100 * time.Millisecond
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		space:    space,
		root:     root,
		hub:      hub,
		fsw:      fsw,
		debounce: opts.DebounceWindow,
		logger:   opts.Logger.With("space", space.Name),
		changes:  make(chan rawChange, opts.BufferSize),
		done:     make(chan struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Start begins watching the space root and all subdirectories. Spawns
// the event processor and the debounce publisher; both exit when Stop is
// called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.publishLoop(ctx)
	return nil
}

// Stop stops the watcher and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching reports whether the watcher is active.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching
}

// addRecursive watches a directory and all visible subdirectories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}
		if !d.IsDir() {
			return nil
		}
		rel := w.relPath(path)
		if rel != "" && datatypes.IsHiddenPath(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", rel, "error", err)
			return nil
		}
		w.mu.Lock()
		w.dirs[rel] = struct{}{}
		w.mu.Unlock()
		return nil
	})
}

// relPath converts an absolute event path to a space-relative POSIX path.
func (w *Watcher) relPath(abs string) string {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// processEvents converts fsnotify events to rawChange values.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			rel := w.relPath(event.Name)
			if rel == "" || datatypes.IsHiddenPath(rel) {
				continue
			}

			change := rawChange{relPath: rel, op: event.Op}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					change.isDir = true
					// Watch the new directory so events under it arrive too.
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("failed to watch created directory", "path", rel, "error", err)
					}
				}
			} else {
				// For removes and renames the entry is gone; recall what
				// kind it was from the watched-directory set.
				w.mu.Lock()
				_, change.isDir = w.dirs[rel]
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					delete(w.dirs, rel)
				}
				w.mu.Unlock()
			}

			select {
			case w.changes <- change:
			default:
				// Buffer full; the debouncer will still republish the
				// affected parents from the surviving events.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watcher error", "error", err)
		}
	}
}

// publishLoop batches changes, deduplicates them per path, and publishes
// hub events after the debounce window.
func (w *Watcher) publishLoop(ctx context.Context) {
	var batch []rawChange
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			for _, change := range dedupe(batch) {
				w.publish(change)
			}
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// publish maps one deduplicated change to a hub event.
func (w *Watcher) publish(change rawChange) {
	var ev datatypes.ChangeEvent
	switch {
	case change.op.Has(fsnotify.Create):
		if change.isDir {
			ev = datatypes.NewFolderEvent(datatypes.EventFolderAdded, w.space, change.relPath)
		} else {
			ev = datatypes.NewFileEvent(datatypes.EventFileAdded, w.space, change.relPath)
		}
	case change.op.Has(fsnotify.Remove), change.op.Has(fsnotify.Rename):
		// A rename shows up as Rename(old) plus Create(new); the old
		// path is gone either way.
		if change.isDir {
			ev = datatypes.NewFolderEvent(datatypes.EventFolderDeleted, w.space, change.relPath)
		} else {
			ev = datatypes.NewFileEvent(datatypes.EventFileDeleted, w.space, change.relPath)
		}
	case change.op.Has(fsnotify.Write):
		if change.isDir {
			return // directory mtime churn is not a content change
		}
		ev = datatypes.NewFileEvent(datatypes.EventFileChanged, w.space, change.relPath)
	default:
		return // chmod and friends do not affect the tree
	}

	w.logger.Debug("publishing change event", "type", ev.Type, "path", change.relPath)
	w.hub.Publish(ev)
}

// dedupe keeps the most recent change per path, preserving first-seen
// order between distinct paths.
func dedupe(changes []rawChange) []rawChange {
	seen := make(map[string]int)
	result := make([]rawChange, 0, len(changes))
	for _, change := range changes {
		if idx, exists := seen[change.relPath]; exists {
			result[idx] = change
		} else {
			seen[change.relPath] = len(result)
			result = append(result, change)
		}
	}
	return result
}
