// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AleutianAI/AleutianDocs/services/workspace/events"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
)

// Manager owns one Watcher per registered space. Spaces created at
// runtime get a watcher via Ensure; unregistered spaces are released via
// Release.
type Manager struct {
	hub    *events.Hub
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	watchers map[string]*Watcher // keyed by space ID
}

// NewManager creates a manager publishing to hub.
func NewManager(hub *events.Hub, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		hub:      hub,
		opts:     opts,
		logger:   opts.Logger,
		watchers: make(map[string]*Watcher),
	}
}

// Ensure starts a watcher for the space if one is not already running.
// Watcher startup failure is logged, not fatal: the mutation API still
// publishes events for its own changes.
func (m *Manager) Ensure(ctx context.Context, space spaces.Space) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.watchers[space.ID]; ok {
		return
	}

	w, err := New(space.Ref(), space.Root, m.hub, &m.opts)
	if err != nil {
		m.logger.Error("failed to create space watcher", "space", space.Name, "error", err)
		return
	}
	if err := w.Start(ctx); err != nil {
		m.logger.Error("failed to start space watcher", "space", space.Name, "error", err)
		w.Stop()
		return
	}
	m.watchers[space.ID] = w
	m.logger.Info("watching space root", "space", space.Name, "root", space.Root)
}

// Release stops and removes the watcher for a space, if any.
func (m *Manager) Release(spaceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.watchers[spaceID]; ok {
		w.Stop()
		delete(m.watchers, spaceID)
	}
}

// StopAll stops every watcher. Called on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, w := range m.watchers {
		w.Stop()
		delete(m.watchers, id)
	}
}

// Count returns the number of running watchers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}
