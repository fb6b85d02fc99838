// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Listener maintains the push channel connection and feeds every event
// to the reconciler. On every (re)connect it refreshes the full tree
// first, because events may have been lost while disconnected.
type Listener struct {
	api        *APIClient
	reconciler *Reconciler
	logger     *slog.Logger
}

// NewListener creates a listener for the reconciler's space.
func NewListener(api *APIClient, reconciler *Reconciler, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{api: api, reconciler: reconciler, logger: logger}
}

// Run connects, reconciles, and consumes events until ctx is cancelled.
// Connection loss triggers reconnection with exponential backoff.
func (l *Listener) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := l.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Warn("push channel disconnected, reconnecting",
			"error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// runOnce handles one connection lifetime: dial, refresh, consume.
func (l *Listener) runOnce(ctx context.Context) error {
	space := l.reconciler.space
	url := l.api.EventsURL(space.ID)

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer ws.Close()

	// Events sent while we were away are gone; start from authority.
	if err := l.reconciler.RefreshAll(ctx); err != nil {
		return err
	}
	l.logger.Info("push channel connected", "space", space.Name)

	// Unblock ReadJSON when the context ends.
	go func() {
		<-ctx.Done()
		ws.Close()
	}()

	for {
		var ev datatypes.ChangeEvent
		if err := ws.ReadJSON(&ev); err != nil {
			return err
		}
		if err := l.reconciler.HandleEvent(ctx, ev); err != nil {
			l.logger.Warn("event reconciliation failed", "type", ev.Type, "error", err)
		}
	}
}
