// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package events fans change notifications out to every connected client.
//
// # Delivery Model
//
// Delivery is best-effort and at-least-once: the same change can reach a
// client both through its own mutation response and through the hub, and
// a slow client can miss events entirely (its buffer overflows and the
// events are dropped). Clients must reconcile idempotently; the
// subtree-replacement protocol guarantees that.
//
// Per subscriber, events are delivered in publish order (a single FIFO
// channel per connection). No ordering is promised across subscribers or
// across unrelated paths.
//
// # Thread Safety
//
// Hub is safe for concurrent use.
package events

import (
	"log/slog"
	"sync"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// subscriberBuffer is the per-connection event queue size. A client that
// falls this far behind loses events and must recover via full re-sync on
// its next reconnect.
const subscriberBuffer = 64

// Subscription is one client's view of the hub.
type Subscription struct {
	// C delivers events in publish order. Closed when the subscription
	// is cancelled or the hub shuts down.
	C <-chan datatypes.ChangeEvent

	hub *Hub
	ch  chan datatypes.ChangeEvent
}

// Cancel detaches the subscription from the hub and closes C.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.cancel(s)
}

// Hub broadcasts change events to all current subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new subscriber. The caller must Cancel the
// subscription when done, or events will be dropped on its behalf
// forever.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan datatypes.ChangeEvent, subscriberBuffer)
	sub := &Subscription{C: ch, hub: h, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber whose buffer is full loses the event.
func (h *Hub) Publish(ev datatypes.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("dropping change event for slow subscriber",
				"type", ev.Type, "path", ev.Entry().Path)
		}
	}
}

// SubscriberCount returns the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close detaches all subscribers and closes their channels. Publish
// becomes a no-op afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}

func (h *Hub) cancel(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}
