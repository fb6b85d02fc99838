// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package events

import (
	"testing"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var space = datatypes.SpaceRef{ID: "s1", Name: "Docs"}

func TestHub_PublishSubscribe(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	sub1 := h.Subscribe()
	sub2 := h.Subscribe()
	defer sub1.Cancel()
	defer sub2.Cancel()

	assert.Equal(t, 2, h.SubscriberCount())

	ev := datatypes.NewFileEvent(datatypes.EventFileAdded, space, "Guides/intro.md")
	h.Publish(ev)

	got1 := <-sub1.C
	got2 := <-sub2.C
	assert.Equal(t, ev, got1, "every subscriber receives the event")
	assert.Equal(t, ev, got2)
}

func TestHub_OrderPreservedPerSubscriber(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	sub := h.Subscribe()
	defer sub.Cancel()

	h.Publish(datatypes.NewFileEvent(datatypes.EventFileAdded, space, "a.md"))
	h.Publish(datatypes.NewFileEvent(datatypes.EventFileChanged, space, "a.md"))
	h.Publish(datatypes.NewFileEvent(datatypes.EventFileDeleted, space, "a.md"))

	want := []datatypes.EventType{
		datatypes.EventFileAdded,
		datatypes.EventFileChanged,
		datatypes.EventFileDeleted,
	}
	for _, wt := range want {
		got := <-sub.C
		require.Equal(t, wt, got.Type)
	}
}

func TestHub_SlowSubscriberDropsNotBlocks(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	sub := h.Subscribe()
	defer sub.Cancel()

	// Publish past the buffer without reading; must not block.
	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish(datatypes.NewFileEvent(datatypes.EventFileChanged, space, "a.md"))
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received, "overflow events are dropped")
}

func TestHub_Cancel(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	sub := h.Subscribe()
	sub.Cancel()
	sub.Cancel() // idempotent

	assert.Equal(t, 0, h.SubscriberCount())

	_, open := <-sub.C
	assert.False(t, open, "cancelled subscription channel is closed")

	// Publishing after cancel must not panic.
	h.Publish(datatypes.NewFileEvent(datatypes.EventFileAdded, space, "b.md"))
}

func TestHub_Close(t *testing.T) {
	h := NewHub(nil)
	sub := h.Subscribe()
	h.Close()

	_, open := <-sub.C
	assert.False(t, open)

	// Subscribe after close yields a closed subscription.
	late := h.Subscribe()
	_, open = <-late.C
	assert.False(t, open)

	h.Publish(datatypes.NewFileEvent(datatypes.EventFileAdded, space, "c.md"))
}
