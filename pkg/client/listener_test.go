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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

func TestListener_ReconcilesPushedEvents(t *testing.T) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/spaces/s1/tree", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		var nodes []datatypes.TreeNode
		switch path {
		case "":
			nodes = []datatypes.TreeNode{folder("Notes", doc("Notes/a.md"))}
		case "Notes":
			nodes = []datatypes.TreeNode{doc("Notes/a.md"), doc("Notes/b.md")}
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "no folder at " + path})
			return
		}
		json.NewEncoder(w).Encode(datatypes.TreeResponse{Space: testSpace, Path: path, Nodes: nodes})
	})
	mux.HandleFunc("/v1/events/ws", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.URL.Query().Get("spaceId"))
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		ev := datatypes.NewFileEvent(datatypes.EventFileAdded, testSpace, "Notes/b.md")
		if err := ws.WriteJSON(ev); err != nil {
			return
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	api := NewAPIClient(server.URL)
	reconciler := NewReconciler(api, NewCache(), testSpace, nil)
	listener := NewListener(api, reconciler, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Run(ctx)

	// The listener refreshes on connect, then applies the pushed event.
	require.Eventually(t, func() bool {
		node, ok := reconciler.Cache().Find("Notes")
		return ok && len(node.Children) == 2
	}, 3*time.Second, 10*time.Millisecond, "pushed event should patch the cache")

	node, ok := reconciler.Cache().Find("Notes/b.md")
	require.True(t, ok)
	assert.Equal(t, datatypes.KindDocument, node.Kind)
}
