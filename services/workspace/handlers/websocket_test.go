// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// dialEvents connects a websocket client to the running test server.
func dialEvents(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/events/ws" + query
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) datatypes.ChangeEvent {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	var ev datatypes.ChangeEvent
	require.NoError(t, ws.ReadJSON(&ev))
	return ev
}

func TestEventsWebSocket_MutationPush(t *testing.T) {
	e := newEnv(t)
	server := httptest.NewServer(e.router)
	defer server.Close()

	ws := dialEvents(t, server, "")

	w := e.doJSON(t, http.MethodPost, "/v1/folders", datatypes.CreateFolderRequest{
		Name:    "Pushed",
		SpaceID: e.space.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ev := readEvent(t, ws)
	assert.Equal(t, datatypes.EventFolderAdded, ev.Type)
	assert.Equal(t, e.space.ID, ev.Space.ID)
	require.NotNil(t, ev.Folder)
	assert.Equal(t, "Pushed", ev.Folder.Path)
}

func TestEventsWebSocket_EventOrder(t *testing.T) {
	e := newEnv(t)
	server := httptest.NewServer(e.router)
	defer server.Close()

	ws := dialEvents(t, server, "")

	w := e.doJSON(t, http.MethodPost, "/v1/documents", datatypes.CreateDocumentRequest{
		Title:   "Doc",
		SpaceID: e.space.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.doJSON(t, http.MethodPost, "/v1/rename", datatypes.RenameRequest{
		SpaceID: e.space.ID,
		OldPath: "Doc.md",
		NewName: "Renamed.md",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Mutation order is preserved on one connection: add, then the
	// delete/add pair the rename decomposes into.
	first := readEvent(t, ws)
	assert.Equal(t, datatypes.EventFileAdded, first.Type)
	assert.Equal(t, "Doc.md", first.Entry().Path)

	second := readEvent(t, ws)
	assert.Equal(t, datatypes.EventFileDeleted, second.Type)
	assert.Equal(t, "Doc.md", second.Entry().Path)

	third := readEvent(t, ws)
	assert.Equal(t, datatypes.EventFileAdded, third.Type)
	assert.Equal(t, "Renamed.md", third.Entry().Path)
}

func TestEventsWebSocket_SpaceFilter(t *testing.T) {
	e := newEnv(t)
	server := httptest.NewServer(e.router)
	defer server.Close()

	other, err := e.deps.Registry.Create("Other", e.deps.SpacesDir)
	require.NoError(t, err)

	// Filtered to the Other space: the Docs mutation must not arrive.
	ws := dialEvents(t, server, "?spaceId="+other.ID)

	w := e.doJSON(t, http.MethodPost, "/v1/folders", datatypes.CreateFolderRequest{
		Name:    "DocsOnly",
		SpaceID: e.space.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.doJSON(t, http.MethodPost, "/v1/folders", datatypes.CreateFolderRequest{
		Name:    "OtherFolder",
		SpaceID: other.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ev := readEvent(t, ws)
	assert.Equal(t, other.ID, ev.Space.ID)
	assert.Equal(t, "OtherFolder", ev.Entry().Path)
}
