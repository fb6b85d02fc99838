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
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/events"
	"github.com/AleutianAI/AleutianDocs/services/workspace/observability"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
	"github.com/AleutianAI/AleutianDocs/services/workspace/store"
	"github.com/AleutianAI/AleutianDocs/services/workspace/watcher"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	deps   *Deps
	router *gin.Engine
	space  spaces.Space
}

// newEnv builds a full handler stack on an in-memory registry with one
// space named Docs already registered.
func newEnv(t *testing.T) *env {
	t.Helper()

	registry, err := spaces.Open(spaces.Config{InMemory: true, GCInterval: -1})
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })

	hub := events.NewHub(nil)
	t.Cleanup(hub.Close)

	manager := watcher.NewManager(hub, watcher.DefaultOptions())
	t.Cleanup(manager.StopAll)

	deps := &Deps{
		Registry:       registry,
		Store:          store.New(),
		Hub:            hub,
		Watchers:       manager,
		Metrics:        observability.NewMetrics(prometheus.NewRegistry()),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		SpacesDir:      t.TempDir(),
		MaxUploadBytes: 16 << 20,
	}

	router := gin.New()
	router.GET("/v1/spaces", ListSpaces(deps))
	router.POST("/v1/spaces", CreateSpace(deps))
	router.GET("/v1/spaces/:spaceId", GetSpace(deps))
	router.DELETE("/v1/spaces/:spaceId", DeleteSpace(deps))
	router.GET("/v1/spaces/:spaceId/tree", GetTree(deps))
	router.GET("/v1/spaces/:spaceId/templates", ListTemplates(deps))
	router.POST("/v1/folders", CreateFolder(deps))
	router.POST("/v1/documents", CreateDocument(deps))
	router.POST("/v1/documents/upload", Upload(deps))
	router.GET("/v1/documents/content", GetContent(deps))
	router.PUT("/v1/documents/content", PutContent(deps))
	router.POST("/v1/rename", Rename(deps))
	router.POST("/v1/delete", Delete(deps))
	router.GET("/v1/events/ws", HandleEventsWebSocket(deps))

	sp, err := registry.Create("Docs", deps.SpacesDir)
	require.NoError(t, err)

	return &env{deps: deps, router: router, space: sp}
}

// doJSON performs a request with a JSON body and returns the recorder.
func (e *env) doJSON(t *testing.T, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// seed writes a file in the test space, creating parents as needed.
func (e *env) seed(t *testing.T, relPath, content string) {
	t.Helper()
	abs := filepath.Join(e.space.Root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0750))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0640))
}

// tree fetches the space tree, optionally scoped to a subtree path.
func (e *env) tree(t *testing.T, path string) datatypes.TreeResponse {
	t.Helper()
	url := "/v1/spaces/" + e.space.ID + "/tree"
	if path != "" {
		url += "?path=" + path
	}
	w := e.doJSON(t, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp datatypes.TreeResponse
	decode(t, w, &resp)
	return resp
}

func TestHealthCheck(t *testing.T) {
	e := newEnv(t)
	e.router.GET("/health", HealthCheck)
	w := e.doJSON(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSpaces_CRUD(t *testing.T) {
	e := newEnv(t)

	w := e.doJSON(t, http.MethodPost, "/v1/spaces",
		datatypes.CreateSpaceRequest{Name: "Research"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created spaces.Space
	decode(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.DirExists(t, created.Root)

	// Names are unique case-insensitively.
	w = e.doJSON(t, http.MethodPost, "/v1/spaces",
		datatypes.CreateSpaceRequest{Name: "research"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.doJSON(t, http.MethodGet, "/v1/spaces", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Spaces []spaces.Space `json:"spaces"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Spaces, 2)

	w = e.doJSON(t, http.MethodGet, "/v1/spaces/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.doJSON(t, http.MethodDelete, "/v1/spaces/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Unregistering leaves the backing directory in place.
	assert.DirExists(t, created.Root)

	w = e.doJSON(t, http.MethodGet, "/v1/spaces/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSpace_InvalidName(t *testing.T) {
	e := newEnv(t)
	for _, name := range []string{"", ".hidden", "a/b", "con:trol"} {
		w := e.doJSON(t, http.MethodPost, "/v1/spaces",
			map[string]string{"name": name})
		assert.Equal(t, http.StatusBadRequest, w.Code, "name %q", name)
	}
}

func TestGetTree(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "Guides/intro.md", "hello")
	e.seed(t, "Guides/setup.md", "world")
	e.seed(t, "readme.md", "top")
	e.seed(t, ".templates/note.md", "hidden")

	t.Run("full scan", func(t *testing.T) {
		resp := e.tree(t, "")
		require.Len(t, resp.Nodes, 2, "hidden entries are excluded")
		assert.Equal(t, "Guides", resp.Nodes[0].Name, "folders precede documents")
		assert.Equal(t, "readme.md", resp.Nodes[1].Name)
		assert.Len(t, resp.Nodes[0].Children, 2)
		assert.Equal(t, e.space.ID, resp.Space.ID)
	})

	t.Run("subtree scan", func(t *testing.T) {
		resp := e.tree(t, "Guides")
		assert.Equal(t, "Guides", resp.Path)
		require.Len(t, resp.Nodes, 2)
		assert.Equal(t, "Guides/intro.md", resp.Nodes[0].Path)
	})

	t.Run("missing subtree", func(t *testing.T) {
		w := e.doJSON(t, http.MethodGet,
			"/v1/spaces/"+e.space.ID+"/tree?path=Nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown space", func(t *testing.T) {
		w := e.doJSON(t, http.MethodGet, "/v1/spaces/nope/tree", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("traversal rejected", func(t *testing.T) {
		w := e.doJSON(t, http.MethodGet,
			"/v1/spaces/"+e.space.ID+"/tree?path=..%2Fescape", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListTemplates(t *testing.T) {
	e := newEnv(t)
	e.seed(t, ".templates/meeting-notes.md", "# Meeting")

	w := e.doJSON(t, http.MethodGet, "/v1/spaces/"+e.space.ID+"/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Templates []datatypes.Template `json:"templates"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Templates, 1)
	assert.Equal(t, "meeting-notes", resp.Templates[0].ID)
	assert.Equal(t, "md", resp.Templates[0].Extension)
}
