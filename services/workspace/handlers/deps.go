// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the workspace HTTP API: space
// administration, tree fetches, the mutation protocol, content
// passthrough, and the websocket push channel.
//
// # Mutation Protocol
//
// Every mutation handler follows the same shape: validate, mutate the
// filesystem through the store, rescan the affected parent folder, and
// answer with a MutationResponse carrying the fresh children so the
// client can patch its cache without a follow-up fetch. A change event
// is published to the hub for every observer that was not the caller.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/events"
	"github.com/AleutianAI/AleutianDocs/services/workspace/observability"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
	"github.com/AleutianAI/AleutianDocs/services/workspace/store"
	"github.com/AleutianAI/AleutianDocs/services/workspace/tree"
	"github.com/AleutianAI/AleutianDocs/services/workspace/watcher"
)

var tracer = otel.Tracer("aleutian.docs.handlers")

// errRootTarget rejects mutations aimed at the space root sentinel "".
var errRootTarget = errors.New("operation does not apply to the space root")

// Deps bundles the shared dependencies every handler closure needs.
type Deps struct {
	Registry *spaces.Registry
	Store    *store.Store
	Hub      *events.Hub
	Watchers *watcher.Manager
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	// SpacesDir is the parent directory for new space roots.
	SpacesDir string

	// MaxUploadBytes caps the total size of one multipart upload.
	MaxUploadBytes int64
}

// space resolves the space for an ID, answering 404 on the request when
// it is unknown. The boolean reports whether the handler may continue.
func (d *Deps) space(c *gin.Context, spaceID string) (spaces.Space, bool) {
	sp, err := d.Registry.Get(spaceID)
	if err != nil {
		if errors.Is(err, spaces.ErrSpaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown space: " + spaceID})
		} else {
			d.Logger.Error("registry lookup failed", "space_id", spaceID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registry unavailable"})
		}
		return spaces.Space{}, false
	}
	return sp, true
}

// publish sends a change event to the hub and counts it.
func (d *Deps) publish(ev datatypes.ChangeEvent) {
	d.Hub.Publish(ev)
	if d.Metrics != nil {
		d.Metrics.EventsPublishedTotal.WithLabelValues(string(ev.Type)).Inc()
	}
}

// countMutation records a mutation outcome.
func (d *Deps) countMutation(op, status string) {
	if d.Metrics != nil {
		d.Metrics.MutationsTotal.WithLabelValues(op, status).Inc()
	}
}

// subtree rescans the folder at parentPath and returns the patch
// envelope mutations answer with.
func (d *Deps) subtree(sp spaces.Space, parentPath string) (datatypes.MutationResponse, error) {
	children, err := tree.BuildSubtree(sp.Root, parentPath, sp.Ref())
	if err != nil {
		return datatypes.MutationResponse{}, err
	}
	return datatypes.MutationResponse{
		Success:    true,
		ParentPath: parentPath,
		Children:   children,
	}, nil
}

// statusFor maps a mutation error to its HTTP status and metric label.
func statusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, "success"
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, tree.ErrNotFound),
		errors.Is(err, store.ErrTemplateNotFound),
		errors.Is(err, spaces.ErrSpaceNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrExists),
		errors.Is(err, spaces.ErrSpaceExists):
		return http.StatusConflict, "exists"
	case errors.Is(err, store.ErrPathTraversal),
		errors.Is(err, store.ErrRootDelete),
		errors.Is(err, store.ErrNotFolder):
		return http.StatusBadRequest, "invalid"
	default:
		return http.StatusInternalServerError, "error"
	}
}

// fail answers a failed mutation, logging only genuine server faults.
func (d *Deps) fail(c *gin.Context, op string, err error) {
	code, label := statusFor(err)
	d.countMutation(op, label)
	if code == http.StatusInternalServerError {
		d.Logger.Error("mutation failed", "op", op, "error", err)
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// invalid answers a request that failed validation before touching the
// filesystem.
func (d *Deps) invalid(c *gin.Context, op string, err error) {
	d.countMutation(op, "invalid")
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
