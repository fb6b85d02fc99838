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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianDocs/pkg/validation"
	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/tree"
)

// GetTree returns the ordered tree of a space. With no query the whole
// space is scanned; with ?path=<folder> only that folder's children are,
// so clients can reconcile a single subtree after a push event.
func GetTree(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "GetTree")
		defer span.End()

		sp, ok := deps.space(c, c.Param("spaceId"))
		if !ok {
			return
		}

		path := c.Query("path")
		if err := validation.ValidateRelPath(path); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		scope := "full"
		if path != "" {
			scope = "subtree"
		}

		start := time.Now()
		var nodes []datatypes.TreeNode
		if path == "" {
			nodes = tree.Build(sp.Root, sp.Ref())
		} else {
			var err error
			nodes, err = tree.BuildSubtree(sp.Root, path, sp.Ref())
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "no folder at " + path})
				return
			}
		}
		if deps.Metrics != nil {
			deps.Metrics.ScansTotal.WithLabelValues(scope).Inc()
			deps.Metrics.ScanDurationSeconds.WithLabelValues(scope).
				Observe(time.Since(start).Seconds())
		}

		c.JSON(http.StatusOK, datatypes.TreeResponse{
			Space: sp.Ref(),
			Path:  path,
			Nodes: nodes,
		})
	}
}

// ListTemplates returns the templates available in a space's hidden
// template store.
func ListTemplates(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sp, ok := deps.space(c, c.Param("spaceId"))
		if !ok {
			return
		}
		templates, err := deps.Store.ListTemplates(sp.Root)
		if err != nil {
			deps.Logger.Error("template listing failed", "space", sp.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list templates"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"templates": templates})
	}
}
