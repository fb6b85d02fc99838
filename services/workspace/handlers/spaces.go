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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianDocs/pkg/validation"
	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
)

// CreateSpace registers a new space and starts watching its root.
func CreateSpace(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "CreateSpace")
		defer span.End()

		var req datatypes.CreateSpaceRequest
		if err := c.BindJSON(&req); err != nil {
			return // BindJSON already wrote 400
		}
		name, err := validation.SanitizeEntryName(req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sp, err := deps.Registry.Create(name, deps.SpacesDir)
		if err != nil {
			span.RecordError(err)
			if errors.Is(err, spaces.ErrSpaceExists) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			deps.Logger.Error("space creation failed", "name", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create space"})
			return
		}

		deps.Watchers.Ensure(ctx, sp)
		c.JSON(http.StatusCreated, sp)
	}
}

// ListSpaces returns all registered spaces sorted by name.
func ListSpaces(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.Registry.List()
		if err != nil {
			deps.Logger.Error("space listing failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registry unavailable"})
			return
		}
		if list == nil {
			list = []spaces.Space{}
		}
		c.JSON(http.StatusOK, gin.H{"spaces": list})
	}
}

// GetSpace resolves one space by ID.
func GetSpace(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sp, ok := deps.space(c, c.Param("spaceId"))
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sp)
	}
}

// DeleteSpace unregisters a space and stops its watcher. The backing
// directory and its documents are left untouched.
func DeleteSpace(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("spaceId")
		if err := deps.Registry.Delete(id); err != nil {
			if errors.Is(err, spaces.ErrSpaceNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			deps.Logger.Error("space removal failed", "space_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove space"})
			return
		}
		deps.Watchers.Release(id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
