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
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianDocs/pkg/validation"
	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// GetContent streams the raw bytes of a document. Query parameters:
// spaceId and path.
func GetContent(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		relPath := c.Query("path")
		if err := validation.ValidateRelPath(relPath); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if relPath == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
			return
		}
		sp, ok := deps.space(c, c.Query("spaceId"))
		if !ok {
			return
		}

		data, err := deps.Store.Read(sp.Root, relPath)
		if err != nil {
			code, _ := statusFor(err)
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}

		contentType := mime.TypeByExtension(path.Ext(relPath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

// PutContent replaces (or creates) a document's bytes from the raw
// request body. Query parameters: spaceId and path. The parent folder
// must already exist.
func PutContent(deps *Deps) gin.HandlerFunc {
	const op = "put_content"
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "PutContent")
		defer span.End()

		relPath := c.Query("path")
		if err := validation.ValidateRelPath(relPath); err != nil {
			deps.invalid(c, op, err)
			return
		}
		if relPath == "" {
			deps.invalid(c, op, errRootTarget)
			return
		}
		if err := validation.ValidateEntryName(datatypes.BaseName(relPath)); err != nil {
			deps.invalid(c, op, err)
			return
		}
		sp, ok := deps.space(c, c.Query("spaceId"))
		if !ok {
			deps.countMutation(op, "not_found")
			return
		}

		if deps.MaxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, deps.MaxUploadBytes)
		}
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			deps.invalid(c, op, err)
			return
		}

		existed := deps.Store.Exists(sp.Root, relPath)
		if err := deps.Store.Write(sp.Root, relPath, data, true); err != nil {
			span.RecordError(err)
			deps.fail(c, op, err)
			return
		}

		eventType := datatypes.EventFileChanged
		if !existed {
			eventType = datatypes.EventFileAdded
		}
		deps.publish(datatypes.NewFileEvent(eventType, sp.Ref(), relPath))
		deps.countMutation(op, "success")

		patch, err := deps.subtree(sp, datatypes.ParentPath(relPath))
		if err != nil {
			deps.fail(c, op, err)
			return
		}
		c.JSON(http.StatusOK, patch)
	}
}
