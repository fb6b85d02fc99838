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
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianDocs/pkg/validation"
	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// Upload accepts a multipart form with one or more "files" parts plus
// "spaceId" and an optional "folderPath" field. Files are written
// side by side into the target folder; one bad file does not abort the
// batch, its result entry carries the error instead.
func Upload(deps *Deps) gin.HandlerFunc {
	const op = "upload"
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "Upload")
		defer span.End()

		if deps.MaxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, deps.MaxUploadBytes)
		}

		form, err := c.MultipartForm()
		if err != nil {
			deps.invalid(c, op, err)
			return
		}
		spaceID := c.PostForm("spaceId")
		if spaceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "spaceId is required"})
			deps.countMutation(op, "invalid")
			return
		}
		folderPath := c.PostForm("folderPath")
		if err := validation.ValidateRelPath(folderPath); err != nil {
			deps.invalid(c, op, err)
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files in upload"})
			deps.countMutation(op, "invalid")
			return
		}

		sp, ok := deps.space(c, spaceID)
		if !ok {
			deps.countMutation(op, "not_found")
			return
		}

		results := make([]datatypes.UploadFileResult, 0, len(files))
		stored := 0
		for _, header := range files {
			// Browsers may send a full client-side path; keep the base name.
			name, err := validation.SanitizeEntryName(filepath.Base(header.Filename))
			if err != nil {
				results = append(results, datatypes.UploadFileResult{
					Name:  header.Filename,
					Error: err.Error(),
				})
				continue
			}

			relPath := datatypes.JoinPath(folderPath, name)
			data, err := readMultipartFile(header)
			if err != nil {
				results = append(results, datatypes.UploadFileResult{Name: name, Error: err.Error()})
				continue
			}
			if err := deps.Store.Write(sp.Root, relPath, data, false); err != nil {
				results = append(results, datatypes.UploadFileResult{Name: name, Error: err.Error()})
				continue
			}

			stored++
			if deps.Metrics != nil {
				deps.Metrics.UploadBytesTotal.Add(float64(len(data)))
			}
			deps.publish(datatypes.NewFileEvent(datatypes.EventFileAdded, sp.Ref(), relPath))
			results = append(results, datatypes.UploadFileResult{
				Name: name,
				Path: relPath,
				Size: int64(len(data)),
			})
		}

		patch, err := deps.subtree(sp, folderPath)
		if err != nil {
			deps.fail(c, op, err)
			return
		}
		patch.Success = stored > 0
		if stored > 0 {
			deps.countMutation(op, "success")
		} else {
			deps.countMutation(op, "error")
		}

		c.JSON(http.StatusOK, datatypes.UploadResponse{
			MutationResponse: patch,
			Results:          results,
		})
	}
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
