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
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianDocs/pkg/validation"
	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// defaultDocExtension is appended to document titles that carry no
// extension and reference no template.
const defaultDocExtension = "md"

// CreateFolder creates a folder under a parent ("" = space root) and
// answers with the parent's fresh children.
func CreateFolder(deps *Deps) gin.HandlerFunc {
	const op = "create_folder"
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "CreateFolder")
		defer span.End()

		var req datatypes.CreateFolderRequest
		if err := c.BindJSON(&req); err != nil {
			deps.countMutation(op, "invalid")
			return
		}
		name, err := validation.SanitizeEntryName(req.Name)
		if err != nil {
			deps.invalid(c, op, err)
			return
		}
		if err := validation.ValidateRelPath(req.ParentPath); err != nil {
			deps.invalid(c, op, err)
			return
		}
		sp, ok := deps.space(c, req.SpaceID)
		if !ok {
			deps.countMutation(op, "not_found")
			return
		}

		relPath := datatypes.JoinPath(req.ParentPath, name)
		if err := deps.Store.Mkdir(sp.Root, relPath); err != nil {
			span.RecordError(err)
			deps.fail(c, op, err)
			return
		}

		patch, err := deps.subtree(sp, req.ParentPath)
		if err != nil {
			deps.fail(c, op, err)
			return
		}
		deps.publish(datatypes.NewFolderEvent(datatypes.EventFolderAdded, sp.Ref(), relPath))
		deps.countMutation(op, "success")

		resp := datatypes.FolderResponse{MutationResponse: patch}
		for i := range patch.Children {
			if patch.Children[i].Path == relPath {
				resp.Folder = patch.Children[i]
				break
			}
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// CreateDocument creates a document under a folder ("" = space root).
// The body is seeded from inline content, a template, or left empty.
func CreateDocument(deps *Deps) gin.HandlerFunc {
	const op = "create_document"
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "CreateDocument")
		defer span.End()

		var req datatypes.CreateDocumentRequest
		if err := c.BindJSON(&req); err != nil {
			deps.countMutation(op, "invalid")
			return
		}
		title, err := validation.SanitizeEntryName(req.Title)
		if err != nil {
			deps.invalid(c, op, err)
			return
		}
		if err := validation.ValidateRelPath(req.FolderPath); err != nil {
			deps.invalid(c, op, err)
			return
		}
		sp, ok := deps.space(c, req.SpaceID)
		if !ok {
			deps.countMutation(op, "not_found")
			return
		}

		content := []byte(req.Content)
		extension := ""
		if req.TemplateID != "" {
			tmpl, found, err := findTemplate(deps, sp.Root, req.TemplateID)
			if err != nil {
				deps.fail(c, op, err)
				return
			}
			if !found {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown template: " + req.TemplateID})
				deps.countMutation(op, "not_found")
				return
			}
			extension = tmpl.Extension
			if req.Content == "" {
				content, err = deps.Store.TemplateContent(sp.Root, req.TemplateID)
				if err != nil {
					deps.fail(c, op, err)
					return
				}
			}
		}

		fileName := documentFileName(title, extension)
		relPath := datatypes.JoinPath(req.FolderPath, fileName)
		if err := deps.Store.Write(sp.Root, relPath, content, false); err != nil {
			span.RecordError(err)
			deps.fail(c, op, err)
			return
		}

		patch, err := deps.subtree(sp, req.FolderPath)
		if err != nil {
			deps.fail(c, op, err)
			return
		}
		deps.publish(datatypes.NewFileEvent(datatypes.EventFileAdded, sp.Ref(), relPath))
		deps.countMutation(op, "success")

		c.JSON(http.StatusCreated, datatypes.DocumentResponse{
			MutationResponse: patch,
			DocumentID:       uuid.New().String(),
			Path:             relPath,
		})
	}
}

// Rename renames a file or folder in place. The new name stays within
// the old entry's parent folder; rename is not a move between folders.
func Rename(deps *Deps) gin.HandlerFunc {
	const op = "rename"
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "Rename")
		defer span.End()

		var req datatypes.RenameRequest
		if err := c.BindJSON(&req); err != nil {
			deps.countMutation(op, "invalid")
			return
		}
		if err := validation.ValidateRelPath(req.OldPath); err != nil {
			deps.invalid(c, op, err)
			return
		}
		if req.OldPath == "" {
			deps.invalid(c, op, errRootTarget)
			return
		}
		newName, err := validation.SanitizeEntryName(req.NewName)
		if err != nil {
			deps.invalid(c, op, err)
			return
		}
		sp, ok := deps.space(c, req.SpaceID)
		if !ok {
			deps.countMutation(op, "not_found")
			return
		}

		// A rename of a path deleted by another actor is recoverable:
		// the 404 tells the client to reconcile, not to crash.
		isFolder, err := deps.Store.IsFolder(sp.Root, req.OldPath)
		if err != nil {
			deps.fail(c, op, err)
			return
		}

		parent := datatypes.ParentPath(req.OldPath)
		newPath := datatypes.JoinPath(parent, newName)
		if newPath != req.OldPath {
			if err := deps.Store.Rename(sp.Root, req.OldPath, newPath); err != nil {
				span.RecordError(err)
				deps.fail(c, op, err)
				return
			}
		}

		patch, err := deps.subtree(sp, parent)
		if err != nil {
			deps.fail(c, op, err)
			return
		}
		if newPath != req.OldPath {
			if isFolder {
				deps.publish(datatypes.NewFolderEvent(datatypes.EventFolderDeleted, sp.Ref(), req.OldPath))
				deps.publish(datatypes.NewFolderEvent(datatypes.EventFolderAdded, sp.Ref(), newPath))
			} else {
				deps.publish(datatypes.NewFileEvent(datatypes.EventFileDeleted, sp.Ref(), req.OldPath))
				deps.publish(datatypes.NewFileEvent(datatypes.EventFileAdded, sp.Ref(), newPath))
			}
		}
		deps.countMutation(op, "success")

		c.JSON(http.StatusOK, datatypes.RenameResponse{
			MutationResponse: patch,
			NewPath:          newPath,
		})
	}
}

// Delete removes a file or an entire folder subtree. Deleting the space
// root is rejected.
func Delete(deps *Deps) gin.HandlerFunc {
	const op = "delete"
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "Delete")
		defer span.End()

		var req datatypes.DeleteRequest
		if err := c.BindJSON(&req); err != nil {
			deps.countMutation(op, "invalid")
			return
		}
		if err := validation.ValidateRelPath(req.Path); err != nil {
			deps.invalid(c, op, err)
			return
		}
		if req.Path == "" {
			deps.invalid(c, op, errRootTarget)
			return
		}
		sp, ok := deps.space(c, req.SpaceID)
		if !ok {
			deps.countMutation(op, "not_found")
			return
		}

		// Record the kind before the entry disappears.
		isFolder, err := deps.Store.IsFolder(sp.Root, req.Path)
		if err != nil {
			deps.fail(c, op, err)
			return
		}

		if err := deps.Store.Delete(sp.Root, req.Path); err != nil {
			span.RecordError(err)
			deps.fail(c, op, err)
			return
		}

		parent := datatypes.ParentPath(req.Path)
		patch, err := deps.subtree(sp, parent)
		if err != nil {
			deps.fail(c, op, err)
			return
		}
		if isFolder {
			deps.publish(datatypes.NewFolderEvent(datatypes.EventFolderDeleted, sp.Ref(), req.Path))
		} else {
			deps.publish(datatypes.NewFileEvent(datatypes.EventFileDeleted, sp.Ref(), req.Path))
		}
		deps.countMutation(op, "success")

		c.JSON(http.StatusOK, patch)
	}
}

// documentFileName derives the on-disk name for a document title. A
// title that already carries an extension is kept verbatim.
func documentFileName(title, templateExtension string) string {
	if ext := strings.TrimPrefix(strings.ToLower(pathExt(title)), "."); ext != "" {
		return title
	}
	if templateExtension != "" {
		return title + "." + templateExtension
	}
	return title + "." + defaultDocExtension
}

// pathExt is filepath.Ext for POSIX names without importing path/filepath
// semantics for Windows separators.
func pathExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}

// findTemplate resolves a template by ID from a space's template store.
func findTemplate(deps *Deps, root, id string) (datatypes.Template, bool, error) {
	templates, err := deps.Store.ListTemplates(root)
	if err != nil {
		return datatypes.Template{}, false, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, true, nil
		}
	}
	return datatypes.Template{}, false, nil
}
