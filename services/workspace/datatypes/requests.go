// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// CreateSpaceRequest registers a new space.
type CreateSpaceRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateFolderRequest creates a folder under ParentPath ("" = space root).
type CreateFolderRequest struct {
	Name       string `json:"name" binding:"required"`
	SpaceID    string `json:"spaceId" binding:"required"`
	ParentPath string `json:"parentPath"`
}

// CreateDocumentRequest creates a document under FolderPath ("" = space
// root). Content seeds the document body; TemplateID names a template in
// the space's template store instead. Content wins if both are set.
type CreateDocumentRequest struct {
	Title      string `json:"title" binding:"required"`
	SpaceID    string `json:"spaceId" binding:"required"`
	FolderPath string `json:"folderPath"`
	TemplateID string `json:"templateId,omitempty"`
	Content    string `json:"content,omitempty"`
}

// RenameRequest renames the entry at OldPath to NewName within the same
// parent folder. This is the only move primitive.
type RenameRequest struct {
	SpaceID string `json:"spaceId" binding:"required"`
	OldPath string `json:"oldPath" binding:"required"`
	NewName string `json:"newName" binding:"required"`
}

// DeleteRequest removes the entry at Path, recursively for folders. The
// root sentinel "" is not deletable.
type DeleteRequest struct {
	SpaceID string `json:"spaceId" binding:"required"`
	Path    string `json:"path"`
}

// MutationResponse is the common patch envelope every mutation returns.
//
// ParentPath and Children carry a fresh authoritative scan of the affected
// folder so the client cache can ReplaceSubtree without a follow-up fetch.
type MutationResponse struct {
	Success    bool       `json:"success"`
	ParentPath string     `json:"parentPath"`
	Children   []TreeNode `json:"children"`
}

// FolderResponse answers a create-folder request.
type FolderResponse struct {
	MutationResponse
	Folder TreeNode `json:"folder"`
}

// DocumentResponse answers a create-document request.
type DocumentResponse struct {
	MutationResponse
	DocumentID string `json:"documentId"`
	Path       string `json:"path"`
}

// RenameResponse answers a rename request.
type RenameResponse struct {
	MutationResponse
	NewPath string `json:"newPath"`
}

// UploadFileResult is one entry of an upload response, one per file.
type UploadFileResult struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Size  int64  `json:"size,omitempty"`
	Error string `json:"error,omitempty"`
}

// UploadResponse answers a multipart upload.
type UploadResponse struct {
	MutationResponse
	Results []UploadFileResult `json:"results"`
}

// TreeResponse answers a tree or subtree fetch.
type TreeResponse struct {
	Space SpaceRef   `json:"space"`
	Path  string     `json:"path"`
	Nodes []TreeNode `json:"nodes"`
}

// Template describes one entry of a space's template store.
type Template struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}
