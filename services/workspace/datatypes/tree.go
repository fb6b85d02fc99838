// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the shared data model for the workspace service.
//
// The central type is TreeNode, a two-case tagged union (folder or document)
// that both the server-side tree builder and the client-side cache operate
// on. Paths are POSIX-style and relative to the space root; the empty string
// is the root sentinel.
package datatypes

import (
	"path"
	"sort"
	"strings"
)

// NodeKind discriminates the two TreeNode variants.
//
// Every consumer switching on NodeKind must handle both cases; there is no
// third variant and none will be added.
type NodeKind string

const (
	// KindFolder is a directory node. Children is always non-nil.
	KindFolder NodeKind = "folder"

	// KindDocument is a leaf file node. Children is always nil.
	KindDocument NodeKind = "document"
)

// Category classifies a document by its extension for presentation
// purposes (icon choice, viewer selection). Derived, never stored.
type Category string

const (
	CategoryMarkdown Category = "markdown"
	CategoryImage    Category = "image"
	CategoryCode     Category = "code"
	CategoryPDF      Category = "pdf"
	CategoryText     Category = "text"
	CategoryData     Category = "data"
	CategoryOther    Category = "other"
)

// CategoryForExtension maps a file extension (with or without the leading
// dot, any case) to its Category.
func CategoryForExtension(ext string) Category {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "md", "markdown", "mdown":
		return CategoryMarkdown
	case "png", "jpg", "jpeg", "gif", "webp", "svg", "bmp", "ico":
		return CategoryImage
	case "go", "py", "js", "ts", "jsx", "tsx", "java", "c", "cpp", "h", "hpp",
		"rs", "rb", "sh", "sql", "html", "css", "scss":
		return CategoryCode
	case "pdf":
		return CategoryPDF
	case "txt", "text", "log", "rst", "adoc":
		return CategoryText
	case "json", "yaml", "yml", "toml", "xml", "csv", "tsv", "ini":
		return CategoryData
	default:
		return CategoryOther
	}
}

// SpaceRef identifies the space a node belongs to.
type SpaceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TreeNode is one entry in a space's tree: a folder or a document.
//
// A node's full identity is (SpaceID, Path). Path is POSIX-style, relative
// to the space root; Name is the final path segment. Nodes are synthesized
// transiently by each scan and are never persisted.
type TreeNode struct {
	Path      string   `json:"path"`
	Name      string   `json:"name"`
	Kind      NodeKind `json:"kind"`
	SpaceID   string   `json:"spaceId"`
	SpaceName string   `json:"spaceName"`

	// Children is the ordered child sequence. Present (possibly empty)
	// for folders, absent for documents.
	Children []TreeNode `json:"children,omitempty"`

	// Document-only metadata.
	Title      string   `json:"title,omitempty"`
	Extension  string   `json:"extension,omitempty"`
	Category   Category `json:"category,omitempty"`
	Size       int64    `json:"size,omitempty"`
	ModifiedAt int64    `json:"modifiedAt,omitempty"` // unix milliseconds
}

// IsFolder reports whether the node is the folder variant.
func (n *TreeNode) IsFolder() bool {
	return n.Kind == KindFolder
}

// LessNode is the sibling ordering invariant: all folders before all
// documents, and within each kind case-insensitive alphabetical by name.
func LessNode(a, b TreeNode) bool {
	if a.Kind != b.Kind {
		return a.Kind == KindFolder
	}
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	// Case-insensitive ties ("Readme" vs "readme") fall back to the raw
	// name so the order is deterministic.
	return a.Name < b.Name
}

// SortNodes sorts a sibling slice in place per the ordering invariant.
func SortNodes(nodes []TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return LessNode(nodes[i], nodes[j])
	})
}

// ParentPath returns the path of a node's parent: everything up to the
// last separator, or the root sentinel "" for top-level paths.
func ParentPath(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// BaseName returns the final segment of a relative path.
func BaseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// JoinPath joins a parent path and a child name. The root sentinel joins
// to just the name.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// IsHiddenPath reports whether any segment of the path starts with a dot.
// Hidden entries exist physically but are excluded from the user-facing
// tree projection.
func IsHiddenPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
