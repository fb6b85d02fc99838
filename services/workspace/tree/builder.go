// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tree derives the canonical ordered tree of a space from its
// backing directory and resolves paths within a built tree.
//
// # Design Principles
//
// Scans are pure reads with no side effects. A missing root is an empty
// space, not an error. A subtree that cannot be read (permissions, race
// with a concurrent delete) becomes an empty folder and the scan continues
// for its siblings; a partial tree is preferable to a hard failure.
//
// # Ordering Invariant
//
// At every level, all folder nodes precede all document nodes, and within
// each kind siblings are case-insensitive alphabetical by name. Entries
// whose name starts with '.' are system-internal and excluded from the
// projection.
package tree

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// Build scans the space rooted at root and returns its ordered top-level
// nodes. A missing or unreadable root yields an empty tree.
func Build(root string, space datatypes.SpaceRef) []datatypes.TreeNode {
	return buildDir(root, "", space)
}

// BuildSubtree scans only the folder at relPath ("" = root) and returns
// its ordered children. Returns ErrNotFound if the folder does not exist
// or is not a directory; mutation handlers turn that into the recoverable
// not-found condition.
func BuildSubtree(root, relPath string, space datatypes.SpaceRef) ([]datatypes.TreeNode, error) {
	abs := root
	if relPath != "" {
		abs = filepath.Join(root, filepath.FromSlash(relPath))
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, ErrNotFound
	}
	return buildDir(abs, relPath, space), nil
}

// buildDir lists one directory and recurses into subdirectories. The
// returned slice is never nil so an empty folder serializes as [].
func buildDir(absDir, relDir string, space datatypes.SpaceRef) []datatypes.TreeNode {
	nodes := []datatypes.TreeNode{}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		// Unreadable directory: treat as empty, keep scanning siblings.
		return nodes
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		relPath := datatypes.JoinPath(relDir, name)

		if entry.IsDir() {
			nodes = append(nodes, datatypes.TreeNode{
				Path:      relPath,
				Name:      name,
				Kind:      datatypes.KindFolder,
				SpaceID:   space.ID,
				SpaceName: space.Name,
				Children:  buildDir(filepath.Join(absDir, name), relPath, space),
			})
			continue
		}

		node := datatypes.TreeNode{
			Path:      relPath,
			Name:      name,
			Kind:      datatypes.KindDocument,
			SpaceID:   space.ID,
			SpaceName: space.Name,
		}
		ext := filepath.Ext(name)
		node.Title = strings.TrimSuffix(name, ext)
		node.Extension = strings.TrimPrefix(ext, ".")
		node.Category = datatypes.CategoryForExtension(ext)
		if info, err := entry.Info(); err == nil {
			node.Size = info.Size()
			node.ModifiedAt = info.ModTime().UnixMilli()
		}
		nodes = append(nodes, node)
	}

	datatypes.SortNodes(nodes)
	return nodes
}
