// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package client

import (
	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// Target is where an action applies. Three states are distinct: no
// target at all, the space root (the "" sentinel), and a concrete node.
// The zero value is no target.
type Target struct {
	path     string
	isFolder bool
	selected bool
	root     bool
}

// NoTarget returns the absent target. Actions that need one fail with
// ErrNoTarget.
func NoTarget() Target {
	return Target{}
}

// RootTarget targets the space root.
func RootTarget() Target {
	return Target{selected: true, root: true, isFolder: true}
}

// NodeTarget targets a concrete tree node.
func NodeTarget(node datatypes.TreeNode) Target {
	return Target{
		path:     node.Path,
		isFolder: node.IsFolder(),
		selected: true,
	}
}

// Selected reports whether any target is set.
func (t Target) Selected() bool {
	return t.selected
}

// IsRoot reports whether the target is the space root.
func (t Target) IsRoot() bool {
	return t.root
}

// Path returns the targeted path; the root target's path is "".
func (t Target) Path() string {
	return t.path
}

// CreatePath resolves the folder a create action lands in, revalidated
// against the cache: targeting a folder creates inside it, targeting a
// document creates beside it, targeting the root creates at the top
// level. A target whose node has meanwhile left the cache is stale.
func (t Target) CreatePath(cache *Cache) (string, error) {
	if !t.selected {
		return "", ErrNoTarget
	}
	if t.root {
		return "", nil
	}

	node, ok := cache.Find(t.path)
	if !ok {
		return "", ErrStalePath
	}
	if node.IsFolder() {
		return node.Path, nil
	}
	return datatypes.ParentPath(node.Path), nil
}

// DeletePath resolves the path a delete action removes. The root is not
// deletable, and a vanished node is stale.
func (t Target) DeletePath(cache *Cache) (string, error) {
	if !t.selected {
		return "", ErrNoTarget
	}
	if t.root {
		return "", ErrRootTarget
	}
	if _, ok := cache.Find(t.path); !ok {
		return "", ErrStalePath
	}
	return t.path, nil
}
