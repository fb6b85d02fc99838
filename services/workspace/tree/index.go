// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tree

import (
	"errors"
	"strings"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// ErrNotFound is returned when a path does not resolve in the tree or on
// disk. Callers treat it as a recoverable stale-path condition, not a
// fatal error.
var ErrNotFound = errors.New("path not found")

// Find returns the node at path within the given tree, or false if no
// node matches. Paths are unique within a space, so at most one node
// matches. The root sentinel "" never resolves to a node; callers handle
// it before the lookup.
func Find(nodes []datatypes.TreeNode, path string) (*datatypes.TreeNode, bool) {
	if path == "" {
		return nil, false
	}
	for i := range nodes {
		n := &nodes[i]
		if n.Path == path {
			return n, true
		}
		// Descend only into folders that prefix the target path.
		if n.Kind == datatypes.KindFolder && strings.HasPrefix(path, n.Path+"/") {
			return Find(n.Children, path)
		}
	}
	return nil, false
}

// Walk visits every node in depth-first order. Used by invariant checks
// and tests; the visit function returning false stops the walk early.
func Walk(nodes []datatypes.TreeNode, visit func(*datatypes.TreeNode) bool) bool {
	for i := range nodes {
		n := &nodes[i]
		if !visit(n) {
			return false
		}
		if n.Kind == datatypes.KindFolder {
			if !Walk(n.Children, visit) {
				return false
			}
		}
	}
	return true
}
