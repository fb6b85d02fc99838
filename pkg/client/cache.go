// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package client is the workspace API client: a typed HTTP client, a
// local tree cache, the reconciler that keeps the cache converged with
// the server, and the websocket listener feeding it push events.
package client

import (
	"sync"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// Cache holds one space's tree as last known to this client. All
// updates happen by replacement: either the whole tree or one folder's
// children, always with server-provided nodes, so repeated application
// of the same patch is a no-op and unrelated siblings are never touched.
//
// # Thread Safety
//
// Safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	space datatypes.SpaceRef
	nodes []datatypes.TreeNode
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{nodes: []datatypes.TreeNode{}}
}

// Space returns the space the cached tree belongs to.
func (c *Cache) Space() datatypes.SpaceRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.space
}

// ReplaceAll swaps in a complete authoritative tree.
func (c *Cache) ReplaceAll(space datatypes.SpaceRef, nodes []datatypes.TreeNode) {
	if nodes == nil {
		nodes = []datatypes.TreeNode{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.space = space
	c.nodes = nodes
}

// ReplaceSubtree swaps the children of the folder at parentPath ("" =
// root level) for a fresh server scan. Nodes outside that folder are
// left untouched. Returns ErrStalePath when the parent folder is no
// longer in the cache; the caller falls back to a full refresh.
func (c *Cache) ReplaceSubtree(parentPath string, children []datatypes.TreeNode) error {
	if children == nil {
		children = []datatypes.TreeNode{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if parentPath == "" {
		c.nodes = children
		return nil
	}

	// Patch in place: nodes outside the target keep their identity, and
	// snapshots are deep copies so none of them observe the swap.
	parent := findNode(c.nodes, parentPath)
	if parent == nil || !parent.IsFolder() {
		return ErrStalePath
	}
	parent.Children = children
	return nil
}

// Find resolves a path in the cached tree. The root sentinel "" never
// resolves to a node; it is the level above the top-level nodes.
func (c *Cache) Find(path string) (datatypes.TreeNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	node := findNode(c.nodes, path)
	if node == nil {
		return datatypes.TreeNode{}, false
	}
	return *node, true
}

// Snapshot returns a deep copy of the cached tree.
func (c *Cache) Snapshot() []datatypes.TreeNode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneNodes(c.nodes)
}

// Len returns the number of nodes in the whole cached tree.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	var walk func(nodes []datatypes.TreeNode)
	walk = func(nodes []datatypes.TreeNode) {
		for i := range nodes {
			count++
			walk(nodes[i].Children)
		}
	}
	walk(c.nodes)
	return count
}

// Clear drops the cached tree.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.space = datatypes.SpaceRef{}
	c.nodes = []datatypes.TreeNode{}
}

// findNode descends by path-prefix; every node's path starts with its
// parent's path, so one comparison per level suffices.
func findNode(nodes []datatypes.TreeNode, path string) *datatypes.TreeNode {
	if path == "" {
		return nil
	}
	for i := range nodes {
		node := &nodes[i]
		if node.Path == path {
			return node
		}
		if len(path) > len(node.Path) &&
			path[:len(node.Path)] == node.Path &&
			path[len(node.Path)] == '/' {
			return findNode(node.Children, path)
		}
	}
	return nil
}

// cloneNodes deep-copies a node slice so subtree replacement never
// mutates a previously returned snapshot.
func cloneNodes(nodes []datatypes.TreeNode) []datatypes.TreeNode {
	out := make([]datatypes.TreeNode, len(nodes))
	copy(out, nodes)
	for i := range out {
		if out[i].Children != nil {
			out[i].Children = cloneNodes(out[i].Children)
		}
	}
	return out
}
