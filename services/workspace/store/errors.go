// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store is the authoritative byte store for a space's documents,
// keyed by (space root, relative path).
//
// # Design Principles
//
// Security is paramount - all paths are validated to stay inside the space
// root before any filesystem access. The store performs no caching; the
// filesystem is the single source of truth and every read reflects it.
package store

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when the target path does not exist.
	// Callers treat it as a recoverable stale-path condition.
	ErrNotFound = errors.New("entry not found")

	// ErrExists is returned when creating an entry whose path is already
	// taken. Retrying a create is therefore safe: it succeeds once or
	// reports this, never silently duplicates.
	ErrExists = errors.New("entry already exists")

	// ErrPathTraversal is returned when a path escapes the space root.
	ErrPathTraversal = errors.New("path escapes space root")

	// ErrRootDelete is returned when a delete targets the root sentinel.
	ErrRootDelete = errors.New("cannot delete the space root")

	// ErrNotFolder is returned when a parent path resolves to a document.
	ErrNotFolder = errors.New("parent path is not a folder")

	// ErrTemplateNotFound is returned when a template id does not resolve
	// in the space's template store.
	ErrTemplateNotFound = errors.New("template not found")
)
