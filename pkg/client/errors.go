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

import "errors"

var (
	// ErrStalePath is returned when a cached path no longer exists on
	// the server or in the local cache. Callers recover by reconciling,
	// not by aborting.
	ErrStalePath = errors.New("path no longer exists")

	// ErrNoTarget is returned when an action needs a target and none is
	// selected. Distinct from the root target, which is the empty path.
	ErrNoTarget = errors.New("no target selected")

	// ErrConflict is returned when the server rejects a mutation because
	// an entry with the same name already exists.
	ErrConflict = errors.New("entry already exists")

	// ErrRootTarget is returned when a destructive action is aimed at
	// the space root sentinel.
	ErrRootTarget = errors.New("the space root cannot be targeted")
)
