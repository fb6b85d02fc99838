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
	"context"
	"errors"
	"log/slog"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// Reconciler keeps one space's cache converged with the server. It has
// two inputs: the patch a mutation response carries, and the change
// events the push channel delivers. Both collapse into subtree
// replacement, which makes reconciliation idempotent; a duplicated or
// reordered event costs one redundant scan, never a wrong tree.
type Reconciler struct {
	api    *APIClient
	cache  *Cache
	space  datatypes.SpaceRef
	logger *slog.Logger
}

// NewReconciler creates a reconciler for one space.
func NewReconciler(api *APIClient, cache *Cache, space datatypes.SpaceRef, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{api: api, cache: cache, space: space, logger: logger}
}

// Cache exposes the reconciled cache.
func (r *Reconciler) Cache() *Cache {
	return r.cache
}

// RefreshAll fetches the full tree and replaces the cache.
func (r *Reconciler) RefreshAll(ctx context.Context) error {
	resp, err := r.api.Tree(ctx, r.space.ID, "")
	if err != nil {
		return err
	}
	r.cache.ReplaceAll(resp.Space, resp.Nodes)
	return nil
}

// ApplyMutation patches the cache with the subtree a mutation response
// carries. A stale parent degrades to a full refresh.
func (r *Reconciler) ApplyMutation(ctx context.Context, patch datatypes.MutationResponse) error {
	if err := r.cache.ReplaceSubtree(patch.ParentPath, patch.Children); err != nil {
		r.logger.Debug("mutation patch missed its parent, refreshing",
			"parent", patch.ParentPath)
		return r.RefreshAll(ctx)
	}
	return nil
}

// HandleEvent reconciles one push event by refetching the affected
// parent folder and replacing it wholesale. Events for other spaces are
// dropped. Any failure to reconcile narrowly falls back to RefreshAll;
// convergence beats economy.
func (r *Reconciler) HandleEvent(ctx context.Context, ev datatypes.ChangeEvent) error {
	if ev.Space.ID != r.space.ID {
		return nil
	}

	parent := ev.Entry().ParentPath
	resp, err := r.api.Tree(ctx, r.space.ID, parent)
	if err != nil {
		if errors.Is(err, ErrStalePath) {
			// The parent itself is gone; an ancestor's deletion event
			// will repair it, but refresh now rather than wait.
			return r.RefreshAll(ctx)
		}
		return err
	}

	if err := r.cache.ReplaceSubtree(parent, resp.Nodes); err != nil {
		return r.RefreshAll(ctx)
	}
	return nil
}
