// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package spaces persists the space registry: the mapping from a space's
// identity to the root directory that backs it.
//
// The registry is the only persistent side-structure of the workspace
// service; the trees themselves are always derived from the filesystem.
// BadgerDB is used for local embedded storage with low-latency access.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package spaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Sentinel errors for registry operations.
var (
	// ErrSpaceNotFound is returned when no space matches the given
	// identity.
	ErrSpaceNotFound = errors.New("space not found")

	// ErrSpaceExists is returned when creating a space whose name is
	// already registered. Names are unique case-insensitively.
	ErrSpaceExists = errors.New("space already exists")
)

const (
	spaceKeyPrefix = "space:"
	nameKeyPrefix  = "name:"
)

// Space is one registered workspace root.
type Space struct {
	// ID is the stable identity of the space (UUID v4).
	ID string `json:"id"`

	// Name is the unique display name.
	Name string `json:"name"`

	// Root is the absolute path of the backing directory.
	Root string `json:"root"`

	// CreatedAt is the registration time in unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// Config holds configuration for the registry's BadgerDB instance.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives registry log output. If nil, slog.Default is used.
	// BadgerDB's own internal logging is always disabled.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Default: 5 minutes. Set to a negative value to disable.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	// Default: 0.5.
	GCDiscardRatio float64
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// Registry stores and resolves spaces. Safe for concurrent use; all
// mutation goes through badger transactions.
type Registry struct {
	db       *badger.DB
	logger   *slog.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// Open opens (or creates) the registry database and starts the value-log
// GC loop. Callers must Close the registry on shutdown.
func Open(cfg Config) (*Registry, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.GCInterval == 0 {
		cfg.GCInterval = 5 * time.Minute
	}
	if cfg.GCDiscardRatio == 0 {
		cfg.GCDiscardRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}

	r := &Registry{
		db:     db,
		logger: cfg.Logger,
		done:   make(chan struct{}),
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		go r.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return r, nil
}

// Close stops the GC loop and closes the database.
func (r *Registry) Close() error {
	r.stopOnce.Do(func() { close(r.done) })
	return r.db.Close()
}

// runGC periodically reclaims badger value-log space.
func (r *Registry) runGC(interval time.Duration, discardRatio float64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			err := r.db.RunValueLogGC(discardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				r.logger.Warn("registry value log GC failed", "error", err)
			}
		}
	}
}

// Create registers a new space with the given name, backed by a directory
// created under rootDir. Names are unique case-insensitively.
func (r *Registry) Create(name, rootDir string) (Space, error) {
	space := Space{
		ID:        uuid.New().String(),
		Name:      name,
		Root:      filepath.Join(rootDir, name),
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := os.MkdirAll(space.Root, 0750); err != nil {
		return Space{}, fmt.Errorf("create space root: %w", err)
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(nameKeyPrefix + strings.ToLower(name))
		if _, err := txn.Get(nameKey); err == nil {
			return ErrSpaceExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		value, err := json.Marshal(space)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(spaceKeyPrefix+space.ID), value); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(space.ID))
	})
	if err != nil {
		return Space{}, err
	}

	r.logger.Info("space registered", "space_id", space.ID, "name", name, "root", space.Root)
	return space, nil
}

// Get resolves a space by ID.
func (r *Registry) Get(id string) (Space, error) {
	var space Space
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(spaceKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSpaceNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &space)
		})
	})
	return space, err
}

// GetByName resolves a space by its case-insensitive name.
func (r *Registry) GetByName(name string) (Space, error) {
	var id string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(nameKeyPrefix + strings.ToLower(name)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSpaceNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return Space{}, err
	}
	return r.Get(id)
}

// List returns all registered spaces sorted by name.
func (r *Registry) List() ([]Space, error) {
	var spaces []Space
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(spaceKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var space Space
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &space)
			})
			if err != nil {
				return err
			}
			spaces = append(spaces, space)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortSpaces(spaces)
	return spaces, nil
}

// Delete removes a space from the registry. The backing directory is left
// in place; unregistering must never destroy documents.
func (r *Registry) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(spaceKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSpaceNotFound
		}
		if err != nil {
			return err
		}
		var space Space
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &space)
		}); err != nil {
			return err
		}
		if err := txn.Delete([]byte(spaceKeyPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(nameKeyPrefix + strings.ToLower(space.Name)))
	})
}

// Ref returns the SpaceRef identity of a space.
func (s Space) Ref() datatypes.SpaceRef {
	return datatypes.SpaceRef{ID: s.ID, Name: s.Name}
}

func sortSpaces(spaces []Space) {
	sort.Slice(spaces, func(i, j int) bool {
		return strings.ToLower(spaces[i].Name) < strings.ToLower(spaces[j].Name)
	})
}
