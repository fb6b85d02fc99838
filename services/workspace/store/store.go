// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store performs filesystem mutations for a space. All methods take the
// space's absolute root directory plus a POSIX-style relative path; the
// root sentinel "" refers to the root itself.
//
// Store is stateless and safe for concurrent use; concurrent mutations to
// the same path are resolved by the filesystem, and callers recover from
// races via the not-found condition.
type Store struct{}

// New returns a Store.
func New() *Store {
	return &Store{}
}

// Resolve maps a relative path to an absolute one, rejecting any path
// that would escape the root.
func (s *Store) Resolve(root, relPath string) (string, error) {
	if relPath == "" {
		return root, nil
	}
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	cleanRoot := filepath.Clean(root)
	if abs != cleanRoot && !strings.HasPrefix(abs, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, relPath)
	}
	return abs, nil
}

// IsFolder reports whether relPath exists and is a directory. The root
// sentinel is a folder as long as the root exists.
func (s *Store) IsFolder(root, relPath string) (bool, error) {
	abs, err := s.Resolve(root, relPath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Exists reports whether relPath currently resolves.
func (s *Store) Exists(root, relPath string) bool {
	abs, err := s.Resolve(root, relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Read returns the raw bytes of the document at relPath.
func (s *Store) Read(root, relPath string) ([]byte, error) {
	abs, err := s.Resolve(root, relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return data, nil
}

// Write stores data at relPath. When overwrite is false an existing entry
// is reported as ErrExists; the parent folder must already exist.
func (s *Store) Write(root, relPath string, data []byte, overwrite bool) error {
	abs, err := s.Resolve(root, relPath)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(abs); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, relPath)
		}
	}
	if err := s.requireParentFolder(root, relPath); err != nil {
		return err
	}
	if err := os.WriteFile(abs, data, 0640); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	return nil
}

// Mkdir creates the folder at relPath. The parent must exist; an existing
// entry at the path is ErrExists.
func (s *Store) Mkdir(root, relPath string) error {
	abs, err := s.Resolve(root, relPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, relPath)
	}
	if err := s.requireParentFolder(root, relPath); err != nil {
		return err
	}
	if err := os.Mkdir(abs, 0750); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("mkdir %s: %w", relPath, err)
	}
	return nil
}

// Rename moves the entry at oldRel to newRel. The source must exist and
// the destination must not.
func (s *Store) Rename(root, oldRel, newRel string) error {
	oldAbs, err := s.Resolve(root, oldRel)
	if err != nil {
		return err
	}
	newAbs, err := s.Resolve(root, newRel)
	if err != nil {
		return err
	}
	if _, err := os.Stat(oldAbs); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, oldRel)
	}
	if _, err := os.Stat(newAbs); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, newRel)
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", oldRel, newRel, err)
	}
	return nil
}

// Delete removes the entry at relPath, recursively for folders. Deleting
// the root sentinel is rejected.
func (s *Store) Delete(root, relPath string) error {
	if relPath == "" {
		return ErrRootDelete
	}
	abs, err := s.Resolve(root, relPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, relPath)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("delete %s: %w", relPath, err)
	}
	return nil
}

// requireParentFolder verifies that the parent of relPath exists and is a
// directory, distinguishing the stale-parent and wrong-kind conditions.
func (s *Store) requireParentFolder(root, relPath string) error {
	parent := ""
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		parent = relPath[:i]
	}
	abs, err := s.Resolve(root, parent)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, parent)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFolder, parent)
	}
	return nil
}
