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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

// TemplateDir is the hidden system folder holding a space's document
// templates. It exists physically under the space root but is excluded
// from the user-facing tree projection like every dot-entry.
const TemplateDir = ".templates"

// ListTemplates returns the templates available in the space, sorted by
// id. A space without a template store has no templates; that is not an
// error.
func (s *Store) ListTemplates(root string) ([]datatypes.Template, error) {
	entries, err := os.ReadDir(filepath.Join(root, TemplateDir))
	if os.IsNotExist(err) {
		return []datatypes.Template{}, nil
	}
	if err != nil {
		return nil, err
	}

	templates := []datatypes.Template{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := filepath.Ext(entry.Name())
		templates = append(templates, datatypes.Template{
			ID:        strings.TrimSuffix(entry.Name(), ext),
			Name:      entry.Name(),
			Extension: strings.TrimPrefix(ext, "."),
		})
	}
	sort.Slice(templates, func(i, j int) bool {
		return strings.ToLower(templates[i].ID) < strings.ToLower(templates[j].ID)
	})
	return templates, nil
}

// TemplateContent returns the body of the template with the given id
// (filename without extension).
func (s *Store) TemplateContent(root, id string) ([]byte, error) {
	templates, err := s.ListTemplates(root)
	if err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		if tpl.ID == id {
			return os.ReadFile(filepath.Join(root, TemplateDir, tpl.Name))
		}
	}
	return nil, ErrTemplateNotFound
}
