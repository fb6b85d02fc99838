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
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

var testSpace = datatypes.SpaceRef{ID: "s1", Name: "Docs"}

func writeFixture(t *testing.T, root string, dirs []string, files map[string]string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func TestBuild(t *testing.T) {
	t.Run("missing root yields empty tree", func(t *testing.T) {
		nodes := Build(filepath.Join(t.TempDir(), "does-not-exist"), testSpace)
		if nodes == nil {
			t.Fatal("nodes is nil, want empty slice")
		}
		if len(nodes) != 0 {
			t.Errorf("len(nodes) = %d, want 0", len(nodes))
		}
	})

	t.Run("ordering invariant holds at every level", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root,
			[]string{"zeta", "Alpha", "Alpha/inner"},
			map[string]string{
				"readme.md":       "hi",
				"Budget.csv":      "a,b",
				"Alpha/zz.md":     "z",
				"Alpha/Apple.md":  "a",
				"Alpha/inner/x.t": "x",
			})

		nodes := Build(root, testSpace)

		var checkOrder func(level []datatypes.TreeNode)
		checkOrder = func(level []datatypes.TreeNode) {
			sawDoc := false
			for i, n := range level {
				if n.Kind == datatypes.KindDocument {
					sawDoc = true
				} else if sawDoc {
					t.Errorf("folder %q sorted after a document", n.Path)
				}
				if i > 0 && !datatypes.LessNode(level[i-1], n) && datatypes.LessNode(n, level[i-1]) {
					t.Errorf("siblings out of order: %q before %q", level[i-1].Name, n.Name)
				}
				checkOrder(n.Children)
			}
		}
		checkOrder(nodes)

		// Top level: Alpha, zeta (folders), then Budget.csv, readme.md.
		got := []string{}
		for _, n := range nodes {
			got = append(got, n.Name)
		}
		want := []string{"Alpha", "zeta", "Budget.csv", "readme.md"}
		if len(got) != len(want) {
			t.Fatalf("top level = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("top level = %v, want %v", got, want)
			}
		}
	})

	t.Run("hidden entries are excluded", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root,
			[]string{".templates"},
			map[string]string{
				".templates/meeting.md": "# Meeting",
				".hidden.md":            "x",
				"visible.md":            "y",
			})

		nodes := Build(root, testSpace)
		if len(nodes) != 1 || nodes[0].Name != "visible.md" {
			t.Fatalf("projection = %v, want only visible.md", nodes)
		}
	})

	t.Run("paths are unique and parent-derived", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root,
			[]string{"a/b"},
			map[string]string{"a/x.md": "1", "a/b/x.md": "2", "x.md": "3"})

		nodes := Build(root, testSpace)
		seen := map[string]bool{}
		Walk(nodes, func(n *datatypes.TreeNode) bool {
			if seen[n.Path] {
				t.Errorf("duplicate path %q", n.Path)
			}
			seen[n.Path] = true
			if want := datatypes.JoinPath(datatypes.ParentPath(n.Path), n.Name); n.Path != want {
				t.Errorf("path %q is not parent+name (%q)", n.Path, want)
			}
			if n.SpaceID != testSpace.ID {
				t.Errorf("node %q has spaceId %q", n.Path, n.SpaceID)
			}
			return true
		})
		for _, p := range []string{"x.md", "a", "a/x.md", "a/b", "a/b/x.md"} {
			if !seen[p] {
				t.Errorf("missing path %q", p)
			}
		}
	})

	t.Run("document metadata is populated", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root, nil, map[string]string{"guide.md": "# Guide"})

		nodes := Build(root, testSpace)
		if len(nodes) != 1 {
			t.Fatalf("len(nodes) = %d, want 1", len(nodes))
		}
		doc := nodes[0]
		if doc.Kind != datatypes.KindDocument {
			t.Fatalf("kind = %q, want document", doc.Kind)
		}
		if doc.Title != "guide" || doc.Extension != "md" {
			t.Errorf("title/ext = %q/%q, want guide/md", doc.Title, doc.Extension)
		}
		if doc.Category != datatypes.CategoryMarkdown {
			t.Errorf("category = %q, want markdown", doc.Category)
		}
		if doc.Size != int64(len("# Guide")) {
			t.Errorf("size = %d, want %d", doc.Size, len("# Guide"))
		}
		if doc.ModifiedAt == 0 {
			t.Error("modifiedAt not set")
		}
	})

	t.Run("empty folder has empty non-nil children", func(t *testing.T) {
		root := t.TempDir()
		writeFixture(t, root, []string{"empty"}, nil)

		nodes := Build(root, testSpace)
		if len(nodes) != 1 {
			t.Fatalf("len(nodes) = %d, want 1", len(nodes))
		}
		if nodes[0].Children == nil {
			t.Error("folder children is nil, want empty slice")
		}
	})
}

func TestBuildSubtree(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		[]string{"Guides"},
		map[string]string{"Guides/intro.md": "x", "readme.md": "y"})

	t.Run("scans only the requested folder", func(t *testing.T) {
		children, err := BuildSubtree(root, "Guides", testSpace)
		if err != nil {
			t.Fatalf("BuildSubtree: %v", err)
		}
		if len(children) != 1 || children[0].Path != "Guides/intro.md" {
			t.Fatalf("children = %v, want [Guides/intro.md]", children)
		}
	})

	t.Run("root sentinel scans the top level", func(t *testing.T) {
		children, err := BuildSubtree(root, "", testSpace)
		if err != nil {
			t.Fatalf("BuildSubtree: %v", err)
		}
		if len(children) != 2 {
			t.Fatalf("len(children) = %d, want 2", len(children))
		}
	})

	t.Run("missing folder is ErrNotFound", func(t *testing.T) {
		if _, err := BuildSubtree(root, "Nope", testSpace); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("document path is ErrNotFound", func(t *testing.T) {
		if _, err := BuildSubtree(root, "readme.md", testSpace); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		[]string{"Guides/Deep"},
		map[string]string{"Guides/intro.md": "x", "Guides/Deep/far.md": "y", "readme.md": "z"})
	nodes := Build(root, testSpace)

	t.Run("finds nested nodes", func(t *testing.T) {
		n, ok := Find(nodes, "Guides/Deep/far.md")
		if !ok {
			t.Fatal("Find returned false")
		}
		if n.Name != "far.md" || n.Kind != datatypes.KindDocument {
			t.Errorf("unexpected node: %+v", n)
		}
	})

	t.Run("finds folders", func(t *testing.T) {
		n, ok := Find(nodes, "Guides")
		if !ok || n.Kind != datatypes.KindFolder {
			t.Fatalf("Find(Guides) = %v, %v", n, ok)
		}
	})

	t.Run("misses absent and root paths", func(t *testing.T) {
		if _, ok := Find(nodes, "Guides/nope.md"); ok {
			t.Error("found nonexistent path")
		}
		if _, ok := Find(nodes, ""); ok {
			t.Error("root sentinel resolved to a node")
		}
	})
}
