// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"
)

func TestValidateEntryName(t *testing.T) {
	t.Run("accepts normal names", func(t *testing.T) {
		valid := []string{
			"Notes",
			"readme.md",
			"Q3 Report (final)",
			"über-notes",
			"a",
			strings.Repeat("x", 255),
		}
		for _, name := range valid {
			if err := ValidateEntryName(name); err != nil {
				t.Errorf("ValidateEntryName(%q) = %v, want nil", name, err)
			}
		}
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		invalid := []string{
			"",
			".",
			"..",
			".templates",
			"a/b",
			`a\b`,
			"what?",
			"a:b",
			`say "hi"`,
			"a|b",
			"star*",
			"<tag>",
			"bell\x07",
			strings.Repeat("x", 256),
		}
		for _, name := range invalid {
			if err := ValidateEntryName(name); err == nil {
				t.Errorf("ValidateEntryName(%q) = nil, want error", name)
			}
		}
	})
}

func TestSanitizeEntryName(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		got, err := SanitizeEntryName("  Notes  ")
		if err != nil {
			t.Fatalf("SanitizeEntryName: %v", err)
		}
		if got != "Notes" {
			t.Errorf("got %q, want %q", got, "Notes")
		}
	})

	t.Run("whitespace-only is empty", func(t *testing.T) {
		if _, err := SanitizeEntryName("   "); err == nil {
			t.Error("SanitizeEntryName(\"   \") = nil, want error")
		}
	})
}

func TestValidateRelPath(t *testing.T) {
	t.Run("root sentinel is valid", func(t *testing.T) {
		if err := ValidateRelPath(""); err != nil {
			t.Errorf("ValidateRelPath(\"\") = %v, want nil", err)
		}
	})

	t.Run("accepts nested paths", func(t *testing.T) {
		valid := []string{"Notes", "Guides/intro.md", "a/b/c", ".templates/meeting.md"}
		for _, p := range valid {
			if err := ValidateRelPath(p); err != nil {
				t.Errorf("ValidateRelPath(%q) = %v, want nil", p, err)
			}
		}
	})

	t.Run("rejects traversal and malformed paths", func(t *testing.T) {
		invalid := []string{"/abs", "trailing/", "a//b", "../escape", "a/../b", `a\b`, "a/b?"}
		for _, p := range invalid {
			if err := ValidateRelPath(p); err == nil {
				t.Errorf("ValidateRelPath(%q) = nil, want error", p)
			}
		}
	})
}
