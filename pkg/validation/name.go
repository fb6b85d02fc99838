// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that end up in
// filesystem paths. Using these validators prevents path traversal and keeps
// entry names portable across filesystems.
package validation

import (
	"fmt"
	"strings"
)

// reservedChars are characters that are rejected in entry names.
// The set matches the characters that are invalid on at least one
// supported filesystem, plus both path separators.
const reservedChars = `<>:"|?*\/`

// MaxNameLength is the maximum length of a single entry name.
// 255 bytes is the common per-component limit on ext4, APFS and NTFS.
const MaxNameLength = 255

// ValidateEntryName validates a single folder or document name.
//
// Valid names:
//   - 1-255 bytes after trimming
//   - no path separators or reserved characters (< > : " | ? * \ /)
//   - no control characters
//   - no leading dot (the dot namespace is reserved for system folders
//     such as the template store)
//   - not "." or ".."
//
// Returns an error describing the first violation found.
//
// Example:
//
//	if err := validation.ValidateEntryName(req.Name); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func ValidateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", MaxNameLength)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name %q is reserved", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("names starting with '.' are reserved for system folders")
	}
	if i := strings.IndexAny(name, reservedChars); i >= 0 {
		return fmt.Errorf("name contains disallowed character %q", name[i])
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("name contains control character")
		}
	}
	return nil
}

// SanitizeEntryName trims surrounding whitespace and validates the result.
// Returns the cleaned name if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	name, err := validation.SanitizeEntryName(userInput)
//	if err != nil {
//	    return err
//	}
//	// Safe to use as a path component
func SanitizeEntryName(name string) (string, error) {
	cleaned := strings.TrimSpace(name)
	if err := ValidateEntryName(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

// ValidateRelPath validates a space-relative POSIX path.
//
// The empty string is valid and denotes the space root. Non-empty paths
// must not start or end with '/', must not contain empty, "." or ".."
// segments, and each segment must be free of reserved characters.
// Hidden segments (leading dot) are permitted here because paths arrive
// from the server-built tree, which only exposes them for system access.
func ValidateRelPath(path string) error {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("path must be relative with no trailing slash: %q", path)
	}
	if strings.Contains(path, `\`) {
		return fmt.Errorf("path must use '/' separators: %q", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			return fmt.Errorf("path contains empty segment: %q", path)
		}
		if seg == "." || seg == ".." {
			return fmt.Errorf("path contains traversal segment: %q", path)
		}
		if i := strings.IndexAny(seg, `<>:"|?*`); i >= 0 {
			return fmt.Errorf("path segment contains disallowed character %q", seg[i])
		}
	}
	return nil
}
