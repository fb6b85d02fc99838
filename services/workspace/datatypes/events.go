// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// EventType enumerates the change notifications pushed to clients.
type EventType string

const (
	EventFileAdded     EventType = "file:added"
	EventFileChanged   EventType = "file:changed"
	EventFileDeleted   EventType = "file:deleted"
	EventFolderAdded   EventType = "folder:added"
	EventFolderDeleted EventType = "folder:deleted"
)

// EntryInfo identifies the entry a change event refers to.
type EntryInfo struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	ParentPath string `json:"parentPath"`
}

// ChangeEvent is one push notification. Exactly one of File or Folder is
// set, matching the file:/folder: prefix of Type.
type ChangeEvent struct {
	Type   EventType  `json:"type"`
	Space  SpaceRef   `json:"space"`
	File   *EntryInfo `json:"file,omitempty"`
	Folder *EntryInfo `json:"folder,omitempty"`
}

// NewFileEvent builds a file-kind change event for the given relative path.
func NewFileEvent(t EventType, space SpaceRef, path string) ChangeEvent {
	info := entryInfoFor(path)
	return ChangeEvent{Type: t, Space: space, File: &info}
}

// NewFolderEvent builds a folder-kind change event for the given relative path.
func NewFolderEvent(t EventType, space SpaceRef, path string) ChangeEvent {
	info := entryInfoFor(path)
	return ChangeEvent{Type: t, Space: space, Folder: &info}
}

// Entry returns whichever of File or Folder is set.
func (e ChangeEvent) Entry() EntryInfo {
	if e.Folder != nil {
		return *e.Folder
	}
	if e.File != nil {
		return *e.File
	}
	return EntryInfo{}
}

func entryInfoFor(path string) EntryInfo {
	return EntryInfo{
		Name:       BaseName(path),
		Path:       path,
		ParentPath: ParentPath(path),
	}
}
