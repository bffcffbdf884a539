package domain

import "time"

// Entry is a node in the workspace tree: either a file or a folder. Folder
// paths always carry a trailing slash, so the flat path-keyed map doubles as
// the hierarchy (children are found by prefix match). A folder's IsExpanded
// flag only affects presentation but is persisted with the entry.
type Entry struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Content  string    `json:"content"`
	Language string    `json:"language"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Size     int       `json:"size"` // derived: len(Content)
	IsFolder bool      `json:"isFolder"`

	// IsModified is true when the in-memory content has diverged from the
	// last persisted value. Files only.
	IsModified bool `json:"isModified"`

	// IsExpanded tracks whether a folder is shown expanded. Folders only.
	IsExpanded bool `json:"isExpanded,omitempty"`
}

func NewFileEntry(path, name, content, language string) Entry {
	now := time.Now()
	return Entry{
		Path:     path,
		Name:     name,
		Content:  content,
		Language: language,
		Created:  now,
		Modified: now,
		Size:     len(content),
	}
}

func NewFolderEntry(path, name string) Entry {
	now := time.Now()
	return Entry{
		Path:       path,
		Name:       name,
		Created:    now,
		Modified:   now,
		IsFolder:   true,
		IsExpanded: true,
	}
}
