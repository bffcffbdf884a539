package domain

import "time"

// A workspace is the unit of organization for the virtual project: one tree of
// entries, one set of open tabs, one conversation. It will eventually be
// associated with specific users and carry top-level configuration.
type Workspace struct {
	Id      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Project is the tab/active-file tuple persisted alongside the entries map.
// Invariants: every path in OpenTabs exists as a file entry; ActiveFile is
// empty iff OpenTabs is empty, and otherwise is a member of OpenTabs.
// OpenTabs is ordered most-recently-opened-last.
type Project struct {
	ActiveFile string   `json:"activeFile"`
	OpenTabs   []string `json:"openTabs"`
}
