package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"codestudio/common"
	"codestudio/domain"
	"codestudio/srv"
	"codestudio/utils"
)

// KV keys. Entries are stored one per key so folder cascades map onto the
// storage's prefix operations instead of rewriting the whole tree.
const (
	entryKeyPrefix = "entry:"
	workspaceKey   = "workspace"
	projectKey     = "project"
	settingsKey    = "settings"
	themeKey       = "theme"
)

const defaultWorkspaceName = "My Project"

const defaultTheme = "dark"

// Confirmer is the yes/no capability consulted before destructive operations
// (closing a tab with unsaved changes, deleting an entry). The store decides
// when confirmation is required; how it is presented is the caller's concern.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AutoConfirm approves every prompt. Used when the caller has already
// confirmed out of band.
var AutoConfirm = ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
	return true, nil
})

// SearchResult is one match from Search: a file whose name or content matched
// the query, with the first matching line when the content matched.
type SearchResult struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Line     int    `json:"line,omitempty"`
	LineText string `json:"lineText,omitempty"`
}

// Store owns the workspace tree, open-tab ordering and active-file pointer.
// The in-memory state is the source of truth; every mutation is mirrored to
// storage fire-and-forget, so persistence failures are logged, not returned.
// Mutations are serialized under one mutex and validated before any state is
// touched, so a failed operation leaves the state unchanged.
type Store struct {
	workspaceId string
	storage     srv.Storage
	broadcaster *Broadcaster

	mu         sync.Mutex
	workspace  domain.Workspace
	entries    map[string]domain.Entry
	openTabs   []string // most-recently-opened last
	activeFile string
}

func NewStore(workspaceId string, storage srv.Storage) *Store {
	return &Store{
		workspaceId: workspaceId,
		storage:     storage,
		broadcaster: NewBroadcaster(),
		entries:     make(map[string]domain.Entry),
	}
}

func (s *Store) WorkspaceId() string { return s.workspaceId }

// Events returns the store's broadcaster, shared with collaborators that
// publish workspace-adjacent events (the conversation orchestrator).
func (s *Store) Events() *Broadcaster { return s.broadcaster }

// Subscribe returns a channel of workspace events. The caller must call
// Unsubscribe when done.
func (s *Store) Subscribe() chan domain.Event { return s.broadcaster.Subscribe() }

func (s *Store) Unsubscribe(ch chan domain.Event) { s.broadcaster.Unsubscribe(ch) }

// Load hydrates the store from storage and seeds the default project when the
// loaded tree is empty. Seeding is idempotent: existing entries always win.
func (s *Store) Load(ctx context.Context) error {
	keys, err := s.storage.GetKeysWithPrefix(ctx, s.workspaceId, entryKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list workspace entries: %w", err)
	}

	values, err := s.storage.MGet(ctx, s.workspaceId, append(keys, projectKey, workspaceKey))
	if err != nil {
		return fmt.Errorf("failed to load workspace state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.workspace = domain.Workspace{}
	if raw := values[len(values)-1]; raw != nil {
		if err := json.Unmarshal(raw, &s.workspace); err != nil {
			zlog.Warn().Err(err).Msg("Skipping unreadable workspace record")
			s.workspace = domain.Workspace{}
		}
	}
	if s.workspace.Id == "" {
		now := time.Now()
		s.workspace = domain.Workspace{
			Id:      s.workspaceId,
			Name:    defaultWorkspaceName,
			Created: now,
			Updated: now,
		}
		if err := s.storage.MSet(ctx, s.workspaceId, map[string]interface{}{workspaceKey: s.workspace}); err != nil {
			zlog.Warn().Err(err).Msg("Failed to persist workspace record")
		}
	}

	s.entries = make(map[string]domain.Entry)
	for i, key := range keys {
		if values[i] == nil {
			continue
		}
		var entry domain.Entry
		if err := json.Unmarshal(values[i], &entry); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("Skipping unreadable workspace entry")
			continue
		}
		s.entries[entry.Path] = entry
	}

	var project domain.Project
	if raw := values[len(values)-2]; raw != nil {
		if err := json.Unmarshal(raw, &project); err != nil {
			zlog.Warn().Err(err).Msg("Skipping unreadable project state")
			project = domain.Project{}
		}
	}

	// Drop tab references that no longer resolve to a file.
	s.openTabs = nil
	for _, path := range project.OpenTabs {
		if entry, ok := s.entries[path]; ok && !entry.IsFolder {
			s.openTabs = append(s.openTabs, path)
		}
	}
	s.activeFile = ""
	if utils.Contains(s.openTabs, project.ActiveFile) {
		s.activeFile = project.ActiveFile
	} else if len(s.openTabs) > 0 {
		s.activeFile = s.openTabs[len(s.openTabs)-1]
	}

	if len(s.entries) == 0 {
		s.seedDefaultsLocked(ctx)
	}
	return nil
}

var defaultFiles = []struct {
	name    string
	content string
}{
	{"index.html", "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n    <meta charset=\"UTF-8\">\n    <title>My Project</title>\n    <link rel=\"stylesheet\" href=\"styles.css\">\n</head>\n<body>\n    <h1>Hello, world!</h1>\n    <script src=\"main.js\"></script>\n</body>\n</html>\n"},
	{"styles.css", "body {\n    font-family: sans-serif;\n    margin: 2rem;\n}\n"},
	{"main.js", "console.log('Hello, world!');\n"},
	{"README.md", "# My Project\n\nStart editing to see your changes.\n"},
}

func (s *Store) seedDefaultsLocked(ctx context.Context) {
	changed := map[string]domain.Entry{}
	for _, f := range defaultFiles {
		path := utils.JoinPath("/", f.name, false)
		if _, ok := s.entries[path]; ok {
			continue
		}
		entry := domain.NewFileEntry(path, f.name, f.content, common.InferLanguage(f.name))
		s.entries[path] = entry
		changed[path] = entry
	}
	if len(changed) > 0 {
		zlog.Info().Int("count", len(changed)).Msg("Seeded default project files")
		s.persistEntries(ctx, changed)
	}
}

// CreateFile inserts a new file entry and returns its path. Missing parent
// folders are materialized on the way. An empty language is inferred from the
// file extension.
func (s *Store) CreateFile(ctx context.Context, name, content, language, parentFolder string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("file name must not be empty")
	}
	if language == "" {
		language = common.InferLanguage(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := utils.JoinPath(parentFolder, name, false)
	if _, ok := s.entries[path]; ok {
		return "", fmt.Errorf("%s: %w", path, domain.ErrAlreadyExists)
	}

	changed := s.ensureParentsLocked(path)
	entry := domain.NewFileEntry(path, name, content, language)
	s.entries[path] = entry
	changed[path] = entry

	s.persistEntries(ctx, changed)
	s.broadcaster.Publish(domain.NewFileTreeChangedEvent(s.workspaceId))
	return path, nil
}

// CreateFolder inserts a new folder entry (expanded) and returns its path.
func (s *Store) CreateFolder(ctx context.Context, name, parentFolder string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("folder name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := utils.JoinPath(parentFolder, name, true)
	if _, ok := s.entries[path]; ok {
		return "", fmt.Errorf("%s: %w", path, domain.ErrAlreadyExists)
	}

	changed := s.ensureParentsLocked(path)
	entry := domain.NewFolderEntry(path, name)
	s.entries[path] = entry
	changed[path] = entry

	s.persistEntries(ctx, changed)
	s.broadcaster.Publish(domain.NewFileTreeChangedEvent(s.workspaceId))
	return path, nil
}

// ensureParentsLocked materializes any missing ancestor folders of path and
// returns them keyed by path for persistence.
func (s *Store) ensureParentsLocked(path string) map[string]domain.Entry {
	changed := map[string]domain.Entry{}
	for parent := utils.ParentPath(path); parent != "/"; parent = utils.ParentPath(parent) {
		if _, ok := s.entries[parent]; ok {
			break
		}
		entry := domain.NewFolderEntry(parent, utils.BaseName(parent))
		s.entries[parent] = entry
		changed[parent] = entry
	}
	return changed
}

// OpenFile makes path the active tab. Opening a folder instead toggles its
// expanded state and reports opened=false.
func (s *Store) OpenFile(ctx context.Context, path string) (opened bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = utils.NormalizePath(path)
	entry, ok := s.entries[path]
	if !ok {
		return false, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	if entry.IsFolder {
		entry.IsExpanded = !entry.IsExpanded
		s.entries[path] = entry
		s.persistEntries(ctx, map[string]domain.Entry{path: entry})
		s.broadcaster.Publish(domain.NewFileTreeChangedEvent(s.workspaceId))
		return false, nil
	}

	if !utils.Contains(s.openTabs, path) {
		s.openTabs = append(s.openTabs, path)
	}
	s.activeFile = path

	s.persistProject(ctx)
	s.broadcaster.Publish(domain.NewTabsChangedEvent(s.workspaceId, s.tabsSnapshotLocked(), s.activeFile))
	return true, nil
}

// CloseFile removes path from the open tabs. When the file has unsaved
// changes the confirmer is consulted first; a declined prompt leaves the tabs
// untouched. Closing a path that is not open is a no-op.
func (s *Store) CloseFile(ctx context.Context, path string, confirm Confirmer) (closed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = utils.NormalizePath(path)
	if !utils.Contains(s.openTabs, path) {
		return false, nil
	}

	if entry, ok := s.entries[path]; ok && entry.IsModified {
		ok, err := s.confirmUnlocked(ctx, confirm, fmt.Sprintf("File %s has unsaved changes. Close anyway?", entry.Name))
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		// The prompt released the mutex; the tab may be gone by now.
		if !utils.Contains(s.openTabs, path) {
			return false, nil
		}
	}

	s.removeTabLocked(path)
	s.persistProject(ctx)
	s.broadcaster.Publish(domain.NewTabsChangedEvent(s.workspaceId, s.tabsSnapshotLocked(), s.activeFile))
	return true, nil
}

// confirmUnlocked releases the store mutex for the duration of the prompt so
// a confirmation round trip does not block unrelated operations.
func (s *Store) confirmUnlocked(ctx context.Context, confirm Confirmer, prompt string) (bool, error) {
	if confirm == nil {
		confirm = AutoConfirm
	}
	s.mu.Unlock()
	defer s.mu.Lock()
	return confirm.Confirm(ctx, prompt)
}

// removeTabLocked drops path from openTabs and reassigns activeFile to the
// most recently opened remaining tab, or clears it.
func (s *Store) removeTabLocked(path string) {
	s.openTabs = utils.Remove(s.openTabs, path)
	if s.activeFile == path {
		if len(s.openTabs) > 0 {
			s.activeFile = s.openTabs[len(s.openTabs)-1]
		} else {
			s.activeFile = ""
		}
	}
}

// Save replaces the file's content and clears its modified flag.
func (s *Store) Save(ctx context.Context, path, newContent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = utils.NormalizePath(path)
	entry, ok := s.entries[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	if entry.IsFolder {
		return fmt.Errorf("%s is a folder: %w", path, domain.ErrNotFound)
	}

	entry.Content = newContent
	entry.Modified = time.Now()
	entry.Size = len(newContent)
	entry.IsModified = false
	s.entries[path] = entry

	s.persistEntries(ctx, map[string]domain.Entry{path: entry})
	s.broadcaster.Publish(domain.NewEntrySavedEvent(s.workspaceId, path))
	return nil
}

// MarkModified records that the in-memory editor content for path has
// diverged from the persisted value. size is the current content length.
func (s *Store) MarkModified(ctx context.Context, path string, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = utils.NormalizePath(path)
	entry, ok := s.entries[path]
	if !ok || entry.IsFolder {
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	entry.IsModified = true
	entry.Size = size
	s.entries[path] = entry
	return nil
}

// Delete removes the entry at path after confirmation. Deleting a folder
// cascades to every entry underneath it; any open tabs among the deleted
// paths are closed first, with the active file reassigned like CloseFile.
func (s *Store) Delete(ctx context.Context, path string, confirm Confirmer) (deleted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = utils.NormalizePath(path)
	entry, ok := s.entries[path]
	if !ok {
		return false, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	kind := "file"
	if entry.IsFolder {
		kind = "folder"
	}
	confirmed, err := s.confirmUnlocked(ctx, confirm, fmt.Sprintf("Are you sure you want to delete %s %s?", kind, entry.Name))
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}
	// The prompt released the mutex; the entry may be gone by now.
	if entry, ok = s.entries[path]; !ok {
		return false, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	doomed := []string{path}
	if entry.IsFolder {
		for p := range s.entries {
			if p != path && utils.HasPathPrefix(p, path) {
				doomed = append(doomed, p)
			}
		}
	}

	tabsChanged := false
	for _, p := range doomed {
		if utils.Contains(s.openTabs, p) {
			s.removeTabLocked(p)
			tabsChanged = true
		}
		delete(s.entries, p)
	}

	if entry.IsFolder {
		s.deletePersistedPrefix(ctx, path)
	} else {
		s.deletePersisted(ctx, doomed)
	}
	s.persistProject(ctx)

	s.broadcaster.Publish(domain.NewFileTreeChangedEvent(s.workspaceId))
	if tabsChanged {
		s.broadcaster.Publish(domain.NewTabsChangedEvent(s.workspaceId, s.tabsSnapshotLocked(), s.activeFile))
	}
	return true, nil
}

// Rename moves the entry at path to newName within the same parent folder and
// returns the new path. Folder renames cascade to every descendant, updating
// open tabs and the active file pointwise.
func (s *Store) Rename(ctx context.Context, path, newName string) (string, error) {
	if strings.TrimSpace(newName) == "" {
		return "", fmt.Errorf("new name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path = utils.NormalizePath(path)
	entry, ok := s.entries[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	newPath := utils.JoinPath(utils.ParentPath(path), newName, entry.IsFolder)
	if newPath == path {
		return newPath, nil
	}
	if _, ok := s.entries[newPath]; ok {
		return "", fmt.Errorf("%s: %w", newPath, domain.ErrAlreadyExists)
	}
	if entry.IsFolder && utils.HasPathPrefix(newPath, path) {
		return "", fmt.Errorf("cannot move folder %s into itself", path)
	}

	now := time.Now()
	changed := map[string]domain.Entry{}

	entry.Name = newName
	entry.Path = newPath
	entry.Modified = now
	delete(s.entries, path)
	s.entries[newPath] = entry
	changed[newPath] = entry
	s.retargetTabLocked(path, newPath)

	if entry.IsFolder {
		for oldChild, child := range s.entries {
			if oldChild == newPath || !utils.HasPathPrefix(oldChild, path) {
				continue
			}
			newChild := utils.ReplacePathPrefix(oldChild, path, newPath)
			child.Path = newChild
			delete(s.entries, oldChild)
			s.entries[newChild] = child
			changed[newChild] = child
			s.retargetTabLocked(oldChild, newChild)
		}
	}

	if entry.IsFolder {
		s.deletePersistedPrefix(ctx, path)
	} else {
		s.deletePersisted(ctx, []string{path})
	}
	s.persistEntries(ctx, changed)
	s.persistProject(ctx)

	s.broadcaster.Publish(domain.NewFileTreeChangedEvent(s.workspaceId))
	s.broadcaster.Publish(domain.NewTabsChangedEvent(s.workspaceId, s.tabsSnapshotLocked(), s.activeFile))
	return newPath, nil
}

func (s *Store) retargetTabLocked(oldPath, newPath string) {
	for i, tab := range s.openTabs {
		if tab == oldPath {
			s.openTabs[i] = newPath
		}
	}
	if s.activeFile == oldPath {
		s.activeFile = newPath
	}
}

// CollapseAll collapses every folder in the tree.
func (s *Store) CollapseAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := map[string]domain.Entry{}
	for path, entry := range s.entries {
		if entry.IsFolder && entry.IsExpanded {
			entry.IsExpanded = false
			s.entries[path] = entry
			changed[path] = entry
		}
	}
	if len(changed) == 0 {
		return
	}
	s.persistEntries(ctx, changed)
	s.broadcaster.Publish(domain.NewFileTreeChangedEvent(s.workspaceId))
}

// Search returns files whose name or content contains the query,
// case-insensitive. Content matches report the first matching line.
func (s *Store) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var results []SearchResult
	for _, entry := range s.entries {
		if entry.IsFolder {
			continue
		}
		if strings.Contains(strings.ToLower(entry.Name), query) {
			results = append(results, SearchResult{Path: entry.Path, Name: entry.Name})
			continue
		}
		for i, line := range strings.Split(entry.Content, "\n") {
			if strings.Contains(strings.ToLower(line), query) {
				results = append(results, SearchResult{
					Path:     entry.Path,
					Name:     entry.Name,
					Line:     i + 1,
					LineText: strings.TrimSpace(line),
				})
				break
			}
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

// Entry returns the entry at path.
func (s *Store) Entry(path string) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[utils.NormalizePath(path)]
	if !ok {
		return domain.Entry{}, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return entry, nil
}

// Entries returns a snapshot of all entries sorted by path.
func (s *Store) Entries() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

// ActiveFile returns the active file entry, or ok=false when no tab is open.
func (s *Store) ActiveFile() (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeFile == "" {
		return domain.Entry{}, false
	}
	entry, ok := s.entries[s.activeFile]
	return entry, ok
}

// Project returns the current tab/active-file tuple.
func (s *Store) Project() domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Project{ActiveFile: s.activeFile, OpenTabs: s.tabsSnapshotLocked()}
}

// Workspace returns the workspace record created on first load.
func (s *Store) Workspace() domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

func (s *Store) tabsSnapshotLocked() []string {
	return append([]string(nil), s.openTabs...)
}

// PutSettings persists an opaque settings blob for the workspace. The store
// does not interpret it.
func (s *Store) PutSettings(ctx context.Context, raw []byte) error {
	return s.storage.MSetRaw(ctx, s.workspaceId, map[string][]byte{settingsKey: raw})
}

// GetSettings returns the persisted settings blob, or nil when none is set.
func (s *Store) GetSettings(ctx context.Context) ([]byte, error) {
	values, err := s.storage.MGet(ctx, s.workspaceId, []string{settingsKey})
	if err != nil {
		return nil, err
	}
	return values[0], nil
}

// SetTheme persists the theme preference string.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.storage.MSet(ctx, s.workspaceId, map[string]interface{}{themeKey: theme})
}

// Theme returns the persisted theme preference, defaulting to "dark".
func (s *Store) Theme(ctx context.Context) (string, error) {
	values, err := s.storage.MGet(ctx, s.workspaceId, []string{themeKey})
	if err != nil {
		return "", err
	}
	if values[0] == nil {
		return defaultTheme, nil
	}
	var theme string
	if err := json.Unmarshal(values[0], &theme); err != nil {
		return defaultTheme, nil
	}
	return theme, nil
}

// persistEntries mirrors changed entries to storage. The in-memory state is
// the source of truth, so failures are logged rather than returned.
func (s *Store) persistEntries(ctx context.Context, changed map[string]domain.Entry) {
	values := make(map[string]interface{}, len(changed))
	for path, entry := range changed {
		values[entryKeyPrefix+path] = entry
	}
	if err := s.storage.MSet(ctx, s.workspaceId, values); err != nil {
		zlog.Warn().Err(err).Msg("Failed to persist workspace entries")
	}
}

func (s *Store) deletePersisted(ctx context.Context, paths []string) {
	keys := utils.Map(paths, func(p string) string { return entryKeyPrefix + p })
	if err := s.storage.Delete(ctx, s.workspaceId, keys); err != nil {
		zlog.Warn().Err(err).Msg("Failed to delete persisted entries")
	}
}

func (s *Store) deletePersistedPrefix(ctx context.Context, path string) {
	if err := s.storage.DeletePrefix(ctx, s.workspaceId, entryKeyPrefix+path); err != nil {
		zlog.Warn().Err(err).Str("path", path).Msg("Failed to delete persisted entries")
	}
}

func (s *Store) persistProject(ctx context.Context) {
	s.workspace.Updated = time.Now()
	project := domain.Project{ActiveFile: s.activeFile, OpenTabs: s.tabsSnapshotLocked()}
	values := map[string]interface{}{projectKey: project, workspaceKey: s.workspace}
	if err := s.storage.MSet(ctx, s.workspaceId, values); err != nil {
		zlog.Warn().Err(err).Msg("Failed to persist project state")
	}
}
