package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"codestudio/common"
	"codestudio/domain"
	"codestudio/workspace"
)

// Position is a 1-based line/column cursor location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SuggestFunc receives the working content of the active file when the
// auto-suggest timer fires.
type SuggestFunc func(path, content string)

// Session owns the editing state of the active file: the working (unsaved)
// content, cursor and selection, and the debounced auto-save and auto-suggest
// timers. The workspace store remains the source of truth for everything
// persisted; the session only holds what the user is currently typing.
type Session struct {
	store   *workspace.Store
	config  common.EditorConfig
	suggest SuggestFunc

	autoSave    *Debouncer
	autoSuggest *Debouncer

	mu       sync.Mutex
	path     string
	content  string
	cursor   int
	selStart int
	selEnd   int
}

func NewSession(store *workspace.Store, config common.EditorConfig, suggest SuggestFunc) *Session {
	return &Session{
		store:       store,
		config:      config,
		suggest:     suggest,
		autoSave:    NewDebouncer(time.Duration(config.AutoSaveDelayMs) * time.Millisecond),
		autoSuggest: NewDebouncer(time.Duration(config.AISuggestDelayMs) * time.Millisecond),
	}
}

// Open makes path the active file and loads its content into the session.
// Opening a folder toggles it in the store and leaves the session untouched.
func (s *Session) Open(ctx context.Context, path string) (opened bool, err error) {
	opened, err = s.store.OpenFile(ctx, path)
	if err != nil || !opened {
		return opened, err
	}
	entry, err := s.store.Entry(path)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = entry.Path
	s.content = entry.Content
	s.cursor = 0
	s.selStart, s.selEnd = 0, 0
	return true, nil
}

// Path returns the file the session is editing, or "" when none is open.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Content returns the working content, which may be ahead of the store.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// HandleInput records a keystroke's result: the full new content and the
// cursor offset after it. It marks the file dirty and reschedules the
// auto-save and auto-suggest timers; each keystroke cancels the pending ones.
func (s *Session) HandleInput(ctx context.Context, newContent string, cursorOffset int) error {
	s.mu.Lock()
	path := s.path
	if path == "" {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	s.content = newContent
	s.cursor = clamp(cursorOffset, 0, len(newContent))
	s.selStart, s.selEnd = s.cursor, s.cursor
	s.mu.Unlock()

	if err := s.store.MarkModified(ctx, path, len(newContent)); err != nil {
		return err
	}

	if s.config.AutoSave {
		s.autoSave.Trigger(func() {
			s.mu.Lock()
			path, content := s.path, s.content
			s.mu.Unlock()
			if path == "" {
				return
			}
			if err := s.store.Save(context.Background(), path, content); err != nil {
				zlog.Warn().Err(err).Str("path", path).Msg("Auto-save failed")
			}
		})
	}
	if s.config.AISuggestions && s.suggest != nil {
		s.autoSuggest.Trigger(func() {
			s.mu.Lock()
			path, content := s.path, s.content
			s.mu.Unlock()
			if path == "" {
				return
			}
			s.suggest(path, content)
		})
	}
	return nil
}

// Flush saves the working content immediately, canceling any pending
// auto-save.
func (s *Session) Flush(ctx context.Context) error {
	s.autoSave.Cancel()

	s.mu.Lock()
	path, content := s.path, s.content
	s.mu.Unlock()
	if path == "" {
		return nil
	}
	return s.store.Save(ctx, path, content)
}

// Close cancels both timers and detaches the session from its file.
func (s *Session) Close() {
	s.autoSave.Cancel()
	s.autoSuggest.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	s.content = ""
	s.cursor = 0
	s.selStart, s.selEnd = 0, 0
}

// SetSelection records the selected byte range. The cursor follows the
// selection end.
func (s *Session) SetSelection(start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = clamp(start, 0, len(s.content))
	end = clamp(end, start, len(s.content))
	s.selStart, s.selEnd = start, end
	s.cursor = end
}

// SelectionText returns the selected substring, or "" when the selection is
// empty.
func (s *Session) SelectionText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content[s.selStart:s.selEnd]
}

// CursorPosition converts the cursor byte offset to a 1-based line/column.
func (s *Session) CursorPosition() Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.content[:s.cursor]
	line := strings.Count(before, "\n") + 1
	column := s.cursor - strings.LastIndex(before, "\n")
	return Position{Line: line, Column: column}
}

// InsertAtCursor splices text at the cursor, replacing any selection, and
// reschedules the timers via HandleInput.
func (s *Session) InsertAtCursor(ctx context.Context, text string) error {
	s.mu.Lock()
	content := s.content[:s.selStart] + text + s.content[s.selEnd:]
	cursor := s.selStart + len(text)
	s.mu.Unlock()
	return s.HandleInput(ctx, content, cursor)
}

// InsertTab inserts a tab keystroke honoring the indentation config.
func (s *Session) InsertTab(ctx context.Context) error {
	if s.config.InsertSpaces {
		return s.InsertAtCursor(ctx, strings.Repeat(" ", s.config.TabSize))
	}
	return s.InsertAtCursor(ctx, "\t")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
