package domain

// EventType represents the different kinds of workspace events surfaced to
// the presentation layer. The core never renders; it emits these and lets
// subscribers (the websocket layer, tests) react.
type EventType string

const (
	FileTreeChangedEventType EventType = "file_tree_changed"
	TabsChangedEventType     EventType = "tabs_changed"
	EntrySavedEventType      EventType = "entry_saved"
	ConversationEventType    EventType = "conversation_message"
	AssistantStatusEventType EventType = "assistant_status"
	SuggestionEventType      EventType = "suggestion"
)

// Event is the interface implemented by all workspace event payloads.
type Event interface {
	GetEventType() EventType
	GetWorkspaceId() string
}

// FileTreeChangedEvent fires after any create/delete/rename/collapse, i.e.
// whenever the tree structure a file explorer shows may have changed.
type FileTreeChangedEvent struct {
	EventType   EventType `json:"eventType"`
	WorkspaceId string    `json:"workspaceId"`
}

func NewFileTreeChangedEvent(workspaceId string) FileTreeChangedEvent {
	return FileTreeChangedEvent{EventType: FileTreeChangedEventType, WorkspaceId: workspaceId}
}

func (e FileTreeChangedEvent) GetEventType() EventType { return e.EventType }
func (e FileTreeChangedEvent) GetWorkspaceId() string  { return e.WorkspaceId }

var _ Event = FileTreeChangedEvent{}

// TabsChangedEvent carries the full tab tuple after any open/close/rename
// touched it. ActiveFile is empty when no tabs remain.
type TabsChangedEvent struct {
	EventType   EventType `json:"eventType"`
	WorkspaceId string    `json:"workspaceId"`
	OpenTabs    []string  `json:"openTabs"`
	ActiveFile  string    `json:"activeFile"`
}

func NewTabsChangedEvent(workspaceId string, openTabs []string, activeFile string) TabsChangedEvent {
	return TabsChangedEvent{
		EventType:   TabsChangedEventType,
		WorkspaceId: workspaceId,
		OpenTabs:    openTabs,
		ActiveFile:  activeFile,
	}
}

func (e TabsChangedEvent) GetEventType() EventType { return e.EventType }
func (e TabsChangedEvent) GetWorkspaceId() string  { return e.WorkspaceId }

var _ Event = TabsChangedEvent{}

// EntrySavedEvent fires when a file's content was persisted.
type EntrySavedEvent struct {
	EventType   EventType `json:"eventType"`
	WorkspaceId string    `json:"workspaceId"`
	Path        string    `json:"path"`
}

func NewEntrySavedEvent(workspaceId, path string) EntrySavedEvent {
	return EntrySavedEvent{EventType: EntrySavedEventType, WorkspaceId: workspaceId, Path: path}
}

func (e EntrySavedEvent) GetEventType() EventType { return e.EventType }
func (e EntrySavedEvent) GetWorkspaceId() string  { return e.WorkspaceId }

var _ Event = EntrySavedEvent{}

// ConversationMessageEvent fires when a message is appended to the
// conversation history, for either role.
type ConversationMessageEvent struct {
	EventType   EventType           `json:"eventType"`
	WorkspaceId string              `json:"workspaceId"`
	Message     ConversationMessage `json:"message"`
}

func NewConversationMessageEvent(workspaceId string, msg ConversationMessage) ConversationMessageEvent {
	return ConversationMessageEvent{EventType: ConversationEventType, WorkspaceId: workspaceId, Message: msg}
}

func (e ConversationMessageEvent) GetEventType() EventType { return e.EventType }
func (e ConversationMessageEvent) GetWorkspaceId() string  { return e.WorkspaceId }

var _ Event = ConversationMessageEvent{}

// SuggestionEvent carries an unsolicited assistant suggestion for the file
// being edited. Suggestions live outside the conversation history.
type SuggestionEvent struct {
	EventType   EventType `json:"eventType"`
	WorkspaceId string    `json:"workspaceId"`
	Path        string    `json:"path"`
	Suggestion  string    `json:"suggestion"`
}

func NewSuggestionEvent(workspaceId, path, suggestion string) SuggestionEvent {
	return SuggestionEvent{EventType: SuggestionEventType, WorkspaceId: workspaceId, Path: path, Suggestion: suggestion}
}

func (e SuggestionEvent) GetEventType() EventType { return e.EventType }
func (e SuggestionEvent) GetWorkspaceId() string  { return e.WorkspaceId }

var _ Event = SuggestionEvent{}

// AssistantStatusEvent fires on idle/thinking transitions around a request.
type AssistantStatusEvent struct {
	EventType   EventType       `json:"eventType"`
	WorkspaceId string          `json:"workspaceId"`
	Status      AssistantStatus `json:"status"`
}

func NewAssistantStatusEvent(workspaceId string, status AssistantStatus) AssistantStatusEvent {
	return AssistantStatusEvent{EventType: AssistantStatusEventType, WorkspaceId: workspaceId, Status: status}
}

func (e AssistantStatusEvent) GetEventType() EventType { return e.EventType }
func (e AssistantStatusEvent) GetWorkspaceId() string  { return e.WorkspaceId }

var _ Event = AssistantStatusEvent{}
