package domain

import "time"

type ConversationRole string

const (
	RoleUser      ConversationRole = "user"
	RoleAssistant ConversationRole = "assistant"
	RoleSystem    ConversationRole = "system"
)

// ConversationMessage is a single chat turn. History is owned exclusively by
// the conversation orchestrator and appended in chronological user/assistant
// pairs, truncated from the front once it exceeds the configured cap.
type ConversationMessage struct {
	Role      ConversationRole `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
}

// AssistantStatus is the orchestrator's externally visible state.
type AssistantStatus string

const (
	AssistantStatusIdle     AssistantStatus = "idle"
	AssistantStatusThinking AssistantStatus = "thinking"
)
