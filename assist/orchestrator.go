package assist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codestudio/common"
	"codestudio/domain"
	"codestudio/workspace"
)

// WelcomeMessage opens a fresh conversation.
const WelcomeMessage = `👋 Welcome! I'm your coding assistant.

I can help you with:
• **Code Generation** - Write code from natural language descriptions
• **Bug Detection** - Find and fix issues in your code
• **Code Review** - Analyze code quality and suggest improvements
• **Documentation** - Generate comments and documentation
• **Optimization** - Improve code performance and readability
• **Learning** - Explain complex programming concepts

What would you like to work on today?`

// SendOptions tweaks one Send call. Selection, when set, replaces the full
// file content in the injected context. IncludeContext false skips context
// injection entirely.
type SendOptions struct {
	Selection      string
	ExcludeContext bool
}

// Orchestrator owns the bounded conversation history and the single-flight
// request lifecycle. A second Send while one is in flight fails with
// domain.ErrBusy; requests are never queued. There is no timeout on the
// outbound request, so a hung provider keeps the orchestrator busy until it
// returns.
type Orchestrator struct {
	provider Provider
	config   common.AIConfig
	store    *workspace.Store

	mu      sync.Mutex
	busy    bool
	history []domain.ConversationMessage
}

func NewOrchestrator(provider Provider, config common.AIConfig, store *workspace.Store) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		config:   config,
		store:    store,
	}
}

// Status reports Idle or Thinking.
func (o *Orchestrator) Status() domain.AssistantStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return domain.AssistantStatusThinking
	}
	return domain.AssistantStatusIdle
}

// History returns a snapshot of the conversation.
func (o *Orchestrator) History() []domain.ConversationMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.ConversationMessage(nil), o.history...)
}

// Clear drops the conversation history. It fails while a request is in
// flight.
func (o *Orchestrator) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return domain.ErrBusy
	}
	o.history = nil
	return nil
}

// Send issues one assistant request for userText and returns the assistant's
// reply. The user message is recorded in history regardless of the outcome,
// preserving intent for retry; an assistant message is appended only on
// success. The active file (or the supplied selection) is injected as context
// for the request but never stored in history.
func (o *Orchestrator) Send(ctx context.Context, userText string, opts SendOptions) (string, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return "", domain.ErrBusy
	}
	o.busy = true

	userMsg := domain.ConversationMessage{
		Role:      domain.RoleUser,
		Content:   userText,
		Timestamp: time.Now(),
	}
	o.history = append(o.history, userMsg)
	// The cap holds even when the request later fails and the user message
	// is all that remains of this turn.
	if len(o.history) > o.config.HistoryCap {
		o.history = o.history[len(o.history)-o.config.HistoryCap:]
	}

	// Window of prior messages, excluding the user message just appended;
	// its content travels inside the context message instead.
	prior := o.history[:len(o.history)-1]
	if len(prior) > o.config.HistoryWindow {
		prior = prior[len(prior)-o.config.HistoryWindow:]
	}
	window := append([]domain.ConversationMessage(nil), prior...)
	o.mu.Unlock()

	o.publishStatus(domain.AssistantStatusThinking)
	o.publishMessage(userMsg)
	defer o.publishStatus(domain.AssistantStatusIdle)
	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	messages := make([]domain.ConversationMessage, 0, len(window)+2)
	messages = append(messages, domain.ConversationMessage{
		Role:    domain.RoleSystem,
		Content: o.config.SystemPrompt,
	})
	messages = append(messages, window...)
	messages = append(messages, domain.ConversationMessage{
		Role:    domain.RoleUser,
		Content: o.buildContext(userText, opts),
	})

	response, err := o.provider.Complete(ctx, Request{
		Model:       o.config.Model,
		Messages:    messages,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	})
	if err != nil {
		return "", err
	}

	assistantMsg := domain.ConversationMessage{
		Role:      domain.RoleAssistant,
		Content:   response,
		Timestamp: time.Now(),
	}

	o.mu.Lock()
	o.history = append(o.history, assistantMsg)
	if len(o.history) > o.config.HistoryCap {
		o.history = o.history[len(o.history)-o.config.HistoryCap:]
	}
	o.mu.Unlock()

	o.publishMessage(assistantMsg)
	return response, nil
}

// Suggest asks the provider for one improvement to the code being typed.
// It shares the single-flight guard with Send but stays out of the
// conversation history: the result is published as a suggestion event, not a
// chat message. content is the working buffer, which may be ahead of what the
// store has persisted.
func (o *Orchestrator) Suggest(ctx context.Context, path, content string) (string, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return "", domain.ErrBusy
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	name, language := path, ""
	if entry, err := o.store.Entry(path); err == nil {
		name, language = entry.Name, entry.Language
	}

	messages := []domain.ConversationMessage{
		{Role: domain.RoleSystem, Content: o.config.SystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(
			"File: %s (%s)\nCurrent code:\n```%s\n%s\n```\n\nSuggest one concise improvement to this code.",
			name, language, language, content)},
	}

	response, err := o.provider.Complete(ctx, Request{
		Model:       o.config.Model,
		Messages:    messages,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	})
	if err != nil {
		return "", err
	}

	o.store.Events().Publish(domain.NewSuggestionEvent(o.store.WorkspaceId(), path, response))
	return response, nil
}

// buildContext prefixes the user's question with the active file's name,
// language and content (or the caller's selection), so the assistant can
// reason about the code on screen.
func (o *Orchestrator) buildContext(userText string, opts SendOptions) string {
	if opts.ExcludeContext {
		return userText
	}
	entry, ok := o.store.ActiveFile()
	if !ok {
		return userText
	}

	if opts.Selection != "" {
		return fmt.Sprintf("File: %s (%s)\nSelected code:\n```%s\n%s\n```\n\nUser question: %s",
			entry.Name, entry.Language, entry.Language, opts.Selection, userText)
	}
	return fmt.Sprintf("File: %s (%s)\nCurrent code:\n```%s\n%s\n```\n\nUser question: %s",
		entry.Name, entry.Language, entry.Language, entry.Content, userText)
}

func (o *Orchestrator) publishStatus(status domain.AssistantStatus) {
	o.store.Events().Publish(domain.NewAssistantStatusEvent(o.store.WorkspaceId(), status))
}

func (o *Orchestrator) publishMessage(msg domain.ConversationMessage) {
	o.store.Events().Publish(domain.NewConversationMessageEvent(o.store.WorkspaceId(), msg))
}
