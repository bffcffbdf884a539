package assist

import (
	"context"

	"codestudio/domain"
)

// Request is one chat completion request. Streaming is never used; the
// orchestrator awaits the full response.
type Request struct {
	Model       string
	Messages    []domain.ConversationMessage
	MaxTokens   int
	Temperature float64
}

// Provider issues a single blocking completion request. Implementations
// return domain.ErrTransport for network/HTTP failures and domain.ErrProtocol
// for malformed or empty responses.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
