package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"codestudio/domain"
)

// OpenAIProvider talks to any OpenAI-compatible chat-completions endpoint
// (OpenRouter by default).
type OpenAIProvider struct {
	client openai.Client
}

func NewOpenAIProvider(baseURL, apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	clientOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(baseURL))
	}
	clientOptions = append(clientOptions, opts...)
	return &OpenAIProvider{client: openai.NewClient(clientOptions...)}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case domain.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       shared.ChatModel(req.Model),
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapTransportError(err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response generated: %w", domain.ErrProtocol)
	}
	return completion.Choices[0].Message.Content, nil
}

// wrapTransportError surfaces the backend's structured error message verbatim
// when present, falling back to a generic HTTP status line.
func wrapTransportError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("%s: %w", apiErr.Message, domain.ErrTransport)
		}
		return fmt.Errorf("HTTP %d: %w", apiErr.StatusCode, domain.ErrTransport)
	}
	return fmt.Errorf("%v: %w", err, domain.ErrTransport)
}

var _ Provider = (*OpenAIProvider)(nil)
