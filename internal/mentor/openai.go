package mentor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// DefaultTemperature is the sampling temperature for mentor replies.
const DefaultTemperature = 0.7

// OpenAIBackend completes conversations with the chat completions API.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIBackend creates a backend for model.
func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return NewOpenAIBackendWithConfig(openai.DefaultConfig(apiKey), model), nil
}

// NewOpenAIBackendWithConfig creates a backend from a client config.
func NewOpenAIBackendWithConfig(cfg openai.ClientConfig, model string) *OpenAIBackend {
	return &OpenAIBackend{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: DefaultTemperature,
	}
}

// Name identifies the backend in logs.
func (b *OpenAIBackend) Name() string {
	return "openai/" + b.model
}

// Complete sends the system prompt and turns and returns the first choice.
func (b *OpenAIBackend) Complete(ctx context.Context, system string, history []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: b.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
