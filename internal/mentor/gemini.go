package mentor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models the backend uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend completes conversations with Gemini.
type GeminiBackend struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGeminiBackend creates a backend for model.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiBackend{models: client.Models, model: model, temperature: DefaultTemperature}, nil
}

// Name identifies the backend in logs.
func (b *GeminiBackend) Name() string {
	return "gemini/" + b.model
}

// Complete sends the turns with system as the system instruction.
func (b *GeminiBackend) Complete(ctx context.Context, system string, history []Turn) (string, error) {
	contents := mergeTurns(history)
	if len(contents) == 0 {
		return "", errors.New("no contents")
	}

	temperature := b.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(system)}},
		Temperature:       &temperature,
	}

	resp, err := b.models.GenerateContent(ctx, b.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// mergeTurns converts turns to contents, merging consecutive turns with the
// same role since Gemini expects alternating roles.
func mergeTurns(history []Turn) []*genai.Content {
	var (
		contents []*genai.Content
		last     *genai.Content
	)
	for _, t := range history {
		role := genai.RoleUser
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		part := genai.NewPartFromText(t.Text)
		if last != nil && last.Role == string(role) {
			last.Parts = append(last.Parts, part)
			continue
		}
		last = &genai.Content{Role: string(role), Parts: []*genai.Part{part}}
		contents = append(contents, last)
	}
	return contents
}
