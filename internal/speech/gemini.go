// ABOUTME: Gemini text-to-speech provider
// ABOUTME: Requests AUDIO modality output and unpacks the inline L16 PCM part
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mengmoon/mind-universe/pkg/audio"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models the providers use
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider synthesizes speech with a Gemini TTS model
type GeminiProvider struct {
	models contentGenerator
	model  string
	voice  string
}

// NewGeminiProvider creates a provider backed by the Gemini API
func NewGeminiProvider(ctx context.Context, apiKey, model, voice string) (*GeminiProvider, error) {
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
	return &GeminiProvider{models: client.Models, model: model, voice: voice}, nil
}

// Name identifies the provider in logs and cache keys
func (p *GeminiProvider) Name() string {
	return "gemini/" + p.model + "/" + p.voice
}

// Synthesize returns mono 16-bit PCM at the rate the response advertises
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) (Clip, error) {
	if strings.TrimSpace(text) == "" {
		return Clip{}, ErrEmptyText
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.voice},
			},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	resp, err := p.models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return Clip{}, fmt.Errorf("gemini tts request failed: %w", err)
	}

	pcm, mimeType, err := inlineAudio(resp)
	if err != nil {
		return Clip{}, err
	}

	return Clip{
		PCM:           pcm,
		SampleRate:    RateFromMIME(mimeType, audio.SpeechSampleRate),
		Channels:      1,
		BitsPerSample: 16,
	}, nil
}

// minTextPCMBytes is 10ms of 16-bit mono audio at the speech rate. Shorter
// base64-looking text is treated as prose.
const minTextPCMBytes = audio.SpeechSampleRate / 100 * 2

// inlineAudio concatenates the audio parts of the first candidate
func inlineAudio(resp *genai.GenerateContentResponse) ([]byte, string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", errors.New("gemini tts returned no candidates")
	}

	var (
		pcm      []byte
		mimeType string
		texts    []string
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		switch {
		case part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "audio/"):
			if mimeType == "" {
				mimeType = part.InlineData.MIMEType
			}
			pcm = append(pcm, part.InlineData.Data...)
		case part.Text != "":
			texts = append(texts, part.Text)
		}
	}
	if len(pcm) == 0 && len(texts) == 1 {
		// Some proxies return the audio as base64 text
		if data, err := DecodeBase64PCM(texts[0]); err == nil && len(data) >= minTextPCMBytes && len(data)%2 == 0 {
			pcm = data
		}
	}
	if len(pcm) == 0 {
		return nil, "", errors.New("gemini tts returned no audio data")
	}
	return pcm, mimeType, nil
}
