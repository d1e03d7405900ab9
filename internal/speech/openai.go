// ABOUTME: OpenAI text-to-speech provider
// ABOUTME: Uses the audio/speech endpoint with raw PCM or MP3 responses
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mengmoon/mind-universe/pkg/audio"
	"github.com/mengmoon/mind-universe/pkg/audio/decode"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider synthesizes speech with an OpenAI TTS model
type OpenAIProvider struct {
	client *openai.Client
	model  string
	voice  string
	format string
}

// NewOpenAIProvider creates a provider. format is "pcm" (24 kHz mono s16le)
// or "mp3".
func NewOpenAIProvider(apiKey, model, voice, format string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return NewOpenAIProviderWithConfig(openai.DefaultConfig(apiKey), model, voice, format)
}

// NewOpenAIProviderWithConfig creates a provider from a client config, which
// lets callers point at a compatible endpoint
func NewOpenAIProviderWithConfig(cfg openai.ClientConfig, model, voice, format string) (*OpenAIProvider, error) {
	switch format {
	case "", audio.CodecPCM:
		format = audio.CodecPCM
	case audio.CodecMP3:
	default:
		return nil, fmt.Errorf("unsupported openai speech format: %s", format)
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		voice:  voice,
		format: format,
	}, nil
}

// Name identifies the provider in logs and cache keys
func (p *OpenAIProvider) Name() string {
	return "openai/" + p.model + "/" + p.voice + "/" + p.format
}

// Synthesize requests speech and decodes it to PCM
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) (Clip, error) {
	if strings.TrimSpace(text) == "" {
		return Clip{}, ErrEmptyText
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model),
		Input:          text,
		Voice:          openai.SpeechVoice(p.voice),
		ResponseFormat: openai.SpeechResponseFormat(p.format),
	})
	if err != nil {
		return Clip{}, fmt.Errorf("openai tts request failed: %w", err)
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to read openai tts response: %w", err)
	}
	if len(body) == 0 {
		return Clip{}, errors.New("openai tts returned no audio data")
	}

	if p.format == audio.CodecMP3 {
		pcm, format, err := decode.DecodeMP3(body)
		if err != nil {
			return Clip{}, err
		}
		return Clip{
			PCM:           pcm,
			SampleRate:    format.SampleRate,
			Channels:      format.Channels,
			BitsPerSample: format.BitDepth,
		}, nil
	}

	return Clip{
		PCM:           body,
		SampleRate:    audio.SpeechSampleRate,
		Channels:      1,
		BitsPerSample: 16,
	}, nil
}
