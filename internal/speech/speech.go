// ABOUTME: Speech synthesis types shared by the TTS providers
// ABOUTME: Defines Clip, the Provider interface and PCM payload helpers
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mengmoon/mind-universe/pkg/audio"
)

// ErrEmptyText is returned when asked to synthesize blank text
var ErrEmptyText = errors.New("text to synthesize is empty")

// Clip is decoded little-endian PCM with its format
type Clip struct {
	PCM           []byte
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Format returns the clip's format as a PCM audio.Format
func (c Clip) Format() audio.Format {
	return audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		BitDepth:   c.BitsPerSample,
	}
}

// Provider turns text into a speech clip
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) (Clip, error)
}

// DecodeBase64PCM decodes a base64 audio payload as delivered by JSON APIs
func DecodeBase64PCM(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some APIs drop the padding
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("invalid base64 audio payload: %w", err)
	}
	return data, nil
}

// RateFromMIME extracts the rate parameter from a MIME type such as
// "audio/L16;codec=pcm;rate=24000". It returns fallback when absent or invalid.
func RateFromMIME(mimeType string, fallback int) int {
	for _, param := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rate") {
			continue
		}
		rate, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || rate <= 0 {
			return fallback
		}
		return rate
	}
	return fallback
}
