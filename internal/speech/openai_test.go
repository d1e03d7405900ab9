package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpeechServer(t *testing.T, status int, body []byte, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "audio/pcm")
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAIConfig(srv *httptest.Server) openai.ClientConfig {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return cfg
}

func TestOpenAIProvider_PCM(t *testing.T) {
	var seen map[string]any
	srv := newSpeechServer(t, http.StatusOK, []byte{1, 0, 2, 0}, &seen)

	p, err := NewOpenAIProviderWithConfig(openAIConfig(srv), "tts-1", "alloy", "pcm")
	require.NoError(t, err)

	clip, err := p.Synthesize(context.Background(), "You are doing well.")
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 0, 2, 0}, clip.PCM)
	assert.Equal(t, 24000, clip.SampleRate)
	assert.Equal(t, 1, clip.Channels)
	assert.Equal(t, 16, clip.BitsPerSample)

	assert.Equal(t, "tts-1", seen["model"])
	assert.Equal(t, "alloy", seen["voice"])
	assert.Equal(t, "pcm", seen["response_format"])
	assert.Equal(t, "You are doing well.", seen["input"])
}

func TestOpenAIProvider_DefaultsToPCM(t *testing.T) {
	srv := newSpeechServer(t, http.StatusOK, []byte{0, 0}, nil)
	p, err := NewOpenAIProviderWithConfig(openAIConfig(srv), "tts-1", "alloy", "")
	require.NoError(t, err)
	assert.Equal(t, "openai/tts-1/alloy/pcm", p.Name())
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := newSpeechServer(t, http.StatusInternalServerError, []byte(`{"error":{"message":"down"}}`), nil)
		p, err := NewOpenAIProviderWithConfig(openAIConfig(srv), "tts-1", "alloy", "pcm")
		require.NoError(t, err)
		_, err = p.Synthesize(context.Background(), "hello")
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		srv := newSpeechServer(t, http.StatusOK, nil, nil)
		p, err := NewOpenAIProviderWithConfig(openAIConfig(srv), "tts-1", "alloy", "pcm")
		require.NoError(t, err)
		_, err = p.Synthesize(context.Background(), "hello")
		assert.Error(t, err)
	})

	t.Run("empty text", func(t *testing.T) {
		srv := newSpeechServer(t, http.StatusOK, []byte{0, 0}, nil)
		p, err := NewOpenAIProviderWithConfig(openAIConfig(srv), "tts-1", "alloy", "pcm")
		require.NoError(t, err)
		_, err = p.Synthesize(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := NewOpenAIProviderWithConfig(openai.DefaultConfig("k"), "tts-1", "alloy", "flac")
		assert.Error(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenAIProvider("", "tts-1", "alloy", "pcm")
		assert.Error(t, err)
	})
}
