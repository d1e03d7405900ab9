package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8927, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8927", cfg.Server.Addr())
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "mindverse.db", cfg.Store.Path)
	assert.Equal(t, ProviderGemini, cfg.Mentor.Provider)
	assert.Equal(t, ProviderGemini, cfg.Speech.Provider)
	assert.Equal(t, "Kore", cfg.Speech.Voice)
	assert.Equal(t, "pcm", cfg.Speech.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	clearProviderKeys(t)

	cfg, err := load("")
	require.NoError(t, err)
	assert.Equal(t, 8927, cfg.Server.Port)
}

func TestLoad_YAML(t *testing.T) {
	clearProviderKeys(t)
	path := writeConfig(t, `
server:
  port: 9000
  mdns: true
  request_timeout: 15s
store:
  path: /tmp/mind.db
mentor:
  provider: openai
  api_key: sk-file
speech:
  format: mp3
  sample_rate: 16000
log:
  level: debug
  format: console
`)

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Server.MDNS)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "/tmp/mind.db", cfg.Store.Path)
	assert.Equal(t, ProviderOpenAI, cfg.Mentor.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Mentor.Model)
	assert.Equal(t, ProviderOpenAI, cfg.Speech.Provider, "speech follows mentor provider")
	assert.Equal(t, "alloy", cfg.Speech.Voice)
	assert.Equal(t, "sk-file", cfg.Speech.APIKey, "speech shares the mentor key")
	assert.Equal(t, "mp3", cfg.Speech.Format)
	assert.Equal(t, 16000, cfg.Speech.SampleRate)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearProviderKeys(t)
	path := writeConfig(t, "server:\n  port: 9000\nspeech:\n  voice: Puck\n")

	t.Setenv("MINDVERSE_SERVER_PORT", "9100")
	t.Setenv("MINDVERSE_SPEECH_SAMPLE_RATE", "48000")
	t.Setenv("MINDVERSE_SPEECH_CACHE_DIR", "/tmp/tts")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 48000, cfg.Speech.SampleRate)
	assert.Equal(t, "/tmp/tts", cfg.Speech.CacheDir)
	assert.Equal(t, "Puck", cfg.Speech.Voice)
}

func TestLoad_VendorKeyFallback(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := load("")
	require.NoError(t, err)
	assert.Equal(t, "gem-key", cfg.Mentor.APIKey)
	assert.Equal(t, "gem-key", cfg.Speech.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	clearProviderKeys(t)

	t.Run("bad provider", func(t *testing.T) {
		path := writeConfig(t, "mentor:\n  provider: claude\n")
		_, err := load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mentor.provider")
	})

	t.Run("bad port", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 70000\n")
		_, err := load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [port\n")
		_, err := load(path)
		assert.Error(t, err)
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"MINDVERSE_SERVER_PORT":            "server.port",
		"MINDVERSE_SPEECH_SAMPLE_RATE":     "speech.sample_rate",
		"MINDVERSE_SERVER_REQUEST_TIMEOUT": "server.request_timeout",
		"MINDVERSE_DEBUG":                  "debug",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestValidate_SpeechFormat(t *testing.T) {
	cfg := Default()
	cfg.Speech.Format = "ogg"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech.format")
}
