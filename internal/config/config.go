// Package config loads Mind Universe configuration.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (MINDVERSE_SERVER_PORT, MINDVERSE_SPEECH_VOICE, ...)
//  2. YAML config file passed with --config
//  3. Hardcoded defaults
//
// A .env file in the working directory is loaded into the environment first,
// without overriding variables that are already set.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mengmoon/mind-universe/internal/logging"
)

// Provider names accepted by the mentor and speech sections.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds the complete configuration.
type Config struct {
	Server ServerConfig   `koanf:"server"`
	Store  StoreConfig    `koanf:"store"`
	Mentor MentorConfig   `koanf:"mentor"`
	Speech SpeechConfig   `koanf:"speech"`
	Log    logging.Config `koanf:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	MDNS           bool          `koanf:"mdns"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig holds the SQLite database location.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// MentorConfig selects the chat model backend.
type MentorConfig struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
}

// SpeechConfig selects the text-to-speech backend and output format.
type SpeechConfig struct {
	Provider   string `koanf:"provider"`
	Model      string `koanf:"model"`
	Voice      string `koanf:"voice"`
	APIKey     string `koanf:"api_key"`
	Format     string `koanf:"format"` // openai response format: pcm or mp3
	SampleRate int    `koanf:"sample_rate"`
	CacheDir   string `koanf:"cache_dir"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8927
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "mindverse.db"
	}

	if cfg.Mentor.Provider == "" {
		cfg.Mentor.Provider = ProviderGemini
	}
	if cfg.Mentor.Model == "" {
		switch cfg.Mentor.Provider {
		case ProviderOpenAI:
			cfg.Mentor.Model = "gpt-4o-mini"
		case ProviderGemini:
			cfg.Mentor.Model = "gemini-2.5-flash"
		}
	}

	if cfg.Speech.Provider == "" {
		cfg.Speech.Provider = cfg.Mentor.Provider
	}
	if cfg.Speech.Model == "" {
		switch cfg.Speech.Provider {
		case ProviderOpenAI:
			cfg.Speech.Model = "gpt-4o-mini-tts"
		case ProviderGemini:
			cfg.Speech.Model = "gemini-2.5-flash-preview-tts"
		}
	}
	if cfg.Speech.Voice == "" {
		switch cfg.Speech.Provider {
		case ProviderOpenAI:
			cfg.Speech.Voice = "alloy"
		case ProviderGemini:
			cfg.Speech.Voice = "Kore"
		}
	}
	if cfg.Speech.Format == "" {
		cfg.Speech.Format = "pcm"
	}
	if cfg.Speech.APIKey == "" && cfg.Speech.Provider == cfg.Mentor.Provider {
		cfg.Speech.APIKey = cfg.Mentor.APIKey
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.request_timeout must not be negative"))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if err := validateProvider("mentor.provider", c.Mentor.Provider); err != nil {
		errs = append(errs, err)
	}
	if err := validateProvider("speech.provider", c.Speech.Provider); err != nil {
		errs = append(errs, err)
	}
	switch c.Speech.Format {
	case "pcm", "mp3":
	default:
		errs = append(errs, fmt.Errorf("speech.format %q not supported (want pcm or mp3)", c.Speech.Format))
	}
	if c.Speech.SampleRate < 0 {
		errs = append(errs, errors.New("speech.sample_rate must not be negative"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateProvider(field, name string) error {
	switch name {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
		return nil
	default:
		return fmt.Errorf("%s %q unknown (want openai, gemini or none)", field, name)
	}
}
