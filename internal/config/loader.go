package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MINDVERSE_"

const maxConfigFileSize = 1024 * 1024

// Load reads the optional .env file, the optional YAML file at configPath and
// the MINDVERSE_* environment, then applies defaults and validates.
//
// Environment variables split on the first underscore after the prefix:
//
//	MINDVERSE_SERVER_PORT        -> server.port
//	MINDVERSE_SPEECH_SAMPLE_RATE -> speech.sample_rate
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(configPath)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyAPIKeyFallbacks(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envKey maps MINDVERSE_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// applyAPIKeyFallbacks picks up the vendor variables the provider SDKs
// document when no key was configured explicitly.
func applyAPIKeyFallbacks(cfg *Config) {
	lookup := func(provider string) string {
		switch provider {
		case ProviderOpenAI:
			return os.Getenv("OPENAI_API_KEY")
		case ProviderGemini:
			if v := os.Getenv("GEMINI_API_KEY"); v != "" {
				return v
			}
			return os.Getenv("GOOGLE_API_KEY")
		}
		return ""
	}

	provider := cfg.Mentor.Provider
	if provider == "" {
		provider = ProviderGemini
	}
	if cfg.Mentor.APIKey == "" {
		cfg.Mentor.APIKey = lookup(provider)
	}

	speechProvider := cfg.Speech.Provider
	if speechProvider == "" {
		speechProvider = provider
	}
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = lookup(speechProvider)
	}
}
