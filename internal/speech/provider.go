// ABOUTME: Provider construction from configuration
// ABOUTME: Maps the speech config section onto the Gemini or OpenAI provider
package speech

import (
	"context"
	"fmt"

	"github.com/mengmoon/mind-universe/internal/config"
)

// NewProvider builds the provider named by cfg. Provider "none" yields nil.
func NewProvider(ctx context.Context, cfg config.SpeechConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		p, err := NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Voice, cfg.Format)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Voice)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown speech provider %q", cfg.Provider)
	}
}
