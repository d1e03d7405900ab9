package mentor

import (
	"context"
	"fmt"

	"github.com/mengmoon/mind-universe/internal/config"
)

// NewBackend builds the backend named by cfg. Provider "none" yields a nil
// backend, which Mentor treats as offline.
func NewBackend(ctx context.Context, cfg config.MentorConfig) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		b, err := NewOpenAIBackend(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.ProviderGemini:
		b, err := NewGeminiBackend(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown mentor provider %q", cfg.Provider)
	}
}
