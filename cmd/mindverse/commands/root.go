package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mengmoon/mind-universe/internal/config"
	"github.com/mengmoon/mind-universe/internal/logging"
	"github.com/mengmoon/mind-universe/internal/mentor"
	"github.com/mengmoon/mind-universe/internal/speech"
	"github.com/mengmoon/mind-universe/internal/version"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "mindverse",
	Short:         "Mind Universe journaling and mentor service",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Mind Universe is a journaling companion with an AI mentor.

Configuration is read from an optional YAML file (--config), a .env file in
the working directory and MINDVERSE_* environment variables, in increasing
order of precedence. For example:

  MINDVERSE_SERVER_PORT=9000
  MINDVERSE_MENTOR_PROVIDER=openai
  OPENAI_API_KEY=sk-...`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig loads configuration and applies the persistent flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Log.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newMentor builds the mentor from config. A "none" provider yields a mentor
// that only scores locally.
func newMentor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*mentor.Mentor, error) {
	backend, err := mentor.NewBackend(ctx, cfg.Mentor)
	if err != nil {
		return nil, fmt.Errorf("failed to create mentor backend: %w", err)
	}
	if backend == nil {
		logger.Warn("no mentor backend configured, chat and analysis are disabled")
		return mentor.New(nil, nil, logger), nil
	}
	logger.Info("mentor backend ready", zap.String("backend", backend.Name()))
	return mentor.New(backend, nil, logger), nil
}

// newSpeech builds the speech pipeline, or returns nil when speech is disabled
func newSpeech(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*speech.Pipeline, error) {
	provider, err := speech.NewProvider(ctx, cfg.Speech)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech provider: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	cache, err := speech.NewCache(cfg.Speech.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech cache: %w", err)
	}

	logger.Info("speech provider ready",
		zap.String("provider", provider.Name()),
		zap.String("cache_dir", cache.Dir()))
	return speech.NewPipeline(provider, speech.PipelineConfig{
		SampleRate: cfg.Speech.SampleRate,
		Cache:      cache,
		Logger:     logger,
	}), nil
}
