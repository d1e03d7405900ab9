package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mengmoon/mind-universe/pkg/audio/output"
)

var (
	speakOutput string
	speakPlay   bool
)

var speakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Synthesize text to a WAV file",
	Long: `Synthesize text with the configured speech provider.

The result is a WAV file (mono, 16-bit). Repeated requests for the same text
are served from the speech cache.

Example:
  mindverse speak "Take a slow breath." -o breath.wav
  mindverse speak "Welcome back." --play`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if speakOutput == "" && !speakPlay {
			return fmt.Errorf("nothing to do, use -o and/or --play")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
		defer cancel()

		pipeline, err := newSpeech(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if pipeline == nil {
			return fmt.Errorf("speech provider is %q, set speech.provider", cfg.Speech.Provider)
		}

		wav, err := pipeline.WAV(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		if speakOutput != "" {
			if err := os.WriteFile(speakOutput, wav, 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(wav), speakOutput)
		}
		if speakPlay {
			return output.PlayWAV(output.NewOto(logger), wav)
		}
		return nil
	},
}

func init() {
	speakCmd.Flags().StringVarP(&speakOutput, "output", "o", "", "output WAV path")
	speakCmd.Flags().BoolVar(&speakPlay, "play", false, "play the result on the default audio device")
}
