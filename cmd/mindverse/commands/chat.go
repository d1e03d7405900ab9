package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mengmoon/mind-universe/internal/client"
	"github.com/mengmoon/mind-universe/internal/discovery"
	"github.com/mengmoon/mind-universe/internal/logging"
	"github.com/mengmoon/mind-universe/internal/ui"
	"github.com/mengmoon/mind-universe/pkg/audio/output"
)

const discoverTimeout = 5 * time.Second

var (
	chatServer  string
	chatUser    string
	chatNoAudio bool
	chatLogFile string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the mentor in a terminal UI",
	Long: `Open a mentor chat session.

Without --server the first Mind Universe server advertised over mDNS is used.
Spoken replies are played on the default audio device unless --no-audio is
set; toggle them with ctrl+t inside the UI.

Example:
  mindverse chat --user alice --server localhost:8927`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatUser == "" {
			return fmt.Errorf("--user is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// The TUI owns the terminal, so logs go to a file
		f, err := os.OpenFile(chatLogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		defer f.Close()

		logger, err := logging.NewWithSink(cfg.Log, zapcore.AddSync(f))
		if err != nil {
			return err
		}
		defer logger.Sync()

		addr := chatServer
		if addr == "" {
			addr, err = discoverServer(cmd.Context(), logger)
			if err != nil {
				return err
			}
		}

		c := client.NewClient(client.Config{ServerAddr: addr, UserID: chatUser, Logger: logger})
		if err := c.Connect(); err != nil {
			return err
		}
		defer c.Close()

		var player ui.Player
		if !chatNoAudio {
			player = ui.NewOutputPlayer(output.NewOto(logger))
		}
		return ui.Run(c, player)
	},
}

func discoverServer(ctx context.Context, logger *zap.Logger) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, discoverTimeout)
	defer cancel()

	fmt.Fprintln(os.Stderr, "Looking for a Mind Universe server...")
	mgr := discovery.NewManager(discovery.Config{Logger: logger})
	info, err := mgr.Discover(ctx)
	if err != nil {
		return "", fmt.Errorf("%w; pass --server host:port", err)
	}
	logger.Info("discovered server", zap.String("name", info.Name), zap.String("addr", info.Addr()))
	return info.Addr(), nil
}

func init() {
	chatCmd.Flags().StringVarP(&chatServer, "server", "s", "", "server address host:port (default: mDNS discovery)")
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "user id")
	chatCmd.Flags().BoolVar(&chatNoAudio, "no-audio", false, "do not play spoken replies")
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "mindverse-chat.log", "log file path")
}
