package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mengmoon/mind-universe/internal/server"
	"github.com/mengmoon/mind-universe/internal/store"
	"github.com/mengmoon/mind-universe/internal/version"
)

const shutdownTimeout = 10 * time.Second

var (
	servePort   int
	serveNoMDNS bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	Long: `Run the Mind Universe API.

Journals, chats and goals are stored in SQLite (store.path). The mentor and
speech providers come from the mentor and speech config sections; with
provider "none" the corresponding endpoints answer 503.

Example:
  mindverse serve --port 8927`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if serveNoMDNS {
			cfg.Server.MDNS = false
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("store opened", zap.String("path", st.Path()))

		m, err := newMentor(ctx, cfg, logger)
		if err != nil {
			return err
		}
		sp, err := newSpeech(ctx, cfg, logger)
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			Name:           version.Product,
			EnableMDNS:     cfg.Server.MDNS,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, server.Deps{
			Store:  st,
			Mentor: m,
			Speech: sp,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveNoMDNS, "no-mdns", false, "disable mDNS advertisement")
}
