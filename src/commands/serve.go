package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/seed"
	"github.com/codebros/codebros-backend/src/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		logger := log.WithComponent("server")

		ctx := context.Background()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close store")
			}
		}()

		if cfg.Seed.OnStart && cfg.Server.IsDevelopment() {
			data, err := seed.SampleData()
			if err != nil {
				return err
			}
			if _, err := seed.Load(ctx, store, data); err != nil {
				return err
			}
		}

		app := server.New(cfg, store)

		errCh := make(chan error, 1)
		go func() {
			logger.Info().
				Str("addr", cfg.Server.Addr()).
				Str("store", cfg.Store.Driver).
				Str("env", cfg.Server.Environment).
				Msg("Server is running")
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		}

		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
			return err
		}
		logger.Info().Msg("Server stopped")
		return nil
	},
}
