package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/wajir-county/ict-helpdesk/internal/api/http"
	"github.com/wajir-county/ict-helpdesk/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}
	defer app.close()

	if err := app.settings.EnsureDefaults(ctx); err != nil {
		logger.Warn("could not store default settings", zap.Error(err))
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        observability.NewMetrics(),
		Postgres:       app.postgres,
		Redis:          app.redis,
		Auth:           app.auth,
		Tickets:        app.tickets,
		Users:          app.users,
		Settings:       app.settings,
		Dashboard:      app.dashboard,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		errCh <- server.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
	}
	return server.ShutdownWithTimeout(10 * time.Second)
}
