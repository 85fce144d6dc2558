package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brattlof/featgen/internal/app/config"
	"github.com/brattlof/featgen/internal/app/server"
	"github.com/brattlof/featgen/internal/catalog"
	"github.com/brattlof/featgen/internal/scaffold"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generator over HTTP for workflow automation",
	Long: `Start an HTTP server that generates features on request:

  GET  /             HTML list of feature types
  GET  /health       Liveness probe
  GET  /api/types    Feature types as JSON
  POST /api/generate {"type":"api","name":"user","ticket_id":"PROJ-1"}

The config file, when one is in use, is watched and reloaded on change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := scaffold.New(scaffold.WithLogger(logger))
	srv := server.New(engine, cfg.Generate.OutputDir, logger,
		server.WithBasicAuth(cfg.Server.Auth.Users, cfg.Server.Auth.Realm))

	if configUsed != "" {
		watcher, err := config.NewWatcher(configUsed, logger, func(next *config.Config) {
			srv.SetOutputRoot(next.Generate.OutputDir)
			logLevel.Set(next.LogLevel())
		})
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("Config watcher failed", "error", err)
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting featgen server",
			"addr", cfg.Addr(),
			"version", version,
			"outputDir", cfg.Generate.OutputDir,
			"types", len(catalog.Types()),
			"auth", len(cfg.Server.Auth.Users) > 0,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
}
