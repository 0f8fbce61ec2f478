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
	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/photosearch/internal/transport/chi"
	"github.com/kailas-cloud/photosearch/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search API server",
	Long: `Start the HTTP API: POST /api/v1/search, GET /healthz and GET /metrics.
The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides http.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		a.cfg.HTTP.Port = port
	}

	a.logger.Info("Starting photosearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", a.cfg.HTTP.Port),
		zap.String("db_driver", a.cfg.Database.Driver),
		zap.String("neighbors_driver", a.cfg.Neighbors.Driver),
		zap.Bool("facet_cache", a.cfg.Facets.CacheEnabled),
	)

	if a.cfg.Database.AutoMigrate {
		applied, err := a.migrate(ctx)
		if err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		a.logger.Info("Migrations applied", zap.Strings("versions", applied))
	}

	// Register metrics explicitly (no init())
	metrics.Register()

	server := chiTransport.NewServer(a.searcher(), a.health(), a.limits(), a.logger)
	handler := chiTransport.NewRouter(server, a.cfg.Auth.APIKeys, a.logger)

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}

	a.logger.Info("Server stopped gracefully")
	return nil
}
