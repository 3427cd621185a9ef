// Command serve publishes the campaign document over HTTP and reloads it
// whenever the converter replaces the file.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/epea-data-etl/internal/adapter/filewatch"
	httpadapter "github.com/couchcryptid/epea-data-etl/internal/adapter/http"
	"github.com/couchcryptid/epea-data-etl/internal/config"
	"github.com/couchcryptid/epea-data-etl/internal/observability"
)

const reloadDebounce = 250 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	cache := httpadapter.NewDocumentCache(cfg.OutputPath, metrics, logger)
	if err := cache.Reload(); err != nil {
		logger.Warn("starting without a document", "path", cfg.OutputPath)
	}

	watcher, err := filewatch.NewWatcher(cfg.OutputPath, reloadDebounce, func() { _ = cache.Reload() }, logger)
	if err != nil {
		logger.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, cache, metrics.Registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		logger.Error("failed to watch document", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	watcher.Stop()

	logger.Info("shutdown complete")
}
