// Command etl rebuilds the EPEA campaign document from the visit table.
// It takes no arguments: paths come from the environment and default to
// files next to the executable.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/epea-data-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/epea-data-etl/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/epea-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/epea-data-etl/internal/config"
	"github.com/couchcryptid/epea-data-etl/internal/observability"
	"github.com/couchcryptid/epea-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, logger, metrics)
	stop()

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile", "error", err)
		}
	}
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) int {
	reader := csvfile.NewReader(cfg.InputPath, cfg.CSVDelimiter, logger)
	store := jsonfile.NewStore(cfg.OutputPath, logger)

	var publisher pipeline.CampaignPublisher
	if cfg.FeedEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("campaign feed enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaCampaignTopic)
	}

	p := pipeline.New(reader, store, publisher, logger, metrics)

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("conversion failed", "input", cfg.InputPath, "output", cfg.OutputPath, "error", err)
		return 1
	}

	logger.Info("campaigns written",
		"path", cfg.OutputPath,
		"years", summary.Years.String(),
		"total", summary.Coverage.Total,
		"with_data", summary.Coverage.WithData,
		"without_data", summary.Coverage.WithoutData,
		"rows", summary.Rows,
		"visits", summary.Visits,
		"last_updated", summary.LastUpdated,
	)
	return 0
}
