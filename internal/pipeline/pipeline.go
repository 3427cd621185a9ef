package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/epea-data-etl/internal/domain"
	"github.com/couchcryptid/epea-data-etl/internal/observability"
)

// RowSource reads every row of the visit table.
type RowSource interface {
	ReadRows(ctx context.Context) ([]domain.Row, error)
}

// DocumentStore reads the carried-over config and replaces the document.
type DocumentStore interface {
	LoadConfig(ctx context.Context) (json.RawMessage, error)
	Save(ctx context.Context, doc domain.Document) error
}

// CampaignPublisher forwards a written document's campaigns downstream.
type CampaignPublisher interface {
	PublishCampaigns(ctx context.Context, doc domain.Document) error
}

// Summary is the operator report of a successful run.
type Summary struct {
	Years       domain.YearRange
	Coverage    domain.Coverage
	Rows        int
	Visits      int
	LastUpdated string
}

// Pipeline runs one read-build-write pass.
type Pipeline struct {
	source    RowSource
	store     DocumentStore
	publisher CampaignPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Pass a nil publisher to skip the campaign feed.
func New(source RowSource, store DocumentStore, publisher CampaignPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    source,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run rebuilds the document from scratch. Every failure before the save
// leaves the existing document untouched.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	rows, err := p.source.ReadRows(ctx)
	if err != nil {
		return Summary{}, p.fail("extract", fmt.Errorf("read rows: %w", err))
	}
	p.metrics.RowsRead.Add(float64(len(rows)))

	build, err := Transform(rows)
	if err != nil {
		return Summary{}, p.fail("build", fmt.Errorf("build campaigns: %w", err))
	}
	p.metrics.VisitsGrouped.Add(float64(build.Visits))

	config, err := p.store.LoadConfig(ctx)
	if err != nil {
		return Summary{}, p.fail("config", fmt.Errorf("load config: %w", err))
	}

	doc := domain.NewDocument(build.Campaigns, build.Years, config)
	if err := p.store.Save(ctx, doc); err != nil {
		return Summary{}, p.fail("load", fmt.Errorf("save document: %w", err))
	}

	summary := Summary{
		Years:       build.Years,
		Coverage:    domain.CoverageOf(doc.Campaigns),
		Rows:        len(rows),
		Visits:      build.Visits,
		LastUpdated: doc.Metadata.LastUpdated,
	}
	p.metrics.Campaigns.WithLabelValues("with_data").Set(float64(summary.Coverage.WithData))
	p.metrics.Campaigns.WithLabelValues("empty").Set(float64(summary.Coverage.WithoutData))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastSuccess.SetToCurrentTime()

	if p.publisher != nil {
		if err := p.publisher.PublishCampaigns(ctx, doc); err != nil {
			return summary, p.fail("publish", fmt.Errorf("publish campaigns: %w", err))
		}
		p.metrics.CampaignsPushed.Add(float64(len(doc.Campaigns)))
	}

	return summary, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.RunFailures.WithLabelValues(stage).Inc()
	p.logger.Error("run failed", "stage", stage, "error", err)
	return err
}
