package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "epea_etl"

// Metrics holds the Prometheus collectors for conversion runs and the
// document server.
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead        prometheus.Counter
	VisitsGrouped   prometheus.Counter
	Campaigns       *prometheus.GaugeVec // labels: state={with_data,empty}
	RunDuration     prometheus.Histogram
	RunFailures     *prometheus.CounterVec // labels: stage={extract,config,build,load,publish}
	LastSuccess     prometheus.Gauge
	CampaignsPushed prometheus.Counter

	DocumentReloads *prometheus.CounterVec // labels: outcome={success,error}
	DocumentBytes   prometheus.Gauge
}

// NewMetrics creates all metrics and registers them with a dedicated
// registry, so a process can expose or dump exactly this set.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data rows read from the visit table.",
		}),
		VisitsGrouped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_grouped_total",
			Help:      "Ship visits assigned to a campaign slot.",
		}),
		Campaigns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "campaigns",
			Help:      "Campaigns in the last written document by data state.",
		}, []string{"state"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete read-build-write run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Failed runs by pipeline stage.",
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		CampaignsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaigns_published_total",
			Help:      "Campaigns published to the campaign feed.",
		}),
		DocumentReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_reloads_total",
			Help:      "Document cache reloads by outcome.",
		}, []string{"outcome"}),
		DocumentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "document_bytes",
			Help:      "Size of the currently served document.",
		}),
	}

	m.Registry.MustRegister(
		m.RowsRead,
		m.VisitsGrouped,
		m.Campaigns,
		m.RunDuration,
		m.RunFailures,
		m.LastSuccess,
		m.CampaignsPushed,
		m.DocumentReloads,
		m.DocumentBytes,
	)

	return m
}

// WriteTextfile dumps the registry in the text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
