package observability

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/epea-data-etl/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RowsRead.Add(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(a.RowsRead))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsRead))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Campaigns.WithLabelValues("with_data").Set(7)
	m.Campaigns.WithLabelValues("empty").Set(5)

	path := filepath.Join(t.TempDir(), "epea_etl.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `epea_etl_campaigns{state="with_data"} 7`)
	assert.Contains(t, string(data), `epea_etl_campaigns{state="empty"} 5`)
}

func TestMetrics_WriteTextfile_BadDir(t *testing.T) {
	err := NewMetrics().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics textfile")
}

func TestNewLogger_Level(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level    string
		enabled  slog.Level
		disabled slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"INFO", slog.LevelInfo, slog.LevelDebug},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "text"})
			require.NotNil(t, logger)
			assert.True(t, logger.Enabled(context.Background(), tt.enabled))
			assert.False(t, logger.Enabled(context.Background(), tt.disabled))
			assert.Same(t, logger, slog.Default())
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, isJSON := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"}).Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	_, isText := NewLogger(&config.Config{LogLevel: "info", LogFormat: "text"}).Handler().(*slog.TextHandler)
	assert.True(t, isText)
}
