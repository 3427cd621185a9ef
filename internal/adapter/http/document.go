package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/couchcryptid/epea-data-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/epea-data-etl/internal/observability"
)

// DocumentCache holds the last valid copy of the campaign document in memory.
// A failed reload keeps serving the previous copy.
type DocumentCache struct {
	path    string
	metrics *observability.Metrics
	logger  *slog.Logger

	mu      sync.RWMutex
	data    []byte
	modTime time.Time
}

// NewDocumentCache creates an empty cache for the document at path.
func NewDocumentCache(path string, metrics *observability.Metrics, logger *slog.Logger) *DocumentCache {
	return &DocumentCache{path: path, metrics: metrics, logger: logger}
}

// Reload reads and validates the document from disk.
func (c *DocumentCache) Reload() error {
	if err := c.reload(); err != nil {
		c.metrics.DocumentReloads.WithLabelValues("error").Inc()
		c.logger.Warn("document reload failed, keeping previous copy", "path", c.path, "error", err)
		return err
	}
	c.metrics.DocumentReloads.WithLabelValues("success").Inc()
	return nil
}

func (c *DocumentCache) reload() error {
	data, modTime, err := readFile(c.path)
	if err != nil {
		return err
	}
	doc, err := jsonfile.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}

	c.mu.Lock()
	c.data = data
	c.modTime = modTime
	c.mu.Unlock()

	c.metrics.DocumentBytes.Set(float64(len(data)))
	c.logger.Info("document loaded", "path", c.path, "bytes", len(data),
		"campaigns", len(doc.Campaigns), "last_updated", doc.Metadata.LastUpdated)
	return nil
}

// readFile returns the contents and modification time of a single open
// handle, so a concurrent rename cannot mix two versions.
func readFile(path string) ([]byte, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

// CheckReadiness returns nil once a document has been loaded.
func (c *DocumentCache) CheckReadiness(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return errors.New("no campaign document loaded yet")
	}
	return nil
}

// ServeHTTP writes the cached document, honoring conditional requests.
func (c *DocumentCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	data, modTime := c.data, c.modTime
	c.mu.RUnlock()

	if data == nil {
		http.Error(w, "campaign document not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, filepath.Base(c.path), modTime, bytes.NewReader(data))
}
