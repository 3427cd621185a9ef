package jsonfile

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/epea-data-etl/internal/domain"
)

const configKey = "config"

// Store reads and replaces the published campaign document.
// It implements pipeline.DocumentStore.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a Store for the document at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// LoadConfig returns the "config" value of the current document, unparsed.
// A null config is returned as is; only a missing key is an error.
func (s *Store) LoadConfig(_ context.Context) (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOutputMissingOrInvalid, err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrOutputMissingOrInvalid, s.path, err)
	}
	config, ok := top[configKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q key", domain.ErrOutputMissingOrInvalid, s.path, configKey)
	}
	return config, nil
}

// Save replaces the document. The new content is written to a temporary
// file in the same directory and renamed over the old one.
func (s *Store) Save(_ context.Context, doc domain.Document) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	w := bufio.NewWriter(tmp)
	if err := doc.Encode(w); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Chmod(tmpPath, s.fileMode()); err != nil {
		return fmt.Errorf("chmod temp document: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}

	s.logger.Debug("document saved", "path", s.path, "campaigns", len(doc.Campaigns))
	return nil
}

// fileMode keeps the permissions of the document being replaced.
func (s *Store) fileMode() fs.FileMode {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

// LoadDocument reads and decodes a published document.
func LoadDocument(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return domain.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// DecodeDocument parses document bytes. The config key must be present.
func DecodeDocument(data []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, err
	}
	if doc.Config == nil {
		return domain.Document{}, errors.New("document has no config")
	}
	return doc, nil
}
