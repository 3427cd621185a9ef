package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/epea-data-etl/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader loads the visit table from a delimited text file.
// It implements pipeline.RowSource.
type Reader struct {
	path      string
	delimiter rune
	logger    *slog.Logger
}

// NewReader creates a Reader for the table at path.
func NewReader(path string, delimiter rune, logger *slog.Logger) *Reader {
	return &Reader{path: path, delimiter: delimiter, logger: logger}
}

// ReadRows parses every data row of the table, in file order.
func (r *Reader) ReadRows(ctx context.Context) ([]domain.Row, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInputNotFound, err)
		}
		return nil, fmt.Errorf("open input table: %w", err)
	}
	defer f.Close()

	rows, err := Decode(ctx, f, r.delimiter)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Debug("input table read", "path", r.path, "rows", len(rows))
	return rows, nil
}

// Decode parses a header-led UTF-8 table. A leading byte order mark is
// consumed. Bytes that are not valid UTF-8 fail the decode with
// encoding.ErrInvalidUTF8 and the offending line.
func Decode(ctx context.Context, src io.Reader, delimiter rune) ([]domain.Row, error) {
	decoded := transform.NewReader(src, transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []domain.Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, encoding.ErrInvalidUTF8) && len(record) > 0 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("read record on line %d: %w", line, err)
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)

		row, err := domain.ParseRow(line, recordFields(header, record))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// recordFields keys a record by header name. Cells past the header are
// dropped; short records simply lack the trailing columns.
func recordFields(header, record []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(record) {
			fields[name] = record[i]
		}
	}
	return fields
}
