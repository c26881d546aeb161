// Package parquetfile writes the published customer rows as a Parquet file,
// the columnar artifact consumed by the DuckDB load and by any external
// analytical tooling. Column names come from the parquet struct tags on
// schema.SecureCustomer, so the three artifacts always agree.
package parquetfile

import (
	"context"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"maskpipe/internal/schema"
)

// Writer is a storage.Sink that writes one Parquet artifact per call.
type Writer struct{ path string }

// NewWriter returns a Writer targeting path. The file is created or
// truncated on Write.
func NewWriter(path string) *Writer { return &Writer{path: path} }

// Write materializes the rows at the configured path with snappy
// compression. An empty row set produces a valid zero-row file carrying the
// full schema.
func (w *Writer) Write(ctx context.Context, rows []schema.SecureCustomer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("parquet: create %s: %w", w.path, err)
	}

	pw := parquet.NewGenericWriter[schema.SecureCustomer](f, parquet.Compression(&parquet.Snappy))
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			pw.Close()
			f.Close()
			return fmt.Errorf("parquet: write rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("parquet: close writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("parquet: close %s: %w", w.path, err)
	}
	return nil
}

// ReadAll loads every row from a Parquet artifact. Used by tests and by the
// verification dump; production reads go through DuckDB's read_parquet.
func ReadAll(path string) ([]schema.SecureCustomer, error) {
	rows, err := parquet.ReadFile[schema.SecureCustomer](path)
	if err != nil {
		return nil, fmt.Errorf("parquet: read %s: %w", path, err)
	}
	return rows, nil
}
