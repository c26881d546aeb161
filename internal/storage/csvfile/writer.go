// Package csvfile writes the published customer rows as a comma-delimited
// file with a header row, columns in schema order. This is the human-facing
// artifact; like every published output it carries Email_Masked only.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"maskpipe/internal/schema"
)

// Writer is a storage.Sink that writes one CSV artifact per call.
type Writer struct{ path string }

// NewWriter returns a Writer targeting path. The file is created or
// truncated on Write.
func NewWriter(path string) *Writer { return &Writer{path: path} }

// Write materializes the rows at the configured path. An empty row set still
// produces the header, so downstream consumers always see the column
// contract.
func (w *Writer) Write(ctx context.Context, rows []schema.SecureCustomer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", w.path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(schema.Columns()); err != nil {
		f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			f.Close()
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv: close %s: %w", w.path, err)
	}
	return nil
}
