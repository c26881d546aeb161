// Package storage defines the narrow sink contract shared by every artifact
// writer (CSV, Parquet, DuckDB load) plus the staged-commit helper that makes
// the published CSV/Parquet artifacts appear atomically.
//
// Each sink is independently testable against a temp directory; nothing in
// the transform logic knows which storage engines exist.
package storage

import (
	"context"

	"maskpipe/internal/schema"
)

// Sink persists the published rows of one run to a single artifact.
type Sink interface {
	Write(ctx context.Context, rows []schema.SecureCustomer) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, rows []schema.SecureCustomer) error

func (f SinkFunc) Write(ctx context.Context, rows []schema.SecureCustomer) error {
	return f(ctx, rows)
}
