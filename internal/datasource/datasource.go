// Package datasource abstracts where the input customer document comes from.
// The pipeline depends only on Source so the parser can be tested against
// in-memory readers and the input location can change without touching the
// transform logic.
package datasource

import (
	"context"
	"io"
)

// Source produces a readable stream for one pipeline run.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
