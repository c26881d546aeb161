// Package etl orchestrates the single sequential pass of the masking
// pipeline: open the input document, flatten it into customer records, derive
// the masked email column, and persist the published rows to CSV, Parquet,
// and the DuckDB store.
//
// Every step is strictly sequential and every failure is terminal for the
// run. The CSV and Parquet artifacts are written to staged paths and renamed
// into place only after all writes succeed, so a mid-run failure never leaves
// a half-written published file behind. The DuckDB table is created if absent
// and never dropped.
package etl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"maskpipe/internal/config"
	"maskpipe/internal/datasource"
	"maskpipe/internal/datasource/file"
	"maskpipe/internal/metrics"
	"maskpipe/internal/parser/customer"
	"maskpipe/internal/schema"
	"maskpipe/internal/storage"
	"maskpipe/internal/storage/csvfile"
	"maskpipe/internal/storage/duckdb"
	"maskpipe/internal/storage/parquetfile"
	"maskpipe/internal/transformer"
	"maskpipe/internal/transformer/builtin"
)

// previewRows caps how many published rows the run log echoes back for
// eyeball verification.
const previewRows = 5

// Artifact describes one committed output file.
type Artifact struct {
	// Kind is "csv", "parquet", or "duckdb".
	Kind string

	// Path is the final (published) location.
	Path string

	// Digest is the xxh3-128 content digest of the artifact, hex encoded.
	// Empty for the DuckDB file, which is mutated in place by the engine.
	Digest string
}

// Summary reports what a successful run produced.
type Summary struct {
	Job         string
	CompanyID   int64
	CompanyName string
	Rows        int
	Artifacts   []Artifact
	Duration    time.Duration
}

// Run executes the full pipeline described by cfg. It returns a Summary on
// success; on any failure it returns the underlying error and guarantees
// that no partially written CSV/Parquet artifact was published.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) (*Summary, error) {
	start := time.Now()
	sum := &Summary{Job: cfg.Job}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", cfg.Output.Dir, err)
	}

	// Step 1: read and parse the nested document.
	var doc *customer.Document
	err := step(cfg.Job, "parse", log, func() error {
		var src datasource.Source = file.NewLocal(cfg.Input.Path)
		rc, err := src.Open(ctx)
		if err != nil {
			return err
		}
		defer rc.Close()

		doc, err = customer.Decode(rc)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Step 2: flatten into one record per customer.
	recs := customer.Flatten(doc)
	sum.CompanyID = doc.CompanyID
	sum.CompanyName = doc.CompanyInfo[0].Name
	sum.Rows = len(recs)
	metrics.RecordRow(cfg.Job, "flattened", int64(len(recs)))
	log.Info("flattened customer records",
		zap.Int("records", len(recs)),
		zap.Int64("company_id", sum.CompanyID),
		zap.String("company", sum.CompanyName))

	// Step 3: transform chain — clean strings, derive the masked column.
	err = step(cfg.Job, "transform", log, func() error {
		chain := transformer.Chain{
			builtin.Normalize{},
			builtin.MaskEmail{
				Source: schema.FieldEmailOriginal,
				Target: schema.FieldEmailMasked,
			},
		}
		recs = chain.Apply(recs)
		metrics.RecordRow(cfg.Job, "masked", int64(len(recs)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 4: project records onto the published row shape.
	var rows []schema.SecureCustomer
	err = step(cfg.Job, "publish", log, func() error {
		var err error
		rows, err = schema.RowsFromRecords(recs)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(cfg.Job, "published", int64(len(rows)))
	preview(log, rows)

	// Step 5: persist all artifacts, then commit.
	err = step(cfg.Job, "persist", log, func() error {
		arts, err := persist(ctx, cfg, rows, log)
		if err != nil {
			return err
		}
		sum.Artifacts = arts
		return nil
	})
	if err != nil {
		return nil, err
	}

	sum.Duration = time.Since(start)
	log.Info("run complete",
		zap.Int("rows", sum.Rows),
		zap.Duration("duration", sum.Duration))
	return sum, nil
}

// persist writes the three artifacts. CSV and Parquet go through staged
// paths; the DuckDB load reads the staged Parquet file so that even the
// database never observes a partially committed artifact. The staged files
// are renamed into place only after every write succeeded.
//
// The DuckDB file itself is opened at its final path: its create-if-absent
// table semantics mean an existing database must be amended, not replaced.
func persist(ctx context.Context, cfg config.Config, rows []schema.SecureCustomer, log *zap.Logger) ([]Artifact, error) {
	csvPath := filepath.Join(cfg.Output.Dir, cfg.Output.CSVName)
	parquetPath := filepath.Join(cfg.Output.Dir, cfg.Output.ParquetName)
	dbPath := filepath.Join(cfg.Output.Dir, cfg.Output.DBName)

	csvStage, err := storage.NewStaged(csvPath)
	if err != nil {
		return nil, err
	}
	defer csvStage.Discard()

	parquetStage, err := storage.NewStaged(parquetPath)
	if err != nil {
		return nil, err
	}
	defer parquetStage.Discard()

	sinks := []struct {
		kind string
		sink storage.Sink
	}{
		{"csv", csvfile.NewWriter(csvStage.Path())},
		{"parquet", parquetfile.NewWriter(parquetStage.Path())},
		{"duckdb", storage.SinkFunc(func(ctx context.Context, _ []schema.SecureCustomer) error {
			return loadDuckDB(ctx, cfg, dbPath, parquetStage.Path())
		})},
	}

	for _, s := range sinks {
		if err := s.sink.Write(ctx, rows); err != nil {
			return nil, fmt.Errorf("write %s artifact: %w", s.kind, err)
		}
		log.Info("artifact written", zap.String("kind", s.kind))
	}

	// All writes succeeded: fingerprint, then commit the staged files.
	csvDigest, err := digest(csvStage.Path())
	if err != nil {
		return nil, err
	}
	parquetDigest, err := digest(parquetStage.Path())
	if err != nil {
		return nil, err
	}
	if err := csvStage.Commit(); err != nil {
		return nil, err
	}
	if err := parquetStage.Commit(); err != nil {
		return nil, err
	}

	arts := []Artifact{
		{Kind: "csv", Path: csvPath, Digest: csvDigest},
		{Kind: "parquet", Path: parquetPath, Digest: parquetDigest},
		{Kind: "duckdb", Path: dbPath},
	}
	for _, a := range arts {
		metrics.RecordArtifact(cfg.Job, a.Kind)
		log.Info("artifact committed",
			zap.String("kind", a.Kind),
			zap.String("path", a.Path),
			zap.String("xxh3", a.Digest))
	}
	return arts, nil
}

// loadDuckDB opens the store, loads the staged Parquet file into the
// configured table, and releases the handle on every path.
func loadDuckDB(ctx context.Context, cfg config.Config, dbPath, parquetPath string) error {
	repo, closeFn, err := duckdb.NewRepository(ctx, duckdb.Config{Path: dbPath})
	if err != nil {
		return err
	}
	defer closeFn()

	return repo.LoadParquet(ctx, cfg.Output.Table, parquetPath)
}

// step runs fn, logs the outcome, and records step metrics.
func step(job, name string, log *zap.Logger, fn func() error) error {
	begin := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(begin))
	if err != nil {
		log.Error("step failed", zap.String("step", name), zap.Error(err))
		return err
	}
	log.Info("step complete",
		zap.String("step", name),
		zap.Duration("took", time.Since(begin)))
	return nil
}

// preview echoes up to previewRows published rows for manual verification,
// masked column only.
func preview(log *zap.Logger, rows []schema.SecureCustomer) {
	n := len(rows)
	if n > previewRows {
		n = previewRows
	}
	for i := 0; i < n; i++ {
		r := rows[i]
		log.Info("row",
			zap.Int64("company_id", r.CompanyID),
			zap.String("company", r.CompanyName),
			zap.String("customer", r.CustomerName),
			zap.String("email_masked", r.EmailMasked),
			zap.String("role", r.Role))
	}
	if len(rows) > n {
		log.Info("preview truncated", zap.Int("shown", n), zap.Int("total", len(rows)))
	}
}

// digest computes the hex-encoded xxh3-128 content digest of a file.
func digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	b := h.Sum128().Bytes()
	return fmt.Sprintf("%x", b[:]), nil
}

// IsMissingInput reports whether err represents the configured input file
// not existing. The CLI uses this to print guidance instead of a bare error.
func IsMissingInput(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
