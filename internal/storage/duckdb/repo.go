// Package duckdb implements the persistent analytical store using DuckDB via
// database/sql. The pipeline loads the columnar artifact into a table with
// CREATE TABLE IF NOT EXISTS; the reporting command opens the same file
// read-only and runs aggregate queries against it.
//
// The handle is explicit and scoped: NewRepository returns a close function
// the caller releases deterministically on every exit path instead of
// relying on ambient connection state.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2" // registers the "duckdb" driver
)

// Config configures the DuckDB repository.
type Config struct {
	// Path is the database file. It is created if absent (unless ReadOnly).
	Path string

	// ReadOnly opens the database in read-only mode; the reporting consumer
	// uses this so it can never mutate the published dataset.
	ReadOnly bool
}

// Repository is a DuckDB-backed store for the published customer table.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a DuckDB database file and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, nil, fmt.Errorf("duckdb: path must not be empty")
	}

	dsn := cfg.Path
	if cfg.ReadOnly {
		dsn += "?access_mode=read_only"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("duckdb: open: %w", err)
	}

	// Apply a basic ping with context to fail fast on unreadable files.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("duckdb: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// LoadParquet populates table from a Parquet file using DuckDB's native
// reader:
//
//	CREATE TABLE IF NOT EXISTS <table> AS SELECT * FROM read_parquet(?)
//
// The table is created if absent and never dropped or recreated; re-running
// against an existing database leaves the previous table in place.
func (r *Repository) LoadParquet(ctx context.Context, table, parquetPath string) error {
	if err := ValidIdent(table); err != nil {
		return err
	}
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s AS SELECT * FROM read_parquet(?)",
		table,
	)
	if _, err := r.db.ExecContext(ctx, stmt, parquetPath); err != nil {
		return fmt.Errorf("duckdb: load parquet into %s: %w", table, err)
	}
	return nil
}

// CountRows returns the row count of table.
func (r *Repository) CountRows(ctx context.Context, table string) (int64, error) {
	if err := ValidIdent(table); err != nil {
		return 0, err
	}
	var n int64
	row := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("duckdb: count %s: %w", table, err)
	}
	return n, nil
}

// Query runs an arbitrary read query. The reporting command owns the SQL; the
// repository only owns the handle lifecycle.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("duckdb: query: %w", err)
	}
	return rows, nil
}

// ValidIdent guards table names interpolated into DDL. DuckDB placeholders
// cannot bind identifiers, so the name is restricted to a conservative
// charset instead.
func ValidIdent(name string) error {
	if name == "" {
		return fmt.Errorf("duckdb: empty identifier")
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return fmt.Errorf("duckdb: identifier %q must not start with a digit", name)
			}
		default:
			return fmt.Errorf("duckdb: identifier %q contains invalid character %q", name, r)
		}
	}
	return nil
}
