package etl

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maskpipe/internal/config"
	"maskpipe/internal/parser/customer"
	"maskpipe/internal/storage/duckdb"
	"maskpipe/internal/storage/parquetfile"
)

func testConfig(t *testing.T, input string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestRun_EndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, filepath.Join("testdata", "customers.json"))

	sum, err := Run(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Rows)
	assert.EqualValues(t, 1, sum.CompanyID)
	assert.Equal(t, "Acme", sum.CompanyName)
	require.Len(t, sum.Artifacts, 3)

	// CSV: header + 4 rows, masked column published, original never.
	recs := readCSV(t, filepath.Join(cfg.Output.Dir, cfg.Output.CSVName))
	require.Len(t, recs, 5)
	assert.NotContains(t, recs[0], "Email_Original")
	assert.Contains(t, recs[0], "Email_Masked")
	assert.Equal(t,
		[]string{"1", "Acme", "Carlos", "*******@gmail.com", "555-0100", "1991-04-02", "Lima", "Owner"},
		recs[1])
	assert.Equal(t, "not-an-email", recs[3][3], "no-@ emails pass through unmasked")
	assert.Equal(t, "*******@b@c", recs[4][3], "split happens at the first @ only")

	// Parquet: same rows, same masking.
	rows, err := parquetfile.ReadAll(filepath.Join(cfg.Output.Dir, cfg.Output.ParquetName))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "*******@gmail.com", rows[0].EmailMasked)

	// DuckDB: table exists with the same row count.
	repo, closeFn, err := duckdb.NewRepository(ctx, duckdb.Config{
		Path:     filepath.Join(cfg.Output.Dir, cfg.Output.DBName),
		ReadOnly: true,
	})
	require.NoError(t, err)
	defer closeFn()
	n, err := repo.CountRows(ctx, cfg.Output.Table)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	// Digests are present for the file artifacts.
	for _, a := range sum.Artifacts {
		if a.Kind != "duckdb" {
			assert.NotEmpty(t, a.Digest, "artifact %s", a.Kind)
		}
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope.json"))

	_, err := Run(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.True(t, IsMissingInput(err), "err = %v", err)

	// No artifacts may exist after a missing-input failure.
	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_MultiCompanyRejected(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "two.json")
	doc := `{"CompanyID": 1, "CompanyInfo": [{"Name": "A", "Customers": []}, {"Name": "B", "Customers": []}]}`
	require.NoError(t, os.WriteFile(input, []byte(doc), 0o644))

	cfg := testConfig(t, input)
	_, err := Run(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, customer.ErrCompanyCount)
}

func TestRun_FailedPersistPublishesNothing(t *testing.T) {
	cfg := testConfig(t, filepath.Join("testdata", "customers.json"))
	cfg.Output.Table = "not a valid identifier"

	_, err := Run(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)

	// The staged CSV/Parquet files must have been discarded, not committed.
	for _, name := range []string{cfg.Output.CSVName, cfg.Output.ParquetName} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.True(t, os.IsNotExist(err), "artifact %s was published despite the failure", name)
	}
	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "staged file left behind: %s", e.Name())
	}
}

func TestRun_RerunOverwritesAndKeepsTable(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, filepath.Join("testdata", "customers.json"))

	_, err := Run(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	first := readCSV(t, filepath.Join(cfg.Output.Dir, cfg.Output.CSVName))

	_, err = Run(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	second := readCSV(t, filepath.Join(cfg.Output.Dir, cfg.Output.CSVName))
	assert.Equal(t, first, second, "re-run must overwrite with identical content")

	// The DuckDB table existed already; the second load must not duplicate it.
	repo, closeFn, err := duckdb.NewRepository(ctx, duckdb.Config{
		Path: filepath.Join(cfg.Output.Dir, cfg.Output.DBName),
	})
	require.NoError(t, err)
	defer closeFn()
	n, err := repo.CountRows(ctx, cfg.Output.Table)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestRun_EmptyCustomerList(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.json")
	doc := `{"CompanyID": 5, "CompanyInfo": [{"Name": "Hollow Inc", "Customers": []}]}`
	require.NoError(t, os.WriteFile(input, []byte(doc), 0o644))

	cfg := testConfig(t, input)
	sum, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, sum.Rows)

	recs := readCSV(t, filepath.Join(cfg.Output.Dir, cfg.Output.CSVName))
	assert.Len(t, recs, 1, "header only")
}
