package parquetfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maskpipe/internal/schema"
)

func sampleRows() []schema.SecureCustomer {
	return []schema.SecureCustomer{
		{
			CompanyID:    1,
			CompanyName:  "Acme",
			CustomerName: "Carlos",
			EmailMasked:  "*******@gmail.com",
			Phone:        "555-0100",
			DateOfBirth:  "1991-04-02",
			PlaceOfBirth: "Lima",
			Role:         "Owner",
		},
		{
			CompanyID:    1,
			CompanyName:  "Acme",
			CustomerName: "Ana",
			EmailMasked:  "*******@corp.example",
			Phone:        "555-0101",
			DateOfBirth:  "1988-11-23",
			PlaceOfBirth: "Quito",
			Role:         "CTO",
		},
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers_secure.parquet")
	rows := sampleRows()

	require.NoError(t, NewWriter(path).Write(context.Background(), rows))

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWrite_EmptyRowSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, NewWriter(path).Write(context.Background(), nil))

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "zero-row file must still carry the schema")
}

func TestWrite_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "out.parquet")
	require.Error(t, NewWriter(path).Write(ctx, sampleRows()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file created despite canceled context")
}
