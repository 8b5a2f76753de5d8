package catalogue

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalogue.db")

	perfumes, err := ReadCSV(ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, WriteSQLite(ctx, path, "perfumes", perfumes))

	src, err := NewSQLiteSource(path, "perfumes")
	require.NoError(t, err)

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, perfumes, loaded)

	t.Run("rewrite replaces the table", func(t *testing.T) {
		require.NoError(t, WriteSQLite(ctx, path, "perfumes", perfumes[:1]))
		loaded, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})
}

func TestSQLiteSourceErrors(t *testing.T) {
	t.Run("rejects invalid table names", func(t *testing.T) {
		_, err := NewSQLiteSource("catalogue.db", "perfumes; DROP TABLE x")
		assert.Error(t, err)
	})

	t.Run("missing database is a load error", func(t *testing.T) {
		src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "missing.db"), "perfumes")
		require.NoError(t, err)
		_, err = src.Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogueLoad)
	})

	t.Run("missing table is a load error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalogue.db")
		require.NoError(t, WriteSQLite(context.Background(), path, "other", nil))

		src, err := NewSQLiteSource(path, "perfumes")
		require.NoError(t, err)
		_, err = src.Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogueLoad)
	})
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("csv", "perfumes.csv", "")
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	src, err = NewSource("sqlite", "catalogue.db", "perfumes")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSource{}, src)

	_, err = NewSource("parquet", "x", "")
	assert.Error(t, err)
}
