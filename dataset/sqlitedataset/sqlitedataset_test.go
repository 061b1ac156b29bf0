package sqlitedataset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "samples.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func weatherTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	features := []feature.Feature{feature.NewDiscreteFeature("outlook", nil), feature.NewDiscreteFeature("humidity", nil)}
	outlooks := []string{"sunny", "overcast", "rainy"}
	rows := make([][]feature.Value, n)
	for i := range rows {
		rows[i] = []feature.Value{feature.Symbol(outlooks[i%3]), feature.Number(float64(i % 4)), feature.Symbol([]string{"no", "yes"}[i%2])}
	}
	tbl, err := dataset.FromRows(features, rows)
	require.NoError(t, err)
	return tbl
}

func TestWriteAndRead(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tbl := weatherTable(t, 2*MaxSampleInsertionsPerStatement+7)

	require.NoError(t, db.CreateTable(ctx, "weather", tbl.Features(), "play"))
	count, err := db.Write(ctx, "weather", tbl, "play")
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), count)

	read, err := db.ReadTable(ctx, "weather", tbl.Features(), "play")
	require.NoError(t, err)
	assert.Equal(t, tbl.Samples(), read.Samples())
	assert.Equal(t, tbl.Features(), read.Features())

	reordered, err := db.ReadTable(ctx, "weather", []feature.Feature{feature.NewDiscreteFeature("humidity", nil)}, "outlook")
	require.NoError(t, err)
	assert.Equal(t, feature.Numbers(0), reordered.Samples()[0].Values)
	assert.Equal(t, feature.Symbol("sunny"), reordered.Samples()[0].Label)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tbl := weatherTable(t, 6)
	require.NoError(t, db.CreateTable(ctx, "weather", tbl.Features(), "play"))
	_, err := db.Write(ctx, "weather", tbl, "play")
	require.NoError(t, err)

	read, err := db.Query(ctx, `SELECT outlook, play FROM weather WHERE humidity < ?`, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"outlook"}, feature.Names(read.Features()))
	assert.Equal(t, 4, read.Len())

	_, err = db.Query(ctx, `SELECT outlook, NULL FROM weather`, nil)
	assert.True(t, errors.Is(err, dataset.ErrInvalidValue))
}

func TestColumnName(t *testing.T) {
	c, err := ColumnName("outlook")
	require.NoError(t, err)
	assert.Equal(t, `"outlook"`, c)

	for _, invalid := range []string{"", "rowid", `out"look`} {
		_, err = ColumnName(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestInsertStatement(t *testing.T) {
	samples := []dataset.Sample{
		{Values: []feature.Value{feature.Symbol("a")}, Label: feature.Number(1)},
		{Values: []feature.Value{feature.Number(2)}, Label: feature.Symbol("b")},
	}
	stmt, args := insertStatement(`"t"`, []string{`"x"`, `"y"`}, samples)
	assert.Equal(t, `INSERT INTO "t"("x", "y") VALUES (?, ?), (?, ?)`, stmt)
	assert.Equal(t, []interface{}{"a", 1.0, 2.0, "b"}, args)
}
