package sqldataset

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT 1 AS a, 'sunny' AS b, 0 AS class UNION ALL SELECT 2.5, 'rain', 1`)
	require.NoError(t, err)
	defer rows.Close()
	tbl, err := ReadTable(rows, nil, Value)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, feature.Names(tbl.Features()))
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []feature.Value{feature.Number(1), feature.Symbol("sunny")}, tbl.Samples()[0].Values)
	assert.Equal(t, feature.Number(1), tbl.Samples()[1].Label)
}

func TestReadTableRejectsNull(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT NULL AS a, 0 AS class`)
	require.NoError(t, err)
	defer rows.Close()
	_, err = ReadTable(rows, nil, Value)
	assert.True(t, errors.Is(err, dataset.ErrInvalidValue))
}

func TestArg(t *testing.T) {
	assert.Equal(t, 1.5, Arg(feature.Number(1.5)))
	assert.Equal(t, "rain", Arg(feature.Symbol("rain")))
	assert.Nil(t, Arg(feature.Value{}))
}
