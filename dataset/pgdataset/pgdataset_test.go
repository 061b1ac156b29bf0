package pgdataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	c, err := ColumnName("outlook")
	require.NoError(t, err)
	assert.Equal(t, `"outlook"`, c)
	for _, name := range []string{"", "ctid", "CTID", `a"b`} {
		_, err := ColumnName(name)
		assert.Error(t, err, name)
	}
}

func TestCreateStatement(t *testing.T) {
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "samples"("a" TEXT NOT NULL, "class" TEXT NOT NULL)`, createStatement(`"samples"`, []string{`"a"`, `"class"`}))
}

func TestInsertStatement(t *testing.T) {
	samples := []dataset.Sample{
		{Values: []feature.Value{feature.Number(1), feature.Symbol("sunny")}, Label: feature.Symbol("yes")},
		{Values: []feature.Value{feature.Number(0.5), feature.Symbol("rain")}, Label: feature.Number(0)},
	}
	stmt, args := insertStatement(`"samples"`, []string{`"a"`, `"b"`, `"class"`}, samples)
	assert.Equal(t, `INSERT INTO "samples"("a", "b", "class") VALUES ($1, $2, $3), ($4, $5, $6)`, stmt)
	assert.Equal(t, []interface{}{"1", "sunny", "yes", "0.5", "rain", "0"}, args)
}

func TestValue(t *testing.T) {
	for _, c := range []struct {
		raw      interface{}
		expected feature.Value
	}{
		{"2", feature.Number(2)},
		{[]byte("1.5"), feature.Number(1.5)},
		{"sunny", feature.Symbol("sunny")},
		{int64(3), feature.Number(3)},
		{float64(0.25), feature.Number(0.25)},
	} {
		v, err := value(c.raw)
		require.NoError(t, err)
		assert.Equal(t, c.expected, v)
	}
	_, err := value(nil)
	assert.True(t, errors.Is(err, dataset.ErrInvalidValue))
}

func TestOpenUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Open(ctx, "postgres://arbor@127.0.0.1:1/arbor?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
