package npy

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromMatrix(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		2, 2, 1,
		1, 2, 0,
		0, 0, 1,
	})
	tbl, err := FromMatrix(m, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, feature.Names(tbl.Features()))
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, feature.Numbers(1, 2), tbl.Samples()[1].Values)
	assert.Equal(t, feature.Number(0), tbl.Samples()[1].Label)

	_, err = FromMatrix(m, feature.Indexed(1))
	assert.True(t, errors.Is(err, dataset.ErrArityMismatch))
}

func TestWriteAndReadTable(t *testing.T) {
	m := mat.NewDense(4, 3, []float64{
		0, 1, 1,
		1, 1, 0,
		0, 0, 1,
		1, 0, 0,
	})
	tbl, err := FromMatrix(m, nil)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteTable(buf, tbl))
	read, err := ReadTable(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, tbl.Samples(), read.Samples())
}

func TestToMatrixRejectsSymbols(t *testing.T) {
	tbl, err := dataset.FromRows(feature.Indexed(1), [][]feature.Value{{feature.Symbol("a"), feature.Number(1)}})
	require.NoError(t, err)
	_, err = ToMatrix(tbl)
	assert.True(t, errors.Is(err, dataset.ErrInvalidValue))
}
