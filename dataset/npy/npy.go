/*
Package npy reads numeric training data from NumPy .npy files holding a 2-D
float64 array whose last column is the label, and writes tables back to them.
*/
package npy

import (
	"fmt"
	"io"
	"os"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

/*
FromMatrix takes a matrix whose rows are samples, with the feature values
followed by the label, and returns the corresponding table. If features is
nil, the table gets one feature per column but the last named after its
position.
*/
func FromMatrix(m mat.Matrix, features []feature.Feature) (*dataset.Table, error) {
	r, c := m.Dims()
	if c == 0 {
		return nil, fmt.Errorf("matrix has no columns: %w", dataset.ErrArityMismatch)
	}
	if features == nil {
		features = feature.Indexed(c - 1)
	}
	rows := make([][]feature.Value, r)
	for i := range rows {
		row := make([]feature.Value, c)
		for j := range row {
			row[j] = feature.Number(m.At(i, j))
		}
		rows[i] = row
	}
	return dataset.FromRows(features, rows)
}

/*
ToMatrix returns a matrix with one row per sample of the given table holding
its values followed by its label. It fails with dataset.ErrInvalidValue if
the table has symbolic values.
*/
func ToMatrix(tbl *dataset.Table) (*mat.Dense, error) {
	if tbl.Len() == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	c := tbl.Arity() + 1
	m := mat.NewDense(tbl.Len(), c, nil)
	for i, s := range tbl.Samples() {
		for j, v := range append(append([]feature.Value(nil), s.Values...), s.Label) {
			f, ok := v.Float()
			if !ok {
				return nil, fmt.Errorf("sample #%d column %d holds %v: %w", i, j, v, dataset.ErrInvalidValue)
			}
			m.Set(i, j, f)
		}
	}
	return m, nil
}

// ReadTable reads a .npy matrix from r and returns it as a table.
func ReadTable(r io.Reader, features []feature.Feature) (*dataset.Table, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, err
	}
	m := &mat.Dense{}
	err = nr.Read(m)
	if err != nil {
		return nil, fmt.Errorf("reading npy matrix: %v", err)
	}
	return FromMatrix(m, features)
}

// ReadTableFromFilePath reads the table stored at the .npy file with the
// given path.
func ReadTableFromFilePath(path string, features []feature.Feature) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f, features)
}

// WriteTable writes the given numeric table as a .npy matrix onto w.
func WriteTable(w io.Writer, tbl *dataset.Table) error {
	m, err := ToMatrix(tbl)
	if err != nil {
		return err
	}
	return npyio.Write(w, m)
}
