/*
Package csv reads dataset tables from CSV streams.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

/*
ReadTable takes an io.Reader for a CSV stream, a slice of features and the
name of the label column and returns the table parsed from it or an error.

The header or first row of the CSV content names the columns. The label column
is the one named label, or the last column when label is empty. When features
is nil every other column becomes a feature without value restrictions, in
header order. Otherwise the columns named after the given features are read in
the order of the slice and any other column is ignored.

Cells are parsed with feature.Parse: numbers become numeric values and
anything else a symbolic value.
*/
func ReadTable(reader io.Reader, features []feature.Feature, label string) (*dataset.Table, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	labelCol, err := labelColumn(header, label)
	if err != nil {
		return nil, err
	}
	features, cols, err := featureColumns(header, features, labelCol)
	if err != nil {
		return nil, err
	}
	var samples []dataset.Sample
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %v", l, err)
		}
		values := make([]feature.Value, len(cols))
		for i, c := range cols {
			values[i] = feature.Parse(row[c])
		}
		samples = append(samples, dataset.Sample{Values: values, Label: feature.Parse(row[labelCol])})
	}
	t, err := dataset.New(features, samples)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return t, nil
}

/*
ReadTableFromFilePath takes a filepath string, a slice of features and a label
column name, opens the file to which the filepath points to and uses ReadTable
to return the table read from it or an error. If the filepath is "" os.Stdin
is read instead.
*/
func ReadTableFromFilePath(filepath string, features []feature.Feature, label string) (*dataset.Table, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading table: %v", err)
		}
		defer f.Close()
	}
	t, err := ReadTable(f, features, label)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return t, err
}

func labelColumn(header []string, label string) (int, error) {
	if len(header) == 0 {
		return -1, fmt.Errorf("empty header")
	}
	if label == "" {
		return len(header) - 1, nil
	}
	for i, name := range header {
		if strings.TrimSpace(name) == label {
			return i, nil
		}
	}
	return -1, fmt.Errorf("label column %s not found in header %v", label, header)
}

func featureColumns(header []string, features []feature.Feature, labelCol int) ([]feature.Feature, []int, error) {
	if features == nil {
		cols := make([]int, 0, len(header)-1)
		for i, name := range header {
			if i == labelCol {
				continue
			}
			features = append(features, feature.NewDiscreteFeature(strings.TrimSpace(name), nil))
			cols = append(cols, i)
		}
		return features, cols, nil
	}
	cols := make([]int, len(features))
	for i, f := range features {
		cols[i] = -1
		for j, name := range header {
			if j != labelCol && strings.TrimSpace(name) == f.Name() {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, nil, fmt.Errorf("feature %s not found in header %v", f.Name(), header)
		}
	}
	return features, cols, nil
}
