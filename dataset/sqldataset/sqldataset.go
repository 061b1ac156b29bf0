/*
Package sqldataset turns the rows of SQL queries into dataset.Tables. It holds
what the database specific packages (sqlitedataset, pgdataset) have in common.
*/
package sqldataset

import (
	"database/sql"
	"fmt"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

// ValueFunc converts a value scanned from a column into a feature.Value.
type ValueFunc func(raw interface{}) (feature.Value, error)

/*
ReadTable consumes the given rows and returns a dataset.Table with them. The
last column of the rows holds the labels and the rest the feature values,
which are converted with value. If features is nil, the table gets discrete
features named after the columns, otherwise it must have one feature per
feature column. ReadTable does not close the rows.
*/
func ReadTable(rows *sql.Rows, features []feature.Feature, value ValueFunc) (*dataset.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("query returns no columns: %w", dataset.ErrArityMismatch)
	}
	if features == nil {
		features = make([]feature.Feature, len(columns)-1)
		for i, c := range columns[:len(columns)-1] {
			features[i] = feature.NewDiscreteFeature(c, nil)
		}
	}
	var samples []dataset.Sample
	raw := make([]interface{}, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		err = rows.Scan(dest...)
		if err != nil {
			return nil, err
		}
		row := make([]feature.Value, len(columns))
		for i, r := range raw {
			row[i], err = value(r)
			if err != nil {
				return nil, fmt.Errorf("row #%d column %s: %w", len(samples), columns[i], err)
			}
		}
		samples = append(samples, dataset.NewSample(row...))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return dataset.New(features, samples)
}

/*
Value converts the usual driver values into feature values: integers and
floats become numbers, strings, byte slices and booleans symbols. NULL and
any other type fail with an error wrapping dataset.ErrInvalidValue.
*/
func Value(raw interface{}) (feature.Value, error) {
	switch r := raw.(type) {
	case int64:
		return feature.Number(float64(r)), nil
	case float64:
		return feature.Number(r), nil
	case string:
		return feature.Symbol(r), nil
	case []byte:
		return feature.Symbol(string(r)), nil
	case bool:
		return feature.Symbol(fmt.Sprint(r)), nil
	case nil:
		return feature.Value{}, fmt.Errorf("NULL value: %w", dataset.ErrInvalidValue)
	}
	return feature.Value{}, fmt.Errorf("unsupported value type %T: %w", raw, dataset.ErrInvalidValue)
}

// Arg returns the driver argument storing the given value.
func Arg(v feature.Value) interface{} {
	if f, ok := v.Float(); ok {
		return f
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return nil
}
