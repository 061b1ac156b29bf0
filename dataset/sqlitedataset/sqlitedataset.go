/*
Package sqlitedataset stores training samples on an SQLite3 database table
and reads them back as dataset.Tables.

Sample tables have one column per feature followed by one for the label. The
columns are declared without type so numeric values are stored as REAL and
symbolic values as TEXT.
*/
package sqlitedataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/dataset/sqldataset"
	"github.com/pbanos/arbor/feature"
)

/*
MaxSampleInsertionsPerStatement is the maximum number of samples inserted
with a single insert command by Write. Writing more will result in making
more insertion commands.
*/
const MaxSampleInsertionsPerStatement = 50

// DB is an SQLite3 database holding sample tables.
type DB struct {
	db *sql.DB
}

/*
Open takes a path to an SQLite3 database file and returns a DB that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

/*
ColumnName takes the name of a feature or label and returns the quoted column
name to use for it, or an error if it cannot be used as column name.
*/
func ColumnName(name string) (string, error) {
	if name == "" || strings.EqualFold(name, "rowid") {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, name)
	}
	return fmt.Sprintf(`"%s"`, name), nil
}

func columnNames(features []feature.Feature, label string) ([]string, error) {
	columns := make([]string, 0, len(features)+1)
	for _, name := range append(feature.Names(features), label) {
		c, err := ColumnName(name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, nil
}

/*
CreateTable creates a sample table with the given name, one column per
feature and a last one for the label, if it does not exist yet.
*/
func (d *DB) CreateTable(ctx context.Context, name string, features []feature.Feature, label string) error {
	table, err := ColumnName(name)
	if err != nil {
		return err
	}
	columns, err := columnNames(features, label)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(%s)", table, strings.Join(columns, ", "))
	_, err = d.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("creating table %s: %v", table, err)
	}
	return nil
}

/*
Write inserts the samples of the given table onto the sample table with the
given name, whose columns are named after the table's features and the given
label. It returns the number of inserted samples.
*/
func (d *DB) Write(ctx context.Context, name string, tbl *dataset.Table, label string) (int, error) {
	table, err := ColumnName(name)
	if err != nil {
		return 0, err
	}
	columns, err := columnNames(tbl.Features(), label)
	if err != nil {
		return 0, err
	}
	samples := tbl.Samples()
	var count int
	for len(samples) > 0 {
		n := len(samples)
		if n > MaxSampleInsertionsPerStatement {
			n = MaxSampleInsertionsPerStatement
		}
		stmt, args := insertStatement(table, columns, samples[:n])
		_, err = d.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return count, fmt.Errorf("inserting samples into %s: %v", table, err)
		}
		count += n
		samples = samples[n:]
	}
	return count, nil
}

func insertStatement(table string, columns []string, samples []dataset.Sample) (string, []interface{}) {
	var buf bytes.Buffer
	args := make([]interface{}, 0, len(samples)*len(columns))
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	fmt.Fprintf(&buf, "INSERT INTO %s(%s) VALUES ", table, strings.Join(columns, ", "))
	for i, s := range samples {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(placeholders)
		for _, v := range s.Values {
			args = append(args, sqldataset.Arg(v))
		}
		args = append(args, sqldataset.Arg(s.Label))
	}
	return buf.String(), args
}

/*
ReadTable returns a dataset.Table with the rows of the sample table with the
given name in insertion order. Its features are read from the columns named
after the given features and its labels from the column named after label.
*/
func (d *DB) ReadTable(ctx context.Context, name string, features []feature.Feature, label string) (*dataset.Table, error) {
	table, err := ColumnName(name)
	if err != nil {
		return nil, err
	}
	columns, err := columnNames(features, label)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(columns, ", "), table)
	return d.Query(ctx, query, features)
}

/*
Query runs the given SELECT query and returns a dataset.Table with the
resulting rows. The last column of the result holds the labels and the rest
the feature values. If features is nil, the table gets discrete features named
after the result columns, otherwise it must have one feature per feature
column.
*/
func (d *DB) Query(ctx context.Context, query string, features []feature.Feature, args ...interface{}) (*dataset.Table, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	return sqldataset.ReadTable(rows, features, sqldataset.Value)
}
