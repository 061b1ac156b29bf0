/*
Package pgdataset stores training samples on a PostgreSQL database table and
reads them back as dataset.Tables.

Sample tables have one TEXT column per feature followed by one for the label.
Values are stored in their textual form and parsed back as CSV fields are, so
anything that parses as a number is read as a numeric value.
*/
package pgdataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/dataset/sqldataset"
	"github.com/pbanos/arbor/feature"
)

// MaxSampleInsertionsPerStatement is the maximum number of samples inserted
// with a single insert command by Write.
const MaxSampleInsertionsPerStatement = 10

// DB is a PostgreSQL database holding sample tables.
type DB struct {
	db *sql.DB
}

/*
Open takes a PostgreSQL database connection URL and returns a DB that works on
the database or an error if it fails to connect to it.
*/
func Open(ctx context.Context, url string) (*DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to PostgreSQL: %v", err)
	}
	return &DB{db}, nil
}

// Close closes the connections to the database.
func (d *DB) Close() error {
	return d.db.Close()
}

/*
ColumnName takes the name of a feature, label or table and returns the quoted
identifier to use for it, or an error if it cannot be used.
*/
func ColumnName(name string) (string, error) {
	if name == "" || strings.EqualFold(name, "ctid") {
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

// CreateTable creates a sample table with the given name if it does not exist.
func (d *DB) CreateTable(ctx context.Context, name string, features []feature.Feature, label string) error {
	table, err := ColumnName(name)
	if err != nil {
		return err
	}
	columns, err := columnNames(features, label)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, createStatement(table, columns))
	if err != nil {
		return fmt.Errorf("creating table %s: %v", table, err)
	}
	return nil
}

func createStatement(table string, columns []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(%s TEXT NOT NULL)", table, strings.Join(columns, " TEXT NOT NULL, "))
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
			return count, fmt.Errorf("inserting the %dth %d samples: %v", count/MaxSampleInsertionsPerStatement+1, n, err)
		}
		count += n
		samples = samples[n:]
	}
	return count, nil
}

func insertStatement(table string, columns []string, samples []dataset.Sample) (string, []interface{}) {
	var buf bytes.Buffer
	args := make([]interface{}, 0, len(samples)*len(columns))
	fmt.Fprintf(&buf, "INSERT INTO %s(%s) VALUES ", table, strings.Join(columns, ", "))
	for i, s := range samples {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "$%d", len(args)+j+1)
		}
		buf.WriteString(")")
		for _, v := range s.Values {
			args = append(args, v.String())
		}
		args = append(args, s.Label.String())
	}
	return buf.String(), args
}

/*
ReadTable returns a dataset.Table with the rows of the sample table with the
given name. Its features are read from the columns named after the given
features and its labels from the column named after label.
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
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY ctid", strings.Join(columns, ", "), table)
	return d.Query(ctx, query, features)
}

/*
Query runs the given SELECT query and returns a dataset.Table with the
resulting rows, the last column holding the labels. If features is nil, the
table gets discrete features named after the result columns.
*/
func (d *DB) Query(ctx context.Context, query string, features []feature.Feature, args ...interface{}) (*dataset.Table, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	return sqldataset.ReadTable(rows, features, value)
}

// value parses textual columns, as lib/pq returns NUMERIC columns as text.
func value(raw interface{}) (feature.Value, error) {
	switch r := raw.(type) {
	case string:
		return feature.Parse(r), nil
	case []byte:
		return feature.Parse(string(r)), nil
	}
	return sqldataset.Value(raw)
}
