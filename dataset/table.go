package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/pbanos/arbor/feature"
	"gonum.org/v1/gonum/stat"
)

/*
Table is a collection of samples together with the features still available
to split them. The position of a feature in Features is the position of its
value in every sample, and every operation that drops a column drops the
feature with it, so both stay aligned at every depth of a tree.

A Table is never modified once created: splitting returns a new Table.
*/
type Table struct {
	features []feature.Feature
	samples  []Sample
}

/*
New takes a slice of features and a slice of samples and returns a table
with them or an error. Every sample must have one value per feature
(ErrArityMismatch) and neither its values nor its label can be absent or
rejected by the corresponding feature (ErrInvalidValue).
*/
func New(features []feature.Feature, samples []Sample) (*Table, error) {
	for i, s := range samples {
		if s.Arity() != len(features) {
			return nil, fmt.Errorf("sample #%d has %d values for %d features: %w", i, s.Arity(), len(features), ErrArityMismatch)
		}
		for j, v := range s.Values {
			if ok, err := features[j].Valid(v); !ok {
				return nil, fmt.Errorf("sample #%d: %v: %w", i, err, ErrInvalidValue)
			}
		}
		if s.Label.IsAbsent() {
			return nil, fmt.Errorf("sample #%d has no label: %w", i, ErrInvalidValue)
		}
		if s.Label.IsNaN() {
			return nil, fmt.Errorf("sample #%d has a NaN label: %w", i, ErrInvalidValue)
		}
	}
	return &Table{
		features: append([]feature.Feature(nil), features...),
		samples:  append([]Sample(nil), samples...),
	}, nil
}

/*
FromRows takes a slice of features and a slice of rows whose last element is
the label and returns the table built with them using New.
*/
func FromRows(features []feature.Feature, rows [][]feature.Value) (*Table, error) {
	samples := make([]Sample, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("row #%d is empty: %w", i, ErrArityMismatch)
		}
		samples[i] = NewSample(row...)
	}
	return New(features, samples)
}

// Features returns the features available on the table in column order.
func (t *Table) Features() []feature.Feature {
	return append([]feature.Feature(nil), t.features...)
}

// Samples returns the samples of the table.
func (t *Table) Samples() []Sample {
	return t.samples
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.samples)
}

// Arity returns the number of feature columns.
func (t *Table) Arity() int {
	return len(t.features)
}

/*
Validate checks that every sample has exactly one value per available
feature, returning an error wrapping ErrArityMismatch otherwise.
*/
func (t *Table) Validate() error {
	for i, s := range t.samples {
		if s.Arity() != len(t.features) {
			return fmt.Errorf("sample #%d has %d values for %d features: %w", i, s.Arity(), len(t.features), ErrArityMismatch)
		}
	}
	return nil
}

// labelCounts returns the labels in order of first occurrence along with
// their counts.
func (t *Table) labelCounts() ([]feature.Value, map[feature.Value]int) {
	var order []feature.Value
	counts := make(map[feature.Value]int)
	for _, s := range t.samples {
		if _, ok := counts[s.Label]; !ok {
			order = append(order, s.Label)
		}
		counts[s.Label]++
	}
	return order, counts
}

/*
Entropy returns the Shannon entropy in bits of the label distribution of the
table, or ErrEmptyDataset if it has no samples. It is 0 when all samples
share a label and log2(k) for k equally frequent labels.
*/
func (t *Table) Entropy() (float64, error) {
	if len(t.samples) == 0 {
		return 0.0, ErrEmptyDataset
	}
	order, counts := t.labelCounts()
	p := make([]float64, len(order))
	for i, l := range order {
		p[i] = float64(counts[l]) / float64(len(t.samples))
	}
	return stat.Entropy(p) / math.Ln2, nil
}

/*
Pure returns the label shared by all samples and true, or an absent value and
false if the table is empty or holds more than one label.
*/
func (t *Table) Pure() (feature.Value, bool) {
	if len(t.samples) == 0 {
		return feature.Value{}, false
	}
	l := t.samples[0].Label
	for _, s := range t.samples[1:] {
		if s.Label != l {
			return feature.Value{}, false
		}
	}
	return l, true
}

/*
Majority returns the most frequent label of the table. Ties go to the label
that appears first. It returns ErrEmptyDataset if the table has no samples.
*/
func (t *Table) Majority() (feature.Value, error) {
	if len(t.samples) == 0 {
		return feature.Value{}, ErrEmptyDataset
	}
	order, counts := t.labelCounts()
	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best, nil
}

/*
ColumnValues returns the distinct values observed at the given column sorted
with feature.Compare, or an error wrapping ErrColumnOutOfRange.
*/
func (t *Table) ColumnValues(col int) ([]feature.Value, error) {
	if col < 0 || col >= len(t.features) {
		return nil, fmt.Errorf("column %d of %d: %w", col, len(t.features), ErrColumnOutOfRange)
	}
	encountered := make(map[feature.Value]bool)
	var result []feature.Value
	for _, s := range t.samples {
		v := s.Values[col]
		if !encountered[v] {
			encountered[v] = true
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return feature.Compare(result[i], result[j]) < 0
	})
	return result, nil
}

/*
Split returns a new table with the samples whose value at column col equals v,
without that column and without the feature at position col. The receiver is
left untouched. It returns an error wrapping ErrColumnOutOfRange for invalid
columns.
*/
func (t *Table) Split(col int, v feature.Value) (*Table, error) {
	if col < 0 || col >= len(t.features) {
		return nil, fmt.Errorf("splitting on column %d of %d: %w", col, len(t.features), ErrColumnOutOfRange)
	}
	features := make([]feature.Feature, 0, len(t.features)-1)
	features = append(features, t.features[:col]...)
	features = append(features, t.features[col+1:]...)
	var samples []Sample
	for _, s := range t.samples {
		if s.Values[col] == v {
			samples = append(samples, s.without(col))
		}
	}
	return &Table{features: features, samples: samples}, nil
}

/*
Gain returns the information gain of splitting the table on column col:
its entropy minus the entropy of the subsets for each value of the column,
weighted by their relative size.
*/
func (t *Table) Gain(col int) (float64, error) {
	base, err := t.Entropy()
	if err != nil {
		return 0.0, err
	}
	return t.gain(base, col)
}

func (t *Table) gain(base float64, col int) (float64, error) {
	values, err := t.ColumnValues(col)
	if err != nil {
		return 0.0, err
	}
	var featureEntropy float64
	for _, v := range values {
		subset, err := t.Split(col, v)
		if err != nil {
			return 0.0, err
		}
		e, err := subset.Entropy()
		if err != nil {
			return 0.0, err
		}
		featureEntropy += float64(subset.Len()) / float64(t.Len()) * e
	}
	return base - featureEntropy, nil
}

/*
BestSplit returns the column with the largest information gain along with
the gain. Ties go to the lowest column. The column is a position among the
table's current features, Features()[col] identifies it.
It returns ErrEmptyDataset for tables without samples and ErrNoFeatures for
tables without feature columns.
*/
func (t *Table) BestSplit() (int, float64, error) {
	if len(t.features) == 0 {
		return -1, 0.0, ErrNoFeatures
	}
	base, err := t.Entropy()
	if err != nil {
		return -1, 0.0, err
	}
	largest := math.Inf(-1)
	splitIndex := -1
	for col := range t.features {
		g, err := t.gain(base, col)
		if err != nil {
			return -1, 0.0, err
		}
		if g > largest {
			largest = g
			splitIndex = col
		}
	}
	return splitIndex, largest, nil
}

func (t *Table) String() string {
	return fmt.Sprintf("{Table %d samples, features %v}", len(t.samples), feature.Names(t.features))
}
