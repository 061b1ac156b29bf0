package dataset

import (
	"fmt"

	"github.com/pbanos/arbor/feature"
)

/*
Sample represents an item to process or from which to learn how to process
them: an ordered sequence of feature values whose positions line up with the
features of the table holding it, plus the ground-truth label.
*/
type Sample struct {
	Values []feature.Value
	Label  feature.Value
}

/*
NewSample takes a row whose last element is the label and returns the
corresponding sample. It panics on empty rows.
*/
func NewSample(row ...feature.Value) Sample {
	return Sample{Values: row[:len(row)-1], Label: row[len(row)-1]}
}

// Arity returns the number of feature values of the sample.
func (s Sample) Arity() int {
	return len(s.Values)
}

// without returns a copy of the sample without the value at column col.
func (s Sample) without(col int) Sample {
	values := make([]feature.Value, 0, len(s.Values)-1)
	values = append(values, s.Values[:col]...)
	values = append(values, s.Values[col+1:]...)
	return Sample{Values: values, Label: s.Label}
}

func (s Sample) String() string {
	return fmt.Sprintf("%v -> %v", s.Values, s.Label)
}
