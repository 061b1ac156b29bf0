package feature

import "fmt"

/*
Criterion is the constraint a tree node imposes on the samples routed to it:
the feature its parent split on must take the given value.
*/
type Criterion struct {
	Feature Feature
	Value   Value
}

// SatisfiedBy reports whether the value at column col of the given feature
// values equals the criterion's value.
func (c Criterion) SatisfiedBy(values []Value, col int) bool {
	if col < 0 || col >= len(values) {
		return false
	}
	return values[col] == c.Value
}

func (c Criterion) String() string {
	if c.Feature == nil {
		return fmt.Sprintf("is %v", c.Value)
	}
	return fmt.Sprintf("%s is %v", c.Feature.Name(), c.Value)
}
