package feature

import (
	"fmt"
	"strconv"
)

/*
Feature identifies a column of a dataset. Trees keep track of which features
are still available at every depth through their identifiers, so two features
with the same name are the same feature.
*/
type Feature interface {
	Name() string
	Valid(Value) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set. A DiscreteFeature without available values
accepts any present value.
*/
type DiscreteFeature struct {
	name            string
	availableValues []Value
}

/*
NewDiscreteFeature takes a name string and a slice of available values
and returns a discrete feature with the given name and available values.
*/
func NewDiscreteFeature(name string, availableValues []Value) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
Indexed returns n discrete features without value restrictions named after
their positions: "0", "1", ..., "n-1".
*/
func Indexed(n int) []Feature {
	features := make([]Feature, n)
	for i := range features {
		features[i] = NewDiscreteFeature(strconv.Itoa(i), nil)
	}
	return features
}

/*
Names returns the names of the given features in the same order.
*/
func Names(features []Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name()
	}
	return names
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives a value and returns a boolean and an error. Absent and NaN
values are never valid. When the feature has no available values any other value is
valid, otherwise the value must be one of them. Invalid values make the method
return false and an error describing the reason.
*/
func (df *DiscreteFeature) Valid(value Value) (bool, error) {
	if value.IsAbsent() {
		return false, fmt.Errorf("discrete feature %s got no value", df.Name())
	}
	if value.IsNaN() {
		return false, fmt.Errorf("discrete feature %s got NaN", df.Name())
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == value {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %v", df.Name(), value)
}

/*
AvailableValues returns the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []Value {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}
