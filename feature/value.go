package feature

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tells which of the alternatives a Value holds.
type Kind uint8

const (
	// Absent is the Kind of the zero Value.
	Absent Kind = iota
	// Numeric values hold a float64.
	Numeric
	// Symbolic values hold a string.
	Symbolic
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Symbolic:
		return "symbolic"
	}
	return "absent"
}

/*
Value is a feature value or a label. It is either numeric or symbolic. The
zero Value is absent and stands for "not set" (the label of an internal node,
the parent value of a root node).

Values are comparable with == and can be used as map keys.
*/
type Value struct {
	kind Kind
	num  float64
	sym  string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: Numeric, num: f}
}

// Symbol returns a symbolic Value.
func Symbol(s string) Value {
	return Value{kind: Symbolic, sym: s}
}

/*
Parse takes a string and returns a numeric Value if the trimmed string is a
valid float64, or a symbolic Value with the string as is otherwise.
*/
func Parse(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err == nil {
		return Number(f)
	}
	return Symbol(s)
}

// Numbers is a convenience to build a slice of numeric values.
func Numbers(fs ...float64) []Value {
	vs := make([]Value, len(fs))
	for i, f := range fs {
		vs[i] = Number(f)
	}
	return vs
}

// IsNaN reports whether v is a numeric NaN, which never equals itself.
func (v Value) IsNaN() bool {
	return v.kind == Numeric && math.IsNaN(v.num)
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether v is the zero Value.
func (v Value) IsAbsent() bool {
	return v.kind == Absent
}

// Float returns the numeric payload and whether v is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == Numeric
}

// Text returns the symbolic payload and whether v is symbolic.
func (v Value) Text() (string, bool) {
	return v.sym, v.kind == Symbolic
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) String() string {
	switch v.kind {
	case Numeric:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case Symbolic:
		return v.sym
	}
	return "<none>"
}

/*
Compare returns -1, 0 or 1 ordering a before, equal to or after b. Absent
values come first, then numeric values in ascending order, then symbolic values
in lexicographic order.
*/
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case Numeric:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
	case Symbolic:
		return strings.Compare(a.sym, b.sym)
	}
	return 0
}

// MarshalJSON encodes numeric values as JSON numbers, symbolic values as
// JSON strings and absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Numeric:
		return json.Marshal(v.num)
	case Symbolic:
		return json.Marshal(v.sym)
	}
	return []byte("null"), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch r := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = Number(r)
	case string:
		*v = Symbol(r)
	default:
		return fmt.Errorf("cannot decode %s as a feature value", string(data))
	}
	return nil
}
