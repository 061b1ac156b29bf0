package dataset

// Error is the type of the errors returned when a table is malformed or
// cannot be used for an operation.
type Error string

const (
	// ErrEmptyDataset is returned when entropy, split selection or majority
	// voting receive a table without samples.
	ErrEmptyDataset = Error("empty dataset")
	// ErrArityMismatch is returned when a sample does not have as many values
	// as there are features available.
	ErrArityMismatch = Error("sample arity does not match the number of features")
	// ErrInvalidValue is returned when a sample holds an absent value, or a
	// value its feature does not accept.
	ErrInvalidValue = Error("invalid feature value")
	// ErrNoFeatures is returned when a split is requested on a table without
	// feature columns.
	ErrNoFeatures = Error("no features to split on")
	// ErrColumnOutOfRange is returned when a column index does not address a
	// feature of the table.
	ErrColumnOutOfRange = Error("column out of range")
)

func (e Error) Error() string {
	return string(e)
}
