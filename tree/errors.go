package tree

// PredictionError represents an error related with growing trees or
// predicting with them.
type PredictionError string

const (
	/*
		ErrNoMatchingBranch is returned by Predict when a sample reaches an
		internal node and none of its children was grown for the sample's
		value of the node's split feature.
	*/
	ErrNoMatchingBranch = PredictionError("no branch matches the sample")
	// ErrNotBuilt is returned when using a tree that has not been built.
	ErrNotBuilt = PredictionError("tree has not been built")
	// ErrAlreadyBuilt is returned when building a tree twice.
	ErrAlreadyBuilt = PredictionError("tree has already been built")
	// ErrMalformedTree is returned when assembling a tree from nodes that do
	// not form a valid tree.
	ErrMalformedTree = PredictionError("malformed tree")
)

func (pe PredictionError) Error() string {
	return string(pe)
}
