package tree

import (
	"errors"
	"fmt"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/rs/zerolog"
)

/*
Tree represents an ID3 classification tree. It owns an arena with all its
nodes, the root being the node with ID 0.

A Tree is built once and is read-only afterwards: Predict, Show, String,
Traverse and Test can then be called concurrently.
*/
type Tree struct {
	nodes            []*Node
	logger           zerolog.Logger
	leafShortCircuit bool
	discardData      bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger on which the tree reports the splits it makes
// at debug level. Trees log nothing by default.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tree) { t.logger = l }
}

/*
LeafShortCircuit makes Predict return the label of the first leaf found among
the children of a node, whether its ParentValue matches the sample or not.
Moving to a matching child does not end the scan of its siblings: the
remaining ones are still checked, against the reduced sample and the parent's
split column, and a leaf among them is returned. A node whose children are all
scanned continues from the last child that matched.
*/
func LeafShortCircuit() Option {
	return func(t *Tree) { t.leafShortCircuit = true }
}

// DiscardData makes Build leave the Data of nodes empty.
func DiscardData() Option {
	return func(t *Tree) { t.discardData = true }
}

// New returns an empty tree configured with the given options.
func New(options ...Option) *Tree {
	t := &Tree{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(t)
	}
	return t
}

/*
FromNodes takes the nodes of a tree indexed by ID and returns a tree made of
them, or an error wrapping ErrMalformedTree if they do not form a tree: every
node other than the root must be the child of exactly one node, leaves must
have a label and internal nodes must not, and the features of every child
must be those of its parent without the split feature.
*/
func FromNodes(nodes []*Node, options ...Option) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes: %w", ErrMalformedTree)
	}
	parents := make([]int, len(nodes))
	for i := range parents {
		parents[i] = -1
	}
	for i, n := range nodes {
		if n == nil || n.ID != i {
			return nil, fmt.Errorf("node at position %d does not have ID %d: %w", i, i, ErrMalformedTree)
		}
		if n.IsLeaf() != !n.Label.IsAbsent() {
			return nil, fmt.Errorf("node %d: leaves and only leaves must have a label: %w", i, ErrMalformedTree)
		}
		if n.IsLeaf() {
			continue
		}
		if n.SplitIndex < 0 || n.SplitIndex >= len(n.Features) {
			return nil, fmt.Errorf("node %d splits on column %d of %d: %w", i, n.SplitIndex, len(n.Features), ErrMalformedTree)
		}
		for _, cID := range n.Children {
			if cID <= 0 || cID >= len(nodes) || parents[cID] >= 0 {
				return nil, fmt.Errorf("node %d has invalid child %d: %w", i, cID, ErrMalformedTree)
			}
			parents[cID] = i
			if len(nodes[cID].Features) != len(n.Features)-1 {
				return nil, fmt.Errorf("node %d has %d features under a parent with %d: %w", cID, len(nodes[cID].Features), len(n.Features), ErrMalformedTree)
			}
		}
	}
	for i := 1; i < len(nodes); i++ {
		if parents[i] < 0 {
			return nil, fmt.Errorf("node %d is unreachable: %w", i, ErrMalformedTree)
		}
	}
	t := New(options...)
	t.nodes = nodes
	return t, nil
}

/*
Build grows the tree from the given table and returns its root.

A node whose samples share a label becomes a leaf with that label. A node
without features left becomes a leaf labeled with the majority label of its
samples. Any other node is split on the column with the largest information
gain (see dataset.Table.BestSplit) into one child per value observed in that
column, and each child is grown from the corresponding dataset.Table.Split,
which no longer holds the column nor its feature.

Build returns ErrEmptyDataset for tables without samples, ErrAlreadyBuilt if
the tree was already built, and an error wrapping dataset.ErrArityMismatch if
a table reaching any depth has samples and features out of step.
*/
func (t *Tree) Build(tbl *dataset.Table) (*Node, error) {
	if len(t.nodes) > 0 {
		return nil, ErrAlreadyBuilt
	}
	if tbl.Len() == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	_, err := t.build(tbl, feature.Value{}, 0)
	if err != nil {
		t.nodes = nil
		return nil, err
	}
	t.logger.Debug().Int("nodes", len(t.nodes)).Msg("tree built")
	return t.nodes[0], nil
}

func (t *Tree) build(tbl *dataset.Table, parentValue feature.Value, depth int) (*Node, error) {
	if err := tbl.Validate(); err != nil {
		return nil, fmt.Errorf("growing node at depth %d: %w", depth, err)
	}
	n := &Node{
		ID:          len(t.nodes),
		Features:    tbl.Features(),
		SplitIndex:  NoSplit,
		ParentValue: parentValue,
	}
	if !t.discardData {
		n.Data = tbl.Samples()
	}
	t.nodes = append(t.nodes, n)

	if label, ok := tbl.Pure(); ok {
		n.Label = label
		return n, nil
	}
	if tbl.Arity() == 0 {
		label, err := tbl.Majority()
		if err != nil {
			return nil, err
		}
		n.Label = label
		return n, nil
	}

	col, gain, err := tbl.BestSplit()
	if err != nil {
		return nil, fmt.Errorf("growing node %d: %w", n.ID, err)
	}
	n.SplitIndex = col
	n.SplitFeature = n.Features[col]
	t.logger.Debug().
		Int("node", n.ID).
		Int("depth", depth).
		Int("samples", tbl.Len()).
		Int("column", col).
		Str("feature", n.SplitFeature.Name()).
		Float64("gain", gain).
		Msg("splitting node")

	values, err := tbl.ColumnValues(col)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		subset, err := tbl.Split(col, v)
		if err != nil {
			return nil, err
		}
		child, err := t.build(subset, v, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child.ID)
	}
	return n, nil
}

// Root returns the root of the tree or nil if it has not been built.
func (t *Tree) Root() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

// Node returns the node with the given ID or nil if there is none.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Nodes returns all the nodes of the tree indexed by ID.
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Children returns the nodes directly under n.
func (t *Tree) Children(n *Node) []*Node {
	children := make([]*Node, len(n.Children))
	for i, id := range n.Children {
		children[i] = t.nodes[id]
	}
	return children
}

// Features returns the features a sample must provide, in order, to be
// classified by the tree.
func (t *Tree) Features() []feature.Feature {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0].Features
}

/*
Predict takes the feature values of a sample, in the order of the tree's
Features, and returns the label the tree predicts for it.

Starting at the root, while the current node is not a leaf, the sample moves
to the child whose ParentValue equals the sample's value at the node's
SplitIndex, and that value is removed from the sample so its positions keep
matching the child's features.

Predict returns ErrNotBuilt on empty trees, an error wrapping
dataset.ErrArityMismatch when the sample does not have one value per
feature, and an error wrapping ErrNoMatchingBranch when no child of a node
was grown for the sample's value.
*/
func (t *Tree) Predict(sample []feature.Value) (feature.Value, error) {
	n := t.Root()
	if n == nil {
		return feature.Value{}, ErrNotBuilt
	}
	for {
		if len(sample) != n.Arity() {
			return feature.Value{}, fmt.Errorf("node %d expects %d values, got %d: %w", n.ID, n.Arity(), len(sample), dataset.ErrArityMismatch)
		}
		if n.IsLeaf() {
			return n.Label, nil
		}
		if t.leafShortCircuit {
			next, reduced, label, err := t.scanChildren(n, sample)
			if err != nil || !label.IsAbsent() {
				return label, err
			}
			n, sample = next, reduced
			continue
		}
		var next *Node
		for _, id := range n.Children {
			c := t.nodes[id]
			if c.Criterion(n).SatisfiedBy(sample, n.SplitIndex) {
				next = c
				break
			}
		}
		if next == nil {
			return feature.Value{}, noBranch(n, sample[n.SplitIndex])
		}
		sample = without(sample, n.SplitIndex)
		n = next
	}
}

/*
scanChildren walks all the children of n the way LeafShortCircuit trees do.
The first leaf found yields its label. A child matching the sample's value at
n's SplitIndex becomes the next node and the value is dropped from the sample,
but the scan goes on over the remaining children with the reduced sample and
the same index, so a later leaf sibling still wins and a later match replaces
the previous one.
*/
func (t *Tree) scanChildren(n *Node, sample []feature.Value) (*Node, []feature.Value, feature.Value, error) {
	var next *Node
	v := sample[n.SplitIndex]
	for _, id := range n.Children {
		c := t.nodes[id]
		if c.IsLeaf() {
			return nil, nil, c.Label, nil
		}
		if n.SplitIndex >= len(sample) {
			return nil, nil, feature.Value{}, fmt.Errorf("node %d scans column %d of a sample with %d values: %w", n.ID, n.SplitIndex, len(sample), dataset.ErrArityMismatch)
		}
		if c.Criterion(n).SatisfiedBy(sample, n.SplitIndex) {
			next = c
			sample = without(sample, n.SplitIndex)
		}
	}
	if next == nil {
		return nil, nil, feature.Value{}, noBranch(n, v)
	}
	return next, sample, feature.Value{}, nil
}

// without returns a copy of sample without the value at column col.
func without(sample []feature.Value, col int) []feature.Value {
	reduced := make([]feature.Value, 0, len(sample)-1)
	reduced = append(reduced, sample[:col]...)
	return append(reduced, sample[col+1:]...)
}

func noBranch(n *Node, v feature.Value) error {
	return fmt.Errorf("node %d has no branch for %s = %v: %w", n.ID, n.SplitFeature.Name(), v, ErrNoMatchingBranch)
}

/*
Test takes a table and returns three values:
  - the prediction success rate of the tree over the samples of the table
  - the number of samples for which no prediction could be made because of
    ErrNoMatchingBranch errors
  - an error if a prediction failed for other reasons. If this is not nil, the
    other values will be 0.0 and 0 respectively

The features of the table must be those of the tree, in the same order.
*/
func (t *Tree) Test(tbl *dataset.Table) (float64, int, error) {
	if tbl.Len() == 0 {
		return 0.0, 0, dataset.ErrEmptyDataset
	}
	var hits float64
	var errCount int
	for _, s := range tbl.Samples() {
		label, err := t.Predict(s.Values)
		if err != nil {
			if !errors.Is(err, ErrNoMatchingBranch) {
				return 0.0, 0, err
			}
			errCount++
			continue
		}
		if label == s.Label {
			hits += 1.0
		}
	}
	return hits / float64(tbl.Len()), errCount, nil
}

/*
Traverse takes a bottomup boolean and an error-returning function on a node,
and goes through the tree depth-first calling the function with every node.
Traverse calls the function with a parent node before calling it for its
children if bottomup is false, and after its children if bottomup is true.
If the call to the function returns an error, the traversing is aborted and
the error is returned.
*/
func (t *Tree) Traverse(bottomup bool, f func(*Node) error) error {
	n := t.Root()
	if n == nil {
		return ErrNotBuilt
	}
	return t.traverse(n, bottomup, f)
}

func (t *Tree) traverse(n *Node, bottomup bool, f func(*Node) error) error {
	if !bottomup {
		if err := f(n); err != nil {
			return err
		}
	}
	for _, id := range n.Children {
		if err := t.traverse(t.nodes[id], bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(n)
	}
	return nil
}
