package tree

import (
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

// NoSplit is the SplitIndex of leaves.
const NoSplit = -1

/*
Node is a node of the tree. Nodes live in the arena of their Tree and refer
to each other by ID.

A node is a leaf iff it has no children iff its Label is not absent.
*/
type Node struct {
	// Position of the node in the arena of its tree. The root has ID 0.
	ID int
	// The samples that reached this node, reduced to its features. Empty
	// when the tree was grown with DiscardData.
	Data []dataset.Sample
	// The features available at this node, in column order. Samples
	// reaching the node have one value per feature.
	Features []feature.Feature
	// The column, among Features, on which the node splits its samples.
	// NoSplit for leaves.
	SplitIndex int
	// Features[SplitIndex], nil for leaves.
	SplitFeature feature.Feature
	// The value of the parent's split feature that routes samples to this
	// node. Absent for the root.
	ParentValue feature.Value
	// IDs of the nodes directly under this node, one per value observed for
	// the split feature, in feature.Compare order of their ParentValue.
	Children []int
	// The predicted class, set only on leaves.
	Label feature.Value
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Arity returns the number of feature values a sample must have when it
// reaches this node.
func (n *Node) Arity() int {
	return len(n.Features)
}

/*
Criterion returns the constraint the node imposes on samples given its
parent: the parent's split feature must take the node's ParentValue.
*/
func (n *Node) Criterion(parent *Node) feature.Criterion {
	var f feature.Feature
	if parent != nil {
		f = parent.SplitFeature
	}
	return feature.Criterion{Feature: f, Value: n.ParentValue}
}
