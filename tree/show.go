package tree

import (
	"fmt"
	"io"
	"strings"
)

/*
Show writes to w one line per node of the tree in breadth-first order,
starting at the root, with its split index, split feature, the value of the
parent's split feature routing to it and its label. It returns ErrNotBuilt
on empty trees or the first error returned when writing to w.
*/
func (t *Tree) Show(w io.Writer) error {
	root := t.Root()
	if root == nil {
		return ErrNotBuilt
	}
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		splitFeature := "<none>"
		if n.SplitFeature != nil {
			splitFeature = n.SplitFeature.Name()
		}
		_, err := fmt.Fprintf(w, "node %d: split index %d, split feature %s, parent value %v, label %v\n",
			n.ID, n.SplitIndex, splitFeature, n.ParentValue, n.Label)
		if err != nil {
			return err
		}
		queue = append(queue, t.Children(n)...)
	}
	return nil
}

// String returns an ASCII drawing of the tree.
func (t *Tree) String() string {
	root := t.Root()
	if root == nil {
		return "[empty tree]\n"
	}
	return t.subtreeString(root, nil)
}

func (t *Tree) subtreeString(n, parent *Node) string {
	result := fmt.Sprintf("[%d]\n", n.ID)
	if parent != nil {
		result = fmt.Sprintf("%s{ %v }\n", result, n.Criterion(parent))
	}
	if n.IsLeaf() {
		result = fmt.Sprintf("%s{ predict %v }\n \n", result, n.Label)
		return result
	}
	result = fmt.Sprintf("%s|\n", result)
	for i, c := range t.Children(n) {
		for j, line := range strings.Split(t.subtreeString(c, n), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(n.Children)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
