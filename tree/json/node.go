package json

import (
	"encoding/json"

	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	// and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	//Decoded nodes have no Features and their SplitFeature
	//only carries the recorded name, the actual features
	//depend on the position of the node in its tree.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID          int            `json:"id"`
	ParentValue *feature.Value `json:"pv,omitempty"`
	SplitIndex  *int           `json:"si,omitempty"`
	SplitName   string         `json:"f,omitempty"`
	Children    []int          `json:"c,omitempty"`
	Label       *feature.Value `json:"l,omitempty"`
}

// NewNodeEncodeDecoder returns a NodeEncodeDecoder that encodes nodes as
// JSON objects. The samples of nodes are not encoded.
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return nodeEncodeDecoder{}
}

func (nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{ID: n.ID, Children: n.Children}
	if !n.ParentValue.IsAbsent() {
		pv := n.ParentValue
		jn.ParentValue = &pv
	}
	if !n.Label.IsAbsent() {
		l := n.Label
		jn.Label = &l
	}
	if !n.IsLeaf() {
		si := n.SplitIndex
		jn.SplitIndex = &si
		if n.SplitFeature != nil {
			jn.SplitName = n.SplitFeature.Name()
		}
	}
	return json.Marshal(jn)
}

func (nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:         jn.ID,
		SplitIndex: tree.NoSplit,
		Children:   jn.Children,
	}
	if jn.ParentValue != nil {
		n.ParentValue = *jn.ParentValue
	}
	if jn.Label != nil {
		n.Label = *jn.Label
	}
	if jn.SplitIndex != nil {
		n.SplitIndex = *jn.SplitIndex
		n.SplitFeature = feature.NewDiscreteFeature(jn.SplitName, nil)
	}
	return n, nil
}
