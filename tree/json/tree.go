package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
)

/*
WriteJSONTree takes a pointer to a tree.Tree, a NodeEncodeDecoder and an
io.Writer and serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "label": a string with the name of the label the tree predicts, omitted if
  empty
* "features": an array with the names of the features the tree classifies
  samples with, in column order
* "nodes": an array containing the nodes of the tree ordered by ID
  serialized by the given NodeEncodeDecoder.
An error is returned if the tree is not built, or cannot be serialized or
written onto the io.Writer.
*/
func WriteJSONTree(t *tree.Tree, label string, ned NodeEncodeDecoder, w io.Writer) error {
	if t.Root() == nil {
		return tree.ErrNotBuilt
	}
	err := marshalJSONTreeHeader(t, label, w)
	if err != nil {
		return err
	}
	for i, n := range t.Nodes() {
		err = writeNode(i, n, ned, w)
		if err != nil {
			return fmt.Errorf("writing node %d: %w", n.ID, err)
		}
	}
	return marshalJSONTreeFooter(w)
}

/*
ReadJSONTree takes a NodeEncodeDecoder, a slice of features and an io.Reader
and returns the tree unmarshalled from the contents of the io.Reader, along
with the name of its label, or an error.
The tree is expected to be a JSON object as written by WriteJSONTree. The
features it names are looked up by name among the given ones, names not found
there get a discrete feature without value restrictions.
The options are applied to the returned tree.
*/
func ReadJSONTree(ned NodeEncodeDecoder, features []feature.Feature, r io.Reader, options ...tree.Option) (*tree.Tree, string, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		Label    string             `json:"label"`
		Features []string           `json:"features"`
		Nodes    []*json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return nil, "", err
	}
	if len(jt.Nodes) == 0 {
		return nil, "", fmt.Errorf("no nodes available: %w", tree.ErrMalformedTree)
	}
	nodes := make([]*tree.Node, len(jt.Nodes))
	for i, jn := range jt.Nodes {
		if jn == nil {
			return nil, "", fmt.Errorf("node #%d is null: %w", i, tree.ErrMalformedTree)
		}
		n, err := ned.Decode(*jn)
		if err != nil {
			return nil, "", fmt.Errorf("decoding node #%d: %w", i, err)
		}
		if n.ID != i {
			return nil, "", fmt.Errorf("node #%d has ID %d: %w", i, n.ID, tree.ErrMalformedTree)
		}
		nodes[i] = n
	}
	err = assignFeatures(nodes, resolveFeatures(jt.Features, features))
	if err != nil {
		return nil, "", err
	}
	t, err := tree.FromNodes(nodes, options...)
	if err != nil {
		return nil, "", err
	}
	return t, jt.Label, nil
}

/*
Marshal returns the JSON encoding of the given tree and label as written by
WriteJSONTree with the default NodeEncodeDecoder.
*/
func Marshal(t *tree.Tree, label string) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := WriteJSONTree(t, label, NewNodeEncodeDecoder(), buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/*
Unmarshal is the inverse of Marshal. It returns the decoded tree and label.
*/
func Unmarshal(data []byte, features []feature.Feature, options ...tree.Option) (*tree.Tree, string, error) {
	return ReadJSONTree(NewNodeEncodeDecoder(), features, bytes.NewReader(data), options...)
}

func resolveFeatures(names []string, known []feature.Feature) []feature.Feature {
	byName := make(map[string]feature.Feature, len(known))
	for _, f := range known {
		byName[f.Name()] = f
	}
	result := make([]feature.Feature, len(names))
	for i, name := range names {
		f, ok := byName[name]
		if !ok {
			f = feature.NewDiscreteFeature(name, nil)
		}
		result[i] = f
	}
	return result
}

// assignFeatures sets the features of every node from those of the root,
// removing the split feature of each internal node from its children.
func assignFeatures(nodes []*tree.Node, rootFeatures []feature.Feature) error {
	nodes[0].Features = rootFeatures
	assigned := make([]bool, len(nodes))
	assigned[0] = true
	queue := []*tree.Node{nodes[0]}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.IsLeaf() {
			n.SplitFeature = nil
			continue
		}
		if n.SplitIndex < 0 || n.SplitIndex >= len(n.Features) {
			return fmt.Errorf("node %d splits on column %d of %d: %w", n.ID, n.SplitIndex, len(n.Features), tree.ErrMalformedTree)
		}
		sf := n.Features[n.SplitIndex]
		if n.SplitFeature != nil && n.SplitFeature.Name() != "" && n.SplitFeature.Name() != sf.Name() {
			return fmt.Errorf("node %d splits on %q but column %d is %q: %w", n.ID, n.SplitFeature.Name(), n.SplitIndex, sf.Name(), tree.ErrMalformedTree)
		}
		n.SplitFeature = sf
		childFeatures := make([]feature.Feature, 0, len(n.Features)-1)
		childFeatures = append(childFeatures, n.Features[:n.SplitIndex]...)
		childFeatures = append(childFeatures, n.Features[n.SplitIndex+1:]...)
		for _, id := range n.Children {
			if id <= 0 || id >= len(nodes) || assigned[id] {
				return fmt.Errorf("node %d has invalid child %d: %w", n.ID, id, tree.ErrMalformedTree)
			}
			assigned[id] = true
			nodes[id].Features = childFeatures
			queue = append(queue, nodes[id])
		}
	}
	return nil
}

func marshalJSONTreeHeader(t *tree.Tree, label string, w io.Writer) error {
	jFeatures, err := json.Marshal(feature.Names(t.Features()))
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"features":%s,"nodes":[`, jFeatures)
	if label != "" {
		jLabel, err := json.Marshal(label)
		if err != nil {
			return err
		}
		header = fmt.Sprintf(`{"label":%s,"features":%s,"nodes":[`, jLabel, jFeatures)
	}
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(i int, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}

func marshalJSONTreeFooter(w io.Writer) error {
	_, err := w.Write([]byte(`]}`))
	return err
}
