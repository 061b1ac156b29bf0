package json

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherTree(t *testing.T) (*tree.Tree, []feature.Feature) {
	t.Helper()
	s := feature.Symbol
	features := []feature.Feature{
		feature.NewDiscreteFeature("outlook", []feature.Value{s("sunny"), s("overcast"), s("rainy")}),
		feature.NewDiscreteFeature("windy", []feature.Value{s("true"), s("false")}),
		feature.NewDiscreteFeature("humidity", []feature.Value{feature.Number(1), feature.Number(2)}),
	}
	tbl, err := dataset.FromRows(features, [][]feature.Value{
		{s("sunny"), s("false"), feature.Number(2), s("no")},
		{s("sunny"), s("true"), feature.Number(1), s("yes")},
		{s("overcast"), s("false"), feature.Number(2), s("yes")},
		{s("rainy"), s("false"), feature.Number(1), s("yes")},
		{s("rainy"), s("true"), feature.Number(2), s("no")},
		{s("overcast"), s("true"), feature.Number(1), s("yes")},
	})
	require.NoError(t, err)
	tr := tree.New()
	_, err = tr.Build(tbl)
	require.NoError(t, err)
	return tr, features
}

func TestRoundTrip(t *testing.T) {
	tr, features := weatherTree(t)
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSONTree(tr, "play", NewNodeEncodeDecoder(), buf))
	assert.True(t, strings.HasPrefix(buf.String(), `{"label":"play","features":["outlook","windy","humidity"],"nodes":[`))

	decoded, label, err := ReadJSONTree(NewNodeEncodeDecoder(), features, buf)
	require.NoError(t, err)
	assert.Equal(t, "play", label)
	assert.Equal(t, tr.String(), decoded.String())
	assert.Same(t, features[0], decoded.Features()[0])

	for _, n := range decoded.Nodes() {
		original := tr.Node(n.ID)
		assert.Equal(t, feature.Names(original.Features), feature.Names(n.Features), "node %d", n.ID)
		assert.Empty(t, n.Data)
	}

	s := feature.Symbol
	for _, sample := range [][]feature.Value{
		{s("sunny"), s("false"), feature.Number(2)},
		{s("rainy"), s("true"), feature.Number(1)},
		{s("overcast"), s("true"), feature.Number(2)},
	} {
		want, wantErr := tr.Predict(sample)
		got, gotErr := decoded.Predict(sample)
		assert.Equal(t, want, got)
		assert.Equal(t, wantErr, gotErr)
	}
}

func TestMarshalWithoutKnownFeatures(t *testing.T) {
	tr, _ := weatherTree(t)
	data, err := Marshal(tr, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"features":`))

	decoded, label, err := Unmarshal(data, nil, tree.LeafShortCircuit())
	require.NoError(t, err)
	assert.Equal(t, "", label)
	assert.Equal(t, []string{"outlook", "windy", "humidity"}, feature.Names(decoded.Features()))
}

func TestNodeEncoding(t *testing.T) {
	ned := NewNodeEncodeDecoder()
	features := feature.Indexed(2)

	internal := &tree.Node{ID: 3, Features: features, SplitIndex: 1, SplitFeature: features[1], ParentValue: feature.Symbol("a"), Children: []int{4, 5}}
	data, err := ned.Encode(internal)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"pv":"a","si":1,"f":"1","c":[4,5]}`, string(data))
	n, err := ned.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, n.SplitIndex)
	assert.Equal(t, "1", n.SplitFeature.Name())
	assert.Equal(t, []int{4, 5}, n.Children)
	assert.True(t, n.Label.IsAbsent())

	leaf := &tree.Node{ID: 4, SplitIndex: tree.NoSplit, ParentValue: feature.Number(0), Label: feature.Number(1)}
	data, err = ned.Encode(leaf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"pv":0,"l":1}`, string(data))
	n, err = ned.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, tree.NoSplit, n.SplitIndex)
	assert.Nil(t, n.SplitFeature)
	assert.Equal(t, feature.Number(1), n.Label)
}

func TestReadErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"no nodes":          `{"features":["a"],"nodes":[]}`,
		"misplaced node":    `{"features":[],"nodes":[{"id":1,"l":1}]}`,
		"bad split index":   `{"features":["a"],"nodes":[{"id":0,"si":3,"f":"a","c":[1]},{"id":1,"pv":0,"l":1}]}`,
		"renamed feature":   `{"features":["a"],"nodes":[{"id":0,"si":0,"f":"b","c":[1]},{"id":1,"pv":0,"l":1}]}`,
		"shared child":      `{"features":["a"],"nodes":[{"id":0,"si":0,"f":"a","c":[1,1]},{"id":1,"pv":0,"l":1}]}`,
		"unlabeled leaf":    `{"features":["a"],"nodes":[{"id":0,"si":0,"f":"a","c":[1]},{"id":1,"pv":0}]}`,
		"unreachable child": `{"features":[],"nodes":[{"id":0,"l":1},{"id":1,"l":1}]}`,
	} {
		_, _, err := Unmarshal([]byte(doc), nil)
		assert.True(t, errors.Is(err, tree.ErrMalformedTree), "%s: %v", name, err)
	}

	_, _, err := Unmarshal([]byte(`{`), nil)
	assert.Error(t, err)

	assert.Equal(t, tree.ErrNotBuilt, WriteJSONTree(tree.New(), "", NewNodeEncodeDecoder(), &bytes.Buffer{}))
}
