package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/arbor/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weather = `
label: play
features:
  - name: outlook
    values: [sunny, overcast, rain]
  - name: humidity
    values: [0, 1]
  - name: windy
`

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata([]byte(weather))
	require.NoError(t, err)

	assert.Equal(t, "play", md.Label)
	assert.Equal(t, []string{"outlook", "humidity", "windy"}, feature.Names(md.Features))

	outlook := md.Features[0].(*feature.DiscreteFeature)
	assert.Equal(t, []feature.Value{feature.Symbol("sunny"), feature.Symbol("overcast"), feature.Symbol("rain")}, outlook.AvailableValues())

	humidity := md.Features[1].(*feature.DiscreteFeature)
	ok, err := humidity.Valid(feature.Number(1))
	assert.True(t, ok)
	assert.NoError(t, err)

	windy := md.Features[2].(*feature.DiscreteFeature)
	assert.Empty(t, windy.AvailableValues())
}

func TestReadMetadataErrors(t *testing.T) {
	cases := map[string]string{
		"no features":   "label: play\n",
		"continuous":    "features:\n  - name: temp\n    type: continuous\n",
		"unknown type":  "features:\n  - name: temp\n    type: fuzzy\n",
		"unnamed":       "features:\n  - values: [1, 2]\n",
		"duplicated":    "features:\n  - name: a\n  - name: a\n",
		"label feature": "label: a\nfeatures:\n  - name: a\n",
		"malformed":     "features: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMetadata([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestReadMetadataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte(weather), 0o600))

	md, err := ReadMetadataFromFile(path)
	require.NoError(t, err)
	assert.Len(t, md.Features, 3)

	_, err = ReadMetadataFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
