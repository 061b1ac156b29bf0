package csv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weather = `outlook,windy,humidity,play
sunny,0,high,no
sunny,1,high,no
overcast,0,high,yes
rain,0,normal,yes
`

func TestReadTableFromHeader(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(weather), nil, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"outlook", "windy", "humidity"}, feature.Names(tbl.Features()))
	assert.Equal(t, 4, tbl.Len())
	first := tbl.Samples()[0]
	assert.Equal(t, []feature.Value{feature.Symbol("sunny"), feature.Number(0), feature.Symbol("high")}, first.Values)
	assert.Equal(t, feature.Symbol("no"), first.Label)
}

func TestReadTableWithFeatures(t *testing.T) {
	features := []feature.Feature{
		feature.NewDiscreteFeature("humidity", []feature.Value{feature.Symbol("high"), feature.Symbol("normal")}),
		feature.NewDiscreteFeature("outlook", nil),
	}
	tbl, err := ReadTable(strings.NewReader(weather), features, "play")
	require.NoError(t, err)

	assert.Equal(t, []string{"humidity", "outlook"}, feature.Names(tbl.Features()))
	assert.Equal(t, []feature.Value{feature.Symbol("high"), feature.Symbol("sunny")}, tbl.Samples()[0].Values)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), nil, "")
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader(weather), nil, "temperature")
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader(weather), []feature.Feature{feature.NewDiscreteFeature("play", nil)}, "play")
	assert.Error(t, err, "the label column cannot be read as a feature")

	restricted := []feature.Feature{feature.NewDiscreteFeature("outlook", []feature.Value{feature.Symbol("sunny")})}
	_, err = ReadTable(strings.NewReader(weather), restricted, "play")
	assert.True(t, errors.Is(err, dataset.ErrInvalidValue))

	_, err = ReadTable(strings.NewReader("a,b\n1,2,3\n"), nil, "")
	assert.Error(t, err)
}

func TestReadTableFromFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte(weather), 0o600))

	tbl, err := ReadTableFromFilePath(path, nil, "play")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Arity())

	_, err = ReadTableFromFilePath(filepath.Join(t.TempDir(), "missing.csv"), nil, "")
	assert.Error(t, err)
}
