package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleCSV = `a,b,c,d,class
2,2,1,0,1
2,2,1,1,0
1,2,1,0,1
0,0,0,0,1
0,0,0,1,0
1,0,0,1,1
2,1,1,0,0
2,0,0,0,1
0,1,0,0,1
2,1,0,1,1
1,2,0,0,0
0,1,1,1,0
`

const exampleMetadata = `label: class
features:
  - name: a
    values: [0, 1, 2]
  - name: b
    values: [0, 1, 2]
  - name: c
    values: [0, 1]
  - name: d
    values: [0, 1]
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := cliParser()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func grownTree(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", exampleCSV)
	metadata := writeFile(t, dir, "metadata.yml", exampleMetadata)
	treePath := filepath.Join(dir, "tree.json")
	out := run(t, "grow", "-i", data, "-m", metadata, "-o", treePath)
	assert.Empty(t, out)
	return treePath, data
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "arbor v0.1.0\n", run(t, "version"))
}

func TestGrowToStdout(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", exampleCSV)
	out := run(t, "grow", "--input", data, "--discard-data")
	assert.True(t, strings.HasPrefix(out, `{"features":["a","b","c","d"],"nodes":[{"id":0,"si":2,"f":"c","c":[1,10]}`), out)
}

func TestGrowAndPredict(t *testing.T) {
	treePath, _ := grownTree(t)

	out := run(t, "predict", "-t", treePath, "2", "2", "1", "0")
	assert.Equal(t, "Predicted class is 1\n", out)

	out = run(t, "predict", "-t", treePath, "--legacy", "2", "2", "1", "0")
	assert.Equal(t, "Predicted class is 0\n", out)
}

func TestGrowAndTest(t *testing.T) {
	treePath, data := grownTree(t)
	out := run(t, "test", "-t", treePath, "-i", data)
	assert.Equal(t, "1.000000 success rate, failed to make a prediction for 0 samples\n", out)
}

func TestShow(t *testing.T) {
	treePath, _ := grownTree(t)

	out := run(t, "show", "-t", treePath)
	assert.True(t, strings.HasPrefix(out, "node 0: split index 2, split feature c, parent value <none>, label <none>\n"), out)
	assert.Equal(t, 18, strings.Count(out, "\n"))

	out = run(t, "show", "-t", treePath, "--format", "ascii")
	assert.True(t, strings.HasPrefix(out, "[0]\n|\n|__[1]\n|  { c is 0 }\n"), out)
}

func TestFlagsFromEnvironment(t *testing.T) {
	treePath, _ := grownTree(t)
	t.Setenv("ARBOR_TREE", treePath)
	t.Setenv("ARBOR_LEGACY", "true")
	out := run(t, "predict", "2", "2", "1", "0")
	assert.Equal(t, "Predicted class is 0\n", out)
}

func TestFlagsFromConfigFile(t *testing.T) {
	treePath, _ := grownTree(t)
	config := writeFile(t, t.TempDir(), "arbor.yml", "tree: "+treePath+"\nformat: ascii\n")
	out := run(t, "show", "--config", config)
	assert.True(t, strings.HasPrefix(out, "[0]\n"), out)
}

type closeFailer struct {
	bytes.Buffer
	err error
}

func (cf *closeFailer) Close() error {
	return cf.err
}

func TestWriteAndClose(t *testing.T) {
	closeErr := errors.New("disk full")
	wc := &closeFailer{err: closeErr}
	err := writeAndClose(wc, func(w io.Writer) error {
		_, err := io.WriteString(w, "tree")
		return err
	})
	assert.Equal(t, closeErr, err)
	assert.Equal(t, "tree", wc.String())

	writeErr := errors.New("encoding failed")
	err = writeAndClose(&closeFailer{err: closeErr}, func(io.Writer) error { return writeErr })
	assert.Equal(t, writeErr, err)

	assert.NoError(t, writeAndClose(&closeFailer{}, func(io.Writer) error { return nil }))
}

func TestShowToFile(t *testing.T) {
	treePath, _ := grownTree(t)
	output := filepath.Join(t.TempDir(), "tree.txt")
	assert.Empty(t, run(t, "show", "-t", treePath, "-o", output))
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 18, strings.Count(string(content), "\n"))
}
