package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

func writeEdgeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.txt")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadEdgesFromFile(t *testing.T) {
	assert := assert.New(t)

	path := writeEdgeFile(t, "0 1\n1 2\n\n2   0\n")
	edges, err := readEdgesFromFile(path)
	assert.NoError(err)
	assert.Equal([]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 0}}, edges)
}

func TestReadEdgesFromFileAnyWhitespace(t *testing.T) {
	assert := assert.New(t)

	path := writeEdgeFile(t, "0 1 1\t2 2\n0")
	edges, err := readEdgesFromFile(path)
	assert.NoError(err)
	assert.Equal([]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 0}}, edges)
}

func TestReadEdgesFromFileMissing(t *testing.T) {
	_, err := readEdgesFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorContains(t, err, "error opening file")
}

func TestReadEdgesFromFileMalformed(t *testing.T) {
	path := writeEdgeFile(t, "0 one\n")
	_, err := readEdgesFromFile(path)
	assert.ErrorContains(t, err, "malformed vertex id")
}

func TestMaximumVertexID(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, maximumVertexID(nil))
	assert.Equal(7, maximumVertexID([]graph.Edge{{U: 3, V: 7}, {U: 1, V: 0}}))
}
