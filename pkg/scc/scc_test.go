package scc

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gotestassert "gotest.tools/v3/assert"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

func edgeList(pairs ...[2]int) []graph.Edge {
	edges := make([]graph.Edge, 0, len(pairs))
	for _, pair := range pairs {
		edges = append(edges, graph.Edge{U: pair[0], V: pair[1]})
	}
	return edges
}

func noVerticesOf(edges []graph.Edge) int {
	maxID := 0
	for _, edge := range edges {
		maxID = max(maxID, max(edge.U, edge.V))
	}
	return maxID + 1
}

// runByName builds the named algorithm with a freshly seeded rng, feeds it
// the edges and returns the printed partition.
func runByName(t *testing.T, name string, edges []graph.Edge) string {
	t.Helper()
	rng := rand.New(rand.NewSource(123))
	noVertices := noVerticesOf(edges)
	algorithm, err := New(name, noVertices, rng)
	assert.NoError(t, err)

	algorithm.Run(context.Background(), edges)
	var buf bytes.Buffer
	algorithm.PrintSCCs(&buf, noVertices)
	return buf.String()
}

func TestFactoryKnowsAllAlgorithms(t *testing.T) {
	assert := assert.New(t)

	expected := []string{
		"compatible_search",
		"limited_search",
		"naive_dfs",
		"naive_one_way_search",
		"one_way_search",
		"sample_search",
		"soft_threshold_search",
		"soft_threshold_search_basic_list",
		"soft_threshold_search_treap",
		"sparsified_sample_search",
		"topological_search",
		"two_way_search",
	}
	assert.Equal(expected, Names())

	_, err := New("no_such_search", 3, rand.New(rand.NewSource(123)))
	assert.ErrorContains(err, "unknown algorithm")
}

func TestAllAlgorithmsOnKnownScenarios(t *testing.T) {
	scenarios := []struct {
		name     string
		edges    []graph.Edge
		expected string
	}{
		{
			name:     "triangle",
			edges:    edgeList([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}),
			expected: "0 1 2 \n",
		},
		{
			name:     "two chains",
			edges:    edgeList([2]int{0, 1}, [2]int{2, 3}),
			expected: "0 \n1 \n2 \n3 \n",
		},
		{
			name:     "two components",
			edges:    edgeList([2]int{0, 1}, [2]int{1, 0}, [2]int{1, 2}, [2]int{2, 1}, [2]int{3, 4}),
			expected: "0 1 2 \n3 \n4 \n",
		},
		{
			name:     "tail into cycle",
			edges:    edgeList([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 1}),
			expected: "0 \n1 2 3 \n",
		},
		{
			name:     "long cycle",
			edges:    edgeList([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 0}),
			expected: "0 1 2 3 4 \n",
		},
		{
			name:     "duplicate edges",
			edges:    edgeList([2]int{0, 1}, [2]int{0, 1}, [2]int{1, 0}),
			expected: "0 1 \n",
		},
		{
			name:     "self loop",
			edges:    edgeList([2]int{0, 0}, [2]int{0, 1}),
			expected: "0 \n1 \n",
		},
	}

	for _, algorithmName := range Names() {
		for _, scenario := range scenarios {
			t.Run(fmt.Sprintf("%s/%s", algorithmName, scenario.name), func(t *testing.T) {
				gotestassert.Equal(t, scenario.expected, runByName(t, algorithmName, scenario.edges))
			})
		}
	}
}

func randomEdges(rng *rand.Rand, noVertices, noEdges int) []graph.Edge {
	edges := make([]graph.Edge, 0, noEdges)
	for i := 0; i < noEdges; i++ {
		edges = append(edges, graph.Edge{U: rng.Intn(noVertices), V: rng.Intn(noVertices)})
	}
	// Pin the vertex count so that every algorithm sees the same range.
	edges = append(edges, graph.Edge{U: noVertices - 1, V: noVertices - 1})
	return edges
}

func TestAllAlgorithmsMatchNaiveDfs(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for round := 0; round < 60; round++ {
		noVertices := 2 + rng.Intn(6)
		noEdges := 1 + rng.Intn(3*noVertices)
		edges := randomEdges(rng, noVertices, noEdges)

		expected := runByName(t, "naive_dfs", edges)
		for _, algorithmName := range Names() {
			if algorithmName == "naive_dfs" {
				continue
			}
			actual := runByName(t, algorithmName, edges)
			assert.Equalf(t, expected, actual, "%s diverged on %v", algorithmName, edges)
		}
	}
}

func TestDuplicateEdgeIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for round := 0; round < 15; round++ {
		noVertices := 2 + rng.Intn(5)
		edges := randomEdges(rng, noVertices, 2*noVertices)
		duplicated := append(append([]graph.Edge{}, edges...), edges[rng.Intn(len(edges))])

		for _, algorithmName := range Names() {
			assert.Equalf(t, runByName(t, algorithmName, edges), runByName(t, algorithmName, duplicated),
				"%s not idempotent on %v", algorithmName, edges)
		}
	}
}

// partitionOf parses the printed output back into id -> component-minimum.
func partitionOf(t *testing.T, output string) map[int]int {
	t.Helper()
	componentOf := make(map[int]int)
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		fields := strings.Fields(line)
		assert.NotEmpty(t, fields)
		var ids []int
		for _, field := range fields {
			var id int
			_, err := fmt.Sscanf(field, "%d", &id)
			assert.NoError(t, err)
			ids = append(ids, id)
		}
		for _, id := range ids {
			componentOf[id] = ids[0]
		}
	}
	return componentOf
}

func TestComponentsOnlyGetCoarser(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	edges := randomEdges(rng, 6, 18)

	for _, algorithmName := range Names() {
		previous := map[int]int{}
		for prefix := 1; prefix <= len(edges); prefix++ {
			current := partitionOf(t, runByName(t, algorithmName, edges[:prefix]))
			for x, minX := range previous {
				for y, minY := range previous {
					if minX == minY {
						assert.Equalf(t, current[x], current[y],
							"%s split %d and %d after more edges", algorithmName, x, y)
					}
				}
			}
			previous = current
		}
	}
}

func TestPrintSCCsCanonicalisation(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(11))
	edges := randomEdges(rng, 7, 20)
	output := runByName(t, "naive_dfs", edges)

	seen := make(map[int]bool)
	previousMin := -1
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		assert.True(strings.HasSuffix(line, " "))
		fields := strings.Fields(line)
		var ids []int
		for _, field := range fields {
			var id int
			fmt.Sscanf(field, "%d", &id)
			ids = append(ids, id)
		}

		minID := ids[0]
		for _, id := range ids {
			assert.False(seen[id], "id %d printed twice", id)
			seen[id] = true
			assert.LessOrEqual(minID, id)
		}
		assert.Greater(minID, previousMin)
		previousMin = minID
	}
	for id := 0; id < 7; id++ {
		assert.True(seen[id], "id %d missing from output", id)
	}
}

// inOrder reports whether the id is currently present in the order; the
// probe relies on comparisons with missing elements halting the process.
func inOrder(o order.Order, x int) (present bool) {
	defer func() {
		if recover() != nil {
			present = false
		}
	}()
	o.IsBefore(x, x)
	return true
}

func TestLimitedSearchMaintainsTopologicalOrder(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(31))
	for round := 0; round < 10; round++ {
		noVertices := 3 + rng.Intn(5)
		edges := randomEdges(rng, noVertices, 2*noVertices)

		a := NewLimitedSearch(noVertices, rand.New(rand.NewSource(123)))
		a.Run(context.Background(), edges)

		for _, edge := range edges {
			uRepr := a.findUnion.FindRepresentant(edge.U)
			vRepr := a.findUnion.FindRepresentant(edge.V)
			if uRepr != vRepr {
				assert.Truef(a.order.IsBefore(uRepr, vRepr),
					"edge (%d, %d) contradicts the order", edge.U, edge.V)
			}
		}

		// Only canonical representatives stay in the order.
		for id := 0; id < noVertices; id++ {
			assert.Equal(a.findUnion.FindRepresentant(id) == id, inOrder(a.order, id))
		}
	}
}

func TestHaeuplerSearchesMaintainTopologicalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(47))
	for round := 0; round < 10; round++ {
		noVertices := 3 + rng.Intn(5)
		edges := randomEdges(rng, noVertices, 2*noVertices)

		compatible := NewCompatibleSearch(noVertices, order.NewTwoLevelList(noVertices))
		compatible.Run(context.Background(), edges)
		softThreshold := NewSoftThresholdSearch(noVertices, order.NewTwoLevelList(noVertices),
			rand.New(rand.NewSource(123)))
		softThreshold.Run(context.Background(), edges)

		searches := map[string]*haeuplerSearch{
			"compatible":     compatible.haeuplerSearch,
			"soft_threshold": softThreshold.haeuplerSearch,
		}

		for name, h := range searches {
			for _, edge := range edges {
				uRepr := h.findUnion.FindRepresentant(edge.U)
				vRepr := h.findUnion.FindRepresentant(edge.V)
				if uRepr != vRepr {
					assert.Truef(t, h.order.IsBefore(uRepr, vRepr),
						"%s: edge (%d, %d) contradicts the order", name, edge.U, edge.V)
				}
			}
			for id := 0; id < noVertices; id++ {
				assert.Equalf(t, h.findUnion.FindRepresentant(id) == id, inOrder(h.order, id),
					"%s: representative stability of %d", name, id)
			}
		}
	}
}
