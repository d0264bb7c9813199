package scc

import (
	"context"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// NaiveDfs recomputes reachability after every insertion: when the new
// edge connects two components it intersects the forward and backward
// reach of u. O(m(n+m)) total; the differential-test oracle for every
// other algorithm, so its exact behaviour is kept as is.
type NaiveDfs struct {
	*core
	reversedGraph *graph.Graph
	visited       []int
}

// NewNaiveDfs creates the baseline algorithm over noVertices vertices.
func NewNaiveDfs(noVertices int) *NaiveDfs {
	c := newCore(noVertices)
	return &NaiveDfs{
		core:          c,
		reversedGraph: c.graph.CloneEmpty(),
		visited:       make([]int, noVertices),
	}
}

// Run implements Algorithm.
func (a *NaiveDfs) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

func (a *NaiveDfs) preprocessEdge(u, v *graph.Vertex) {
	a.graph.AddEdge(u, v)
	a.reversedGraph.AddEdge(v, u)
}

func (a *NaiveDfs) dfs(source *graph.Vertex, g *graph.Graph, storeEncountered bool) []*graph.Vertex {
	var encountered []*graph.Vertex
	toBeConsidered := []*graph.Vertex{source}
	a.visited[source.ID] = a.traversals

	for len(toBeConsidered) > 0 {
		current := toBeConsidered[len(toBeConsidered)-1]
		toBeConsidered = toBeConsidered[:len(toBeConsidered)-1]
		if storeEncountered {
			encountered = append(encountered, current)
		}

		for e := g.Neighbours(current).Front(); e != nil; e = e.Next() {
			if a.visited[e.Vertex.ID] != a.traversals {
				a.visited[e.Vertex.ID] = a.traversals
				toBeConsidered = append(toBeConsidered, e.Vertex)
			}
		}
	}

	return encountered
}

func (a *NaiveDfs) algorithmStep(u, v *graph.Vertex) {
	// Vertices already in the same SCC.
	if a.findRepresentativeVertex(u) == a.findRepresentativeVertex(v) {
		return
	}

	a.traversals++
	encountered := a.dfs(u, a.graph, true)
	a.traversals++
	a.dfs(u, a.reversedGraph, false)

	// Vertices belonging to SCC of u are exactly those who are reachable
	// from u and can reach u.
	for _, w := range encountered {
		if a.visited[w.ID] == a.traversals {
			a.findUnion.Union(u.ID, w.ID)
		}
	}
}
