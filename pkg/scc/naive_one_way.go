package scc

import (
	"context"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// NaiveOneWaySearch is the naive variant of the one-way search of Bender,
// Fineman, Gilbert and Tarjan: a forward search from v bounded by the
// level of u, followed by an eager level propagation. O(mn) total.
type NaiveOneWaySearch struct {
	*core
	traversalSteps int
	visited        []int
	level          []int
	reachesTarget  []int
	reachedTarget  []*graph.Vertex
	visitedEdge    *graph.EdgeMemo
}

// NewNaiveOneWaySearch creates the algorithm over noVertices vertices.
func NewNaiveOneWaySearch(noVertices int) *NaiveOneWaySearch {
	a := &NaiveOneWaySearch{
		core:          newCore(noVertices),
		visited:       make([]int, noVertices),
		level:         make([]int, noVertices),
		reachesTarget: make([]int, noVertices),
		visitedEdge:   graph.NewEdgeMemo(),
	}
	for i := range a.level {
		a.level[i] = 1
	}
	return a
}

// Run implements Algorithm.
func (a *NaiveOneWaySearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

// detectNewSCC searches forward from start within levels below the level
// of target, collecting every vertex that reaches target. The traversal
// keeps an explicit frame stack; each frame owns the dedup timestamp of
// its source vertex.
func (a *NaiveOneWaySearch) detectNewSCC(start, target *graph.Vertex) {
	type frame struct {
		current   *graph.Vertex
		elem      *graph.NeighbourElem
		timestamp int
		pending   *graph.Vertex
	}

	open := func(current *graph.Vertex) frame {
		a.traversalSteps++
		a.visited[current.ID] = a.traversals
		return frame{
			current:   current,
			elem:      a.graph.Neighbours(current).Front(),
			timestamp: a.traversalSteps,
		}
	}

	stack := []frame{open(start)}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.pending != nil {
			if a.reachesTarget[f.pending.ID] == a.traversals {
				a.reachesTarget[f.current.ID] = a.traversals
			}
			f.pending = nil
		}

		if f.elem == nil {
			if a.reachesTarget[f.current.ID] == a.traversals {
				a.reachedTarget = append(a.reachedTarget, f.current)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		elem := f.elem
		repr := a.findRepresentativeVertex(elem.Vertex)
		// Remove loop / duplicated edge.
		if repr == f.current || a.visitedEdge.Seen(f.current.ID, repr.ID, f.timestamp) {
			f.elem = elem.Next()
			a.graph.EraseNeighbour(f.current, elem)
			continue
		}
		a.visitedEdge.Mark(f.current.ID, repr.ID, f.timestamp)
		f.elem = elem.Next()

		if a.visited[repr.ID] != a.traversals {
			if a.level[repr.ID] < a.level[target.ID] {
				f.pending = repr
				stack = append(stack, open(repr))
				continue
			}
			if repr == target {
				a.reachesTarget[repr.ID] = a.traversals
				a.reachedTarget = append(a.reachedTarget, repr)
			}
			a.visited[repr.ID] = a.traversals
		}

		if a.reachesTarget[repr.ID] == a.traversals {
			a.reachesTarget[f.current.ID] = a.traversals
		}
	}
}

// updateLevels propagates the level bump of start to every descendant
// whose level is not strictly larger.
func (a *NaiveOneWaySearch) updateLevels(start *graph.Vertex) {
	type frame struct {
		current   *graph.Vertex
		elem      *graph.NeighbourElem
		timestamp int
	}

	open := func(current *graph.Vertex) frame {
		a.traversalSteps++
		return frame{
			current:   current,
			elem:      a.graph.Neighbours(current).Front(),
			timestamp: a.traversalSteps,
		}
	}

	stack := []frame{open(start)}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.elem == nil {
			stack = stack[:len(stack)-1]
			continue
		}

		elem := f.elem
		repr := a.findRepresentativeVertex(elem.Vertex)
		// Remove loop / duplicated edge.
		if repr == f.current || a.visitedEdge.Seen(f.current.ID, repr.ID, f.timestamp) {
			f.elem = elem.Next()
			a.graph.EraseNeighbour(f.current, elem)
			continue
		}
		a.visitedEdge.Mark(f.current.ID, repr.ID, f.timestamp)
		f.elem = elem.Next()

		if a.level[repr.ID] <= a.level[f.current.ID] {
			a.level[repr.ID] = a.level[f.current.ID] + 1
			stack = append(stack, open(repr))
		}
	}
}

func (a *NaiveOneWaySearch) algorithmStep(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if a.level[u.ID] < a.level[v.ID] || u == v {
		return
	}

	a.traversals++
	a.detectNewSCC(v, u)
	a.mergeIntoComponent(a.reachedTarget, []*graph.Graph{a.graph})

	if len(a.reachedTarget) == 0 {
		a.level[v.ID] = a.level[u.ID] + 1
	} else {
		updatedLevel := max(a.level[u.ID], a.level[v.ID]+len(a.reachedTarget)-1)
		v = a.findRepresentativeVertex(v)
		a.level[v.ID] = updatedLevel
	}
	a.updateLevels(v)
}

func (a *NaiveOneWaySearch) postprocessEdge(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if u != v {
		a.graph.AddEdge(u, v)
	}

	a.reachedTarget = a.reachedTarget[:0]
	// The memo only grows, so drop it once it gets too big.
	if a.visitedEdge.Len() >= maxVisitedEdges {
		a.visitedEdge.Reset()
	}
}
