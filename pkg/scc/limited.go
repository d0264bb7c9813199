package scc

import (
	"context"
	"math/rand"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// LimitedSearch implements the limited search of Haeupler, Kavitha,
// Mathew, Sen and Tarjan adjusted for SCC maintenance: a forward DFS from
// v bounded to vertices preceding u in the maintained topological order.
// O(mn) total.
type LimitedSearch struct {
	*core
	dummyID       int
	order         *order.Treap
	visited       []int
	reachesTarget []int
	reachedTarget []*graph.Vertex
	postorder     []*graph.Vertex
	visitedEdge   *graph.EdgeMemo
}

// NewLimitedSearch creates the algorithm over noVertices vertices. The
// treap order reserves one extra slot for the reordering anchor.
func NewLimitedSearch(noVertices int, rng *rand.Rand) *LimitedSearch {
	a := &LimitedSearch{
		core:          newCore(noVertices),
		dummyID:       noVertices,
		order:         order.NewTreap(noVertices+1, rng),
		visited:       make([]int, noVertices),
		reachesTarget: make([]int, noVertices),
		visitedEdge:   graph.NewEdgeMemo(),
	}
	a.order.Remove(noVertices)
	return a
}

// Run implements Algorithm.
func (a *LimitedSearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

// dfs explores forward from start, restricted to vertices ordered before
// target, recording a postorder and the set reaching target.
func (a *LimitedSearch) dfs(start, target *graph.Vertex) {
	type frame struct {
		current *graph.Vertex
		elem    *graph.NeighbourElem
		pending *graph.Vertex
	}

	open := func(current *graph.Vertex) frame {
		a.visited[current.ID] = a.traversals
		return frame{current: current, elem: a.graph.Neighbours(current).Front()}
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
			a.postorder = append(a.postorder, f.current)
			stack = stack[:len(stack)-1]
			continue
		}

		elem := f.elem
		repr := a.findRepresentativeVertex(elem.Vertex)
		// Remove loop / duplicated edge.
		if repr == f.current || a.visitedEdge.Seen(f.current.ID, repr.ID, a.traversals) {
			f.elem = elem.Next()
			a.graph.EraseNeighbour(f.current, elem)
			continue
		}
		a.visitedEdge.Mark(f.current.ID, repr.ID, a.traversals)
		f.elem = elem.Next()

		if a.visited[repr.ID] != a.traversals {
			if a.order.IsBefore(repr.ID, target.ID) {
				f.pending = repr
				stack = append(stack, open(repr))
				continue
			}
			if repr == target {
				a.reachesTarget[repr.ID] = a.traversals
				a.reachedTarget = append(a.reachedTarget, repr)
				a.postorder = append(a.postorder, repr)
			}
			a.visited[repr.ID] = a.traversals
		}

		if a.reachesTarget[repr.ID] == a.traversals {
			a.reachesTarget[f.current.ID] = a.traversals
		}
	}
}

// processNewSCC merges the discovered cycle and re-anchors its
// representative just before the dummy slot next to target.
func (a *LimitedSearch) processNewSCC(target *graph.Vertex) {
	a.order.InsertAfter(a.dummyID, target.ID)
	if len(a.reachedTarget) == 0 {
		return
	}

	for _, u := range a.reachedTarget {
		a.order.Remove(u.ID)
	}
	a.mergeIntoComponent(a.reachedTarget, []*graph.Graph{a.graph})
	a.order.InsertBefore(a.findUnion.FindRepresentant(target.ID), a.dummyID)
}

func (a *LimitedSearch) algorithmStep(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	// Topological order remains valid.
	if u == v || a.order.IsBefore(u.ID, v.ID) {
		return
	}

	a.traversals++
	a.dfs(v, u)
	a.processNewSCC(u)

	// Move the DFS tail just after u, keeping its relative order.
	previousID := a.dummyID
	for i := len(a.postorder) - 1; i >= 0; i-- {
		w := a.postorder[i]
		// Is in the new scc.
		if a.reachesTarget[w.ID] == a.traversals {
			continue
		}
		a.order.Remove(w.ID)
		a.order.InsertAfter(w.ID, previousID)
		previousID = w.ID
	}
	a.order.Remove(a.dummyID)
}

func (a *LimitedSearch) postprocessEdge(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if u != v {
		a.graph.AddEdge(u, v)
	}

	a.reachedTarget = a.reachedTarget[:0]
	a.postorder = a.postorder[:0]

	// The memo only grows, so drop it once it gets too big.
	if a.visitedEdge.Len() >= maxVisitedEdges {
		a.visitedEdge.Reset()
	}
}
