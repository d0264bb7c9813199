package scc

import (
	"context"

	"github.com/google/btree"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// compatibleTraversal keeps its active vertices in an ordered set keyed by
// the dynamic order, so each search step can pick the globally smallest
// forward and largest backward active vertex.
type compatibleTraversal struct {
	traversal
	dir  direction
	live *btree.BTreeG[int]
}

func newCompatibleTraversal(noVertices int, ord order.Order, dir direction) *compatibleTraversal {
	t := &compatibleTraversal{
		dir:  dir,
		live: btree.NewG(btreeDegree, order.Less(ord)),
	}
	t.traversal.init(noVertices, ord, t, dir)
	return t
}

func (t *compatibleTraversal) insertActive(id int) { t.live.ReplaceOrInsert(id) }
func (t *compatibleTraversal) removeActive(id int) { t.live.Delete(id) }

func (t *compatibleTraversal) bestLiveOption() (int, bool) {
	if t.dir == forward {
		return t.live.Min()
	}
	return t.live.Max()
}

func (t *compatibleTraversal) clear() {
	t.traversal.clear()
	t.live.Clear(false)
}

// CompatibleSearch implements the compatible search of Haeupler, Kavitha,
// Mathew, Sen and Tarjan: both directions advance in lockstep while the
// smallest forward-active vertex precedes the largest backward-active one.
// O(m^(3/2) log n) total.
type CompatibleSearch struct {
	*haeuplerSearch
	forwardLive  *compatibleTraversal
	backwardLive *compatibleTraversal
}

// NewCompatibleSearch creates the algorithm over noVertices vertices using
// the provided dynamic order.
func NewCompatibleSearch(noVertices int, ord order.Order) *CompatibleSearch {
	forwardLive := newCompatibleTraversal(noVertices, ord, forward)
	backwardLive := newCompatibleTraversal(noVertices, ord, backward)
	a := &CompatibleSearch{
		haeuplerSearch: newHaeuplerSearch(noVertices, ord, &forwardLive.traversal, &backwardLive.traversal),
		forwardLive:    forwardLive,
		backwardLive:   backwardLive,
	}
	a.searchSteps = a.performSearchSteps
	a.clearTraversals = func() {
		forwardLive.clear()
		backwardLive.clear()
	}
	return a
}

// Run implements Algorithm.
func (a *CompatibleSearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

func (a *CompatibleSearch) performSearchSteps(*graph.Vertex) {
	forwardVertex, forwardOK := a.forwardLive.bestLiveOption()
	backwardVertex, backwardOK := a.backwardLive.bestLiveOption()
	for forwardOK && backwardOK {
		if !a.order.IsBefore(forwardVertex, backwardVertex) {
			break
		}

		a.searchStep(a.graph.VertexByID(forwardVertex), a.graph.VertexByID(backwardVertex))

		forwardVertex, forwardOK = a.forwardLive.bestLiveOption()
		backwardVertex, backwardOK = a.backwardLive.bestLiveOption()
	}
}
