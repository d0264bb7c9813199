package scc

import (
	"sort"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// activeSet is the per-policy bookkeeping of vertices that still have
// unvisited neighbours.
type activeSet interface {
	insertActive(id int)
	removeActive(id int)
}

// traversal is the state shared by one direction of the bidirectional
// Haeupler-style searches: the visited set, the resumable neighbour
// iterator per vertex and the traversed list.
type traversal struct {
	traversed []*graph.Vertex
	visited   []int
	next      []*graph.NeighbourElem
	less      func(x, y int) bool
	active    activeSet
	// goodSide reports whether a candidate lies strictly on this
	// direction's side of the pivot.
	goodSide func(candidateID, pivotID int) bool
}

func (t *traversal) init(noVertices int, ord order.Order, active activeSet, dir direction) {
	t.visited = make([]int, noVertices)
	t.next = make([]*graph.NeighbourElem, noVertices)
	t.less = order.Less(ord)
	t.active = active
	if dir == forward {
		t.goodSide = func(candidateID, pivotID int) bool { return t.less(candidateID, pivotID) }
	} else {
		t.goodSide = func(candidateID, pivotID int) bool { return t.less(pivotID, candidateID) }
	}
}

func (t *traversal) insertVertex(u *graph.Vertex, g *graph.Graph, traversals int) {
	if t.visited[u.ID] == traversals {
		return
	}

	t.traversed = append(t.traversed, u)
	t.visited[u.ID] = traversals
	t.next[u.ID] = g.Neighbours(u).Front()
	if t.next[u.ID] != nil {
		t.active.insertActive(u.ID)
	}
}

// nextNeighbour hands out the next unprocessed neighbour of u, retiring u
// from the active set when its list is exhausted.
func (t *traversal) nextNeighbour(u *graph.Vertex) *graph.NeighbourElem {
	neighbour := t.next[u.ID]
	t.next[u.ID] = neighbour.Next()
	if t.next[u.ID] == nil {
		t.active.removeActive(u.ID)
	}
	return neighbour
}

// findPivot returns the traversed vertex with unfinished neighbours that
// sits earliest in the order, initialPivot included as a candidate.
func (t *traversal) findPivot(initialPivot *graph.Vertex) *graph.Vertex {
	pivot := initialPivot
	for _, vertex := range t.traversed {
		if t.next[vertex.ID] != nil && t.less(vertex.ID, pivot.ID) {
			pivot = vertex
		}
	}
	return pivot
}

// sortedByPivot returns the traversed vertices strictly on this side of
// the pivot, sorted by the order.
func (t *traversal) sortedByPivot(pivotID int) []int {
	var vertexIDs []int
	for _, vertex := range t.traversed {
		if t.goodSide(vertex.ID, pivotID) {
			vertexIDs = append(vertexIDs, vertex.ID)
		}
	}
	sort.Slice(vertexIDs, func(i, j int) bool {
		return t.less(vertexIDs[i], vertexIDs[j])
	})
	return vertexIDs
}

func (t *traversal) clear() {
	t.traversed = t.traversed[:0]
}

// haeuplerSearch drives the shared step of CompatibleSearch and
// SoftThresholdSearch: a paired forward/backward traversal, a pivot-based
// order repair and the component merge around the detector graph.
type haeuplerSearch struct {
	*core
	reversedGraph *graph.Graph
	order         order.Order
	forward       *traversal
	backward      *traversal
	detector      *sccDetector
	searchSteps   func(u *graph.Vertex)
	// clearTraversals resets the policy-specific active bookkeeping.
	clearTraversals func()
}

func newHaeuplerSearch(noVertices int, ord order.Order, forwardTraversal, backwardTraversal *traversal) *haeuplerSearch {
	c := newCore(noVertices)
	return &haeuplerSearch{
		core:          c,
		reversedGraph: c.graph.CloneEmpty(),
		order:         ord,
		forward:       forwardTraversal,
		backward:      backwardTraversal,
		detector:      newSCCDetector(c.graph),
	}
}

// searchStep advances both directions by one neighbour, recording the
// discovered edges in the detector graph.
func (h *haeuplerSearch) searchStep(u, v *graph.Vertex) {
	xElem := h.forward.nextNeighbour(u)
	x := h.findRepresentativeVertex(xElem.Vertex)
	if x == u {
		h.graph.EraseNeighbour(u, xElem)
	} else {
		h.detector.addEdge(u, x)
		h.detector.track(u)
		h.forward.insertVertex(x, h.graph, h.traversals)
	}

	yElem := h.backward.nextNeighbour(v)
	y := h.findRepresentativeVertex(yElem.Vertex)
	if y == v {
		h.reversedGraph.EraseNeighbour(v, yElem)
	} else {
		h.detector.addEdge(y, v)
		h.detector.track(y)
		h.backward.insertVertex(y, h.reversedGraph, h.traversals)
	}
}

// restoreTopologicalOrder re-places the traversed vertices around the
// pivot so that the order is consistent again.
func (h *haeuplerSearch) restoreTopologicalOrder(defaultPivot *graph.Vertex) {
	pivot := h.forward.findPivot(defaultPivot)
	// We restore topological ordering using a simple sort.
	sortedBeforePivot := h.forward.sortedByPivot(pivot.ID)
	sortedAfterPivot := h.backward.sortedByPivot(pivot.ID)

	if pivot == defaultPivot {
		previousID := pivot.ID
		for _, vertexID := range sortedBeforePivot {
			h.order.Remove(vertexID)
			h.order.InsertAfter(vertexID, previousID)
			previousID = vertexID
		}
		return
	}

	nextID := pivot.ID
	for i := len(sortedBeforePivot) - 1; i >= 0; i-- {
		h.order.Remove(sortedBeforePivot[i])
		h.order.InsertBefore(sortedBeforePivot[i], nextID)
		nextID = sortedBeforePivot[i]
	}
	for i := len(sortedAfterPivot) - 1; i >= 0; i-- {
		h.order.Remove(sortedAfterPivot[i])
		h.order.InsertBefore(sortedAfterPivot[i], nextID)
		nextID = sortedAfterPivot[i]
	}
}

func (h *haeuplerSearch) clear() {
	h.detector.reset()
	h.clearTraversals()
}

func (h *haeuplerSearch) algorithmStep(u, v *graph.Vertex) {
	u = h.findRepresentativeVertex(u)
	v = h.findRepresentativeVertex(v)
	if u == v || h.order.IsBefore(u.ID, v.ID) {
		return
	}

	h.traversals++
	h.forward.insertVertex(v, h.graph, h.traversals)
	h.backward.insertVertex(u, h.reversedGraph, h.traversals)

	h.searchSteps(u)

	h.restoreTopologicalOrder(u)
	newSCC := h.detector.findNewComponent(v, u, h.traversals)
	h.mergeIntoComponent(newSCC, []*graph.Graph{h.graph, h.reversedGraph})

	componentRepresentant := h.findRepresentativeVertex(u)
	if componentRepresentant != u {
		h.order.Remove(componentRepresentant.ID)
		h.order.InsertAfter(componentRepresentant.ID, u.ID)
	}

	for _, vertex := range newSCC {
		if vertex.ID != componentRepresentant.ID {
			h.order.Remove(vertex.ID)
		}
	}

	h.clear()
}

func (h *haeuplerSearch) postprocessEdge(u, v *graph.Vertex) {
	u = h.findRepresentativeVertex(u)
	v = h.findRepresentativeVertex(v)
	if u != v {
		h.graph.AddEdge(u, v)
		h.reversedGraph.AddEdge(v, u)
	}
}
