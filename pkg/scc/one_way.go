package scc

import (
	"context"
	"fmt"
	"math"

	"github.com/google/btree"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// vertexSet is an ordered set of vertex ids, the IN(v) / OUT(v) structure
// of the one-way search.
type vertexSet struct {
	tree *btree.BTreeG[int]
}

func newVertexSet() *vertexSet {
	return &vertexSet{tree: btree.NewG(btreeDegree, func(a, b int) bool { return a < b })}
}

func (s *vertexSet) insert(id int)        { s.tree.ReplaceOrInsert(id) }
func (s *vertexSet) erase(id int)         { s.tree.Delete(id) }
func (s *vertexSet) contains(id int) bool { return s.tree.Has(id) }
func (s *vertexSet) size() int            { return s.tree.Len() }

func (s *vertexSet) ascend(f func(id int) bool) { s.tree.Ascend(f) }

// levelEntry is an out-heap key: the neighbour keyed by the level it had
// when the edge was recorded.
type levelEntry struct {
	level int
	id    int
}

func levelEntryLess(a, b levelEntry) bool {
	if a.level != b.level {
		return a.level < b.level
	}
	return a.id < b.id
}

// outHeap is the heap out(x): outgoing neighbours ordered by recorded
// level, with an id index for direct removals.
type outHeap struct {
	tree   *btree.BTreeG[levelEntry]
	levels map[int]int
}

func newOutHeap() *outHeap {
	return &outHeap{
		tree:   btree.NewG(btreeDegree, levelEntryLess),
		levels: make(map[int]int),
	}
}

func (h *outHeap) insert(id, level int) {
	h.tree.ReplaceOrInsert(levelEntry{level: level, id: id})
	h.levels[id] = level
}

func (h *outHeap) erase(id int) {
	if level, ok := h.levels[id]; ok {
		h.tree.Delete(levelEntry{level: level, id: id})
		delete(h.levels, id)
	}
}

func (h *outHeap) empty() bool { return h.tree.Len() == 0 }

func (h *outHeap) minimum() levelEntry {
	entry, _ := h.tree.Min()
	return entry
}

func (h *outHeap) eraseMinimum() {
	if entry, ok := h.tree.DeleteMin(); ok {
		delete(h.levels, entry.id)
	}
}

// successor returns the smallest entry strictly greater than prev, or the
// overall minimum when first is set.
func (h *outHeap) successor(prev levelEntry, first bool) (levelEntry, bool) {
	var result levelEntry
	found := false
	visit := func(entry levelEntry) bool {
		if !first && entry == prev {
			return true
		}
		result = entry
		found = true
		return false
	}
	if first {
		h.tree.Ascend(visit)
	} else {
		h.tree.AscendGreaterOrEqual(prev, visit)
	}
	return result, found
}

// OneWaySearch implements the one-way search of Bender, Fineman, Gilbert
// and Tarjan with logarithmic in-degree spans amortising the level bumps.
// O(n^2 log^2 n) total.
type OneWaySearch struct {
	*core
	level           []int
	bound           [][]int
	count           [][]int
	bstIn           []*vertexSet
	bstOut          []*vertexSet
	heap            []*outHeap
	component       []*graph.Vertex
	markedComponent []int
}

// NewOneWaySearch creates the algorithm over noVertices vertices.
func NewOneWaySearch(noVertices int) *OneWaySearch {
	a := &OneWaySearch{
		core:            newCore(noVertices),
		level:           make([]int, noVertices),
		bstIn:           make([]*vertexSet, noVertices),
		bstOut:          make([]*vertexSet, noVertices),
		heap:            make([]*outHeap, noVertices),
		markedComponent: make([]int, noVertices),
	}
	for i := 0; i < noVertices; i++ {
		a.level[i] = 1
		a.bstIn[i] = newVertexSet()
		a.bstOut[i] = newVertexSet()
		a.heap[i] = newOutHeap()
	}

	spansNo := log2Floor(noVertices) + 1
	a.bound = make([][]int, spansNo)
	a.count = make([][]int, spansNo)
	for s := 0; s < spansNo; s++ {
		a.bound[s] = make([]int, noVertices)
		for i := range a.bound[s] {
			a.bound[s][i] = 1
		}
		a.count[s] = make([]int, noVertices)
	}
	return a
}

// Run implements Algorithm.
func (a *OneWaySearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

func log2Floor(x int) int {
	return int(math.Log2(float64(x)))
}

// findComponentDFS follows out-heap entries below the current level of
// each vertex, promoting levels on the way and collecting the vertices
// that close a cycle with target.
func (a *OneWaySearch) findComponentDFS(startID, targetID int) {
	type frame struct {
		currentID  int
		last       levelEntry
		started    bool
		pending    int
		hasPending bool
	}

	stack := []frame{{currentID: startID}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.hasPending {
			if a.markedComponent[f.pending] == a.traversals {
				a.markedComponent[f.currentID] = a.traversals
			}
			f.hasPending = false
		}

		entry, ok := a.heap[f.currentID].successor(f.last, !f.started)
		if !ok || entry.level >= a.level[f.currentID] {
			if a.markedComponent[f.currentID] == a.traversals {
				a.component = append(a.component, a.graph.VertexByID(f.currentID))
			}
			stack = stack[:len(stack)-1]
			continue
		}
		f.last = entry
		f.started = true

		neighbourID := entry.id
		switch {
		case neighbourID == targetID:
			if a.markedComponent[targetID] != a.traversals {
				a.markedComponent[targetID] = a.traversals
				a.component = append(a.component, a.graph.VertexByID(targetID))
			}
			if a.markedComponent[neighbourID] == a.traversals {
				a.markedComponent[f.currentID] = a.traversals
			}
		case a.level[neighbourID] < a.level[f.currentID]:
			a.level[neighbourID] = a.level[f.currentID]
			f.pending = neighbourID
			f.hasPending = true
			stack = append(stack, frame{currentID: neighbourID})
		default:
			if a.markedComponent[neighbourID] == a.traversals {
				a.markedComponent[f.currentID] = a.traversals
			}
		}
	}
}

func (a *OneWaySearch) findComponent(u, v *graph.Vertex) {
	a.traversals++
	a.level[v.ID] = a.level[u.ID] + 1
	a.findComponentDFS(v.ID, u.ID)
}

func (a *OneWaySearch) insertEdge(u, v *graph.Vertex) {
	a.bstOut[u.ID].insert(v.ID)
	a.bstIn[v.ID].insert(u.ID)
	inDegree := a.bstIn[v.ID].size()
	span := log2Floor(inDegree)
	if 1<<span == inDegree {
		a.bound[span][v.ID] = a.level[v.ID]
		a.count[span][v.ID] = 0
		if span != 0 {
			a.count[span-1][v.ID] = 0
		}
	}
}

func (a *OneWaySearch) eraseEdgeIfExists(uID, vID int) {
	if a.bstOut[uID].contains(vID) {
		a.bstOut[uID].erase(vID)
		a.bstIn[vID].erase(uID)
		a.heap[uID].erase(vID)
	}
}

func (a *OneWaySearch) moveFromHeapToCandidates(uID int, candidateEdges *[]graph.Edge) {
	if a.findUnion.FindRepresentant(uID) != uID {
		panic(fmt.Sprintf("one-way search: heap owner %d is not a component representative", uID))
	}
	for !a.heap[uID].empty() {
		entry := a.heap[uID].minimum()
		if entry.level > a.level[uID] {
			break
		}
		a.heap[uID].eraseMinimum()
		*candidateEdges = append(*candidateEdges, graph.Edge{U: uID, V: entry.id})
	}
}

// mergeComponent is mergeIntoComponent specialised to also rewire the
// BSTs and heaps of the merged representatives and their neighbours.
func (a *OneWaySearch) mergeComponent(vertices []*graph.Vertex) {
	for i := 1; i < len(vertices); i++ {
		result, ok := a.findUnion.Union(vertices[i-1].ID, vertices[i].ID)
		if !ok {
			continue
		}

		newRepr, oldRepr := result.Kept, result.Absorbed
		a.eraseEdgeIfExists(newRepr, oldRepr)
		a.eraseEdgeIfExists(oldRepr, newRepr)

		a.bstOut[oldRepr].ascend(func(neighbourID int) bool {
			if !a.bstOut[newRepr].contains(neighbourID) {
				a.bstOut[newRepr].insert(neighbourID)
				a.bstIn[neighbourID].insert(newRepr)
				a.heap[newRepr].insert(neighbourID, a.level[neighbourID])
			}
			a.bstIn[neighbourID].erase(oldRepr)
			return true
		})
		a.bstIn[oldRepr].ascend(func(neighbourID int) bool {
			if !a.bstIn[newRepr].contains(neighbourID) {
				a.bstOut[neighbourID].insert(newRepr)
				a.bstIn[newRepr].insert(neighbourID)
				a.heap[neighbourID].insert(newRepr, a.level[newRepr])
			}
			a.bstOut[neighbourID].erase(oldRepr)
			a.heap[neighbourID].erase(oldRepr)
			return true
		})
	}
}

// formComponentAndFillCandidates merges the found component and drains the
// candidate edges exposed at the merged representative.
func (a *OneWaySearch) formComponentAndFillCandidates(u, v *graph.Vertex) []graph.Edge {
	if a.markedComponent[v.ID] != a.traversals {
		return []graph.Edge{{U: u.ID, V: v.ID}}
	}

	a.mergeComponent(a.component)
	componentRepresentant := a.findRepresentativeVertex(u)
	for s := range a.count {
		a.count[s][componentRepresentant.ID] = 0
	}

	var candidateEdges []graph.Edge
	a.moveFromHeapToCandidates(componentRepresentant.ID, &candidateEdges)
	return candidateEdges
}

func (a *OneWaySearch) traversalStep(candidateEdges *[]graph.Edge) {
	last := len(*candidateEdges) - 1
	edge := (*candidateEdges)[last]
	*candidateEdges = (*candidateEdges)[:last]
	xID, yID := edge.U, edge.V

	if a.level[xID] >= a.level[yID] {
		a.level[yID] = a.level[xID] + 1
	} else {
		span := log2Floor(min(a.level[yID]-a.level[xID], a.bstIn[yID].size()))
		a.count[span][yID]++
		if a.count[span][yID] == 3*(1<<span) {
			a.count[span][yID] = 0
			a.level[yID] = max(a.level[yID], a.bound[span][yID]+(1<<span))
			a.bound[span][yID] = a.level[yID]
		}
	}

	a.moveFromHeapToCandidates(yID, candidateEdges)
	a.heap[xID].insert(yID, a.level[yID])
}

func (a *OneWaySearch) algorithmStep(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)

	if u == v || a.bstOut[u.ID].contains(v.ID) {
		return
	}

	if a.level[u.ID] < a.level[v.ID] {
		a.insertEdge(u, v)
		a.heap[u.ID].insert(v.ID, a.level[v.ID])
		return
	}

	a.findComponent(u, v)
	candidates := a.formComponentAndFillCandidates(u, v)
	if a.markedComponent[v.ID] != a.traversals {
		a.insertEdge(u, v)
	}
	for len(candidates) > 0 {
		a.traversalStep(&candidates)
	}

	a.component = a.component[:0]
}
