package scc

import (
	"context"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// topOrder is the canonical position bookkeeping shared by both cursor
// traversals: vertex at each position and position of each vertex.
type topOrder struct {
	positions   []int
	vertices    []*graph.Vertex
	canonicalNo int
}

func newTopOrder(g *graph.Graph) *topOrder {
	noVertices := g.NoVertices()
	o := &topOrder{
		positions:   make([]int, noVertices),
		vertices:    make([]*graph.Vertex, noVertices),
		canonicalNo: noVertices,
	}
	for i := 0; i < noVertices; i++ {
		o.positions[i] = i
		o.vertices[i] = g.VertexByID(i)
	}
	return o
}

func (o *topOrder) isBefore(u, v *graph.Vertex) bool {
	return o.positions[u.ID] < o.positions[v.ID]
}

// adjustWithNewSCC frees the positions of the merged vertices, parks the
// representative at newPosition and compacts the canonical prefix down.
func (o *topOrder) adjustWithNewSCC(newRepr *graph.Vertex, newPosition int, newSCC []*graph.Vertex) {
	minFreePosition := o.positions[newSCC[0].ID]
	for _, u := range newSCC {
		o.vertices[o.positions[u.ID]] = nil
		minFreePosition = min(minFreePosition, o.positions[u.ID])
	}
	o.vertices[newPosition] = newRepr
	o.positions[newRepr.ID] = newPosition

	for i := minFreePosition; i < o.canonicalNo; i++ {
		if o.vertices[i] != nil {
			o.vertices[minFreePosition] = o.vertices[i]
			o.positions[o.vertices[i].ID] = minFreePosition
			minFreePosition++
		}
	}

	o.canonicalNo -= len(newSCC) - 1
}

// topologicalTraversal advances a cursor through the canonical positions,
// queueing every vertex reachable by an edge from the queue. The forward
// instance walks positions upward from v, the backward instance downward
// from u.
type topologicalTraversal struct {
	dir          direction
	matrix       [][]bool
	currentIndex int
	queue        []*graph.Vertex
	ord          *topOrder
}

func newTopologicalTraversal(dir direction, matrix [][]bool, ord *topOrder) *topologicalTraversal {
	return &topologicalTraversal{dir: dir, matrix: matrix, ord: ord}
}

func (t *topologicalTraversal) initQueue(u *graph.Vertex) {
	t.queue = append(t.queue, u)
	t.currentIndex = t.ord.positions[u.ID]
	t.ord.vertices[t.currentIndex] = nil
}

func (t *topologicalTraversal) updateCurrentIndex() {
	if t.dir == forward {
		t.currentIndex++
	} else {
		t.currentIndex--
	}
}

func (t *topologicalTraversal) correctOrderOfIndices(otherIndex int) bool {
	if t.dir == forward {
		return t.currentIndex < otherIndex
	}
	return t.currentIndex > otherIndex
}

// edge reports whether the traversal can move from u to v: a forward edge
// for the forward traversal, a reversed one for the backward.
func (t *topologicalTraversal) edge(uID, vID int) bool {
	if t.dir == forward {
		return t.matrix[uID][vID]
	}
	return t.matrix[vID][uID]
}

func (t *topologicalTraversal) pushVertexAtCurrentIndexToQueue() {
	t.queue = append(t.queue, t.ord.vertices[t.currentIndex])
	t.ord.vertices[t.currentIndex] = nil
}

// searchStep advances the cursor to the next position reachable from the
// queue. It reports whether the whole search is finished, which happens
// when the cursors cross.
func (t *topologicalTraversal) searchStep(otherIndex int) bool {
	t.updateCurrentIndex()
	for t.correctOrderOfIndices(otherIndex) {
		edgeExists := false
		for _, v := range t.queue {
			if t.edge(v.ID, t.ord.vertices[t.currentIndex].ID) {
				edgeExists = true
				break
			}
		}
		if edgeExists {
			break
		}
		t.updateCurrentIndex()
	}

	if !t.correctOrderOfIndices(otherIndex) {
		return true
	}

	t.pushVertexAtCurrentIndexToQueue()
	return false
}

// reorder writes the queued vertices back into the canonical positions in
// cursor order, keeping every queued vertex behind its queue predecessors.
func (t *topologicalTraversal) reorder() {
	for len(t.queue) > 0 {
		if t.ord.vertices[t.currentIndex] != nil {
			for _, u := range t.queue {
				if t.edge(u.ID, t.ord.vertices[t.currentIndex].ID) {
					t.pushVertexAtCurrentIndexToQueue()
					break
				}
			}
		}

		if t.ord.vertices[t.currentIndex] == nil {
			u := t.queue[0]
			t.queue = t.queue[1:]
			t.ord.vertices[t.currentIndex] = u
			t.ord.positions[u.ID] = t.currentIndex
		}

		t.updateCurrentIndex()
	}
}

// TopologicalSearch implements the topological search of Haeupler,
// Kavitha, Mathew, Sen and Tarjan on an incidence matrix: O(n^(5/2))
// total time and O(n^2) memory regardless of the number of edges.
type TopologicalSearch struct {
	*core
	matrix   [][]bool
	forward  *topologicalTraversal
	backward *topologicalTraversal
	detector *sccDetector
	newSCC   []*graph.Vertex
}

// NewTopologicalSearch creates the algorithm over noVertices vertices.
func NewTopologicalSearch(noVertices int) *TopologicalSearch {
	c := newCore(noVertices)
	matrix := make([][]bool, noVertices)
	for i := range matrix {
		matrix[i] = make([]bool, noVertices)
	}
	ord := newTopOrder(c.graph)
	return &TopologicalSearch{
		core:     c,
		matrix:   matrix,
		forward:  newTopologicalTraversal(forward, matrix, ord),
		backward: newTopologicalTraversal(backward, matrix, ord),
		detector: newSCCDetector(c.graph),
	}
}

// Run implements Algorithm.
func (a *TopologicalSearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

func (a *TopologicalSearch) topologicalSearch(u, v *graph.Vertex) {
	a.forward.initQueue(v)
	a.backward.initQueue(u)
	for {
		if a.forward.searchStep(a.backward.currentIndex) {
			return
		}
		if a.backward.searchStep(a.forward.currentIndex) {
			return
		}
	}
}

// createSCCDetectionGraph materialises every incidence-matrix edge between
// the two queues in the detector graph.
func (a *TopologicalSearch) createSCCDetectionGraph() {
	queues := [][]*graph.Vertex{a.forward.queue, a.backward.queue}
	for _, queueU := range queues {
		for _, queueV := range queues {
			for _, u := range queueU {
				for _, v := range queueV {
					if a.matrix[u.ID][v.ID] {
						a.detector.addEdge(u, v)
						a.detector.track(u)
						a.detector.track(v)
					}
				}
			}
		}
	}
}

func (a *TopologicalSearch) adjustIncidenceMatrixWithNewSCC() {
	for i := 1; i < len(a.newSCC); i++ {
		result, _ := a.findUnion.Union(a.newSCC[i-1].ID, a.newSCC[i].ID)

		for uID := 0; uID < a.graph.NoVertices(); uID++ {
			if a.matrix[result.Absorbed][uID] {
				a.matrix[result.Kept][uID] = true
			}
			if a.matrix[uID][result.Absorbed] {
				a.matrix[uID][result.Kept] = true
			}
		}
	}
}

func (a *TopologicalSearch) algorithmStep(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if u == v {
		return
	}

	if a.forward.ord.isBefore(u, v) {
		return
	}

	a.topologicalSearch(u, v)
	a.createSCCDetectionGraph()
	a.traversals++
	a.newSCC = a.detector.findNewComponent(v, u, a.traversals)

	a.forward.reorder()
	a.backward.updateCurrentIndex()
	a.backward.reorder()

	if len(a.newSCC) > 0 {
		a.adjustIncidenceMatrixWithNewSCC()
		position := a.forward.ord.positions[v.ID]
		a.forward.ord.adjustWithNewSCC(a.findRepresentativeVertex(u), position, a.newSCC)
	}
}

func (a *TopologicalSearch) postprocessEdge(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if u != v {
		a.matrix[u.ID][v.ID] = true
	}

	a.detector.reset()
	a.newSCC = nil
}
