package scc

import (
	"context"
	"math"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// TwoWaySearch implements the two-way search of Bender, Fineman, Gilbert
// and Tarjan: a backward BFS capped by an adaptive threshold followed by a
// forward level propagation. O(m * min(n^(2/3), m^(1/2))) total.
type TwoWaySearch struct {
	*core
	noEdges            int
	traversalSteps     int
	threshold          int
	verticesThreshold  int
	edgesUsedBackwards int
	foundCycle         bool
	reversedGraph      *graph.Graph
	visited            []int
	level              []int
	considered         []int
	component          []*graph.Vertex
	markedComponent    []int
}

// NewTwoWaySearch creates the algorithm over noVertices vertices.
func NewTwoWaySearch(noVertices int) *TwoWaySearch {
	c := newCore(noVertices)
	cbrtNoVertices := math.Cbrt(float64(noVertices))
	return &TwoWaySearch{
		core:              c,
		threshold:         1,
		verticesThreshold: int(cbrtNoVertices * cbrtNoVertices),
		reversedGraph:     c.graph.CloneEmpty(),
		visited:           make([]int, noVertices),
		level:             make([]int, noVertices),
		considered:        make([]int, noVertices),
		markedComponent:   make([]int, noVertices),
	}
}

// Run implements Algorithm.
func (a *TwoWaySearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

// The threshold is only adjusted when the number of edges is a power of
// two, and only by at least doubling.
func (a *TwoWaySearch) updateThreshold() {
	if a.noEdges&(a.noEdges-1) != 0 {
		return
	}

	sqrtNoEdges := int(math.Sqrt(float64(a.noEdges)))
	newThresholdCandidate := min(sqrtNoEdges, a.verticesThreshold)
	if newThresholdCandidate >= a.threshold*2 {
		a.threshold = newThresholdCandidate
	}
}

// searchBackward runs a BFS on the reversed graph from u, counting the
// traversed edges and aborting once the threshold is spent.
func (a *TwoWaySearch) searchBackward(u, v *graph.Vertex) {
	a.traversals++
	a.visited[u.ID] = a.traversals
	queue := []*graph.Vertex{u}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		a.traversalSteps++
		a.considered[current.ID] = a.traversalSteps

		neighbours := a.reversedGraph.Neighbours(current)
		for e := neighbours.Front(); e != nil; {
			repr := a.findRepresentativeVertex(e.Vertex)

			// Remove loop / duplicated edge.
			if a.considered[repr.ID] == a.traversalSteps {
				next := e.Next()
				neighbours.Remove(e)
				e = next
				continue
			}

			a.considered[repr.ID] = a.traversalSteps
			if repr == v {
				a.foundCycle = true
			} else if a.visited[repr.ID] != a.traversals {
				a.visited[repr.ID] = a.traversals
				queue = append(queue, repr)
			}
			a.edgesUsedBackwards++
			if a.edgesUsedBackwards == a.threshold {
				return
			}
			e = e.Next()
		}
	}
}

// searchForward promotes every vertex reachable from u below its level
// and rebuilds the reversed edges of the promoted vertices.
func (a *TwoWaySearch) searchForward(u *graph.Vertex) {
	toBeConsidered := []*graph.Vertex{u}

	for len(toBeConsidered) > 0 {
		current := toBeConsidered[len(toBeConsidered)-1]
		toBeConsidered = toBeConsidered[:len(toBeConsidered)-1]
		a.traversalSteps++
		a.considered[current.ID] = a.traversalSteps

		neighbours := a.graph.Neighbours(current)
		for e := neighbours.Front(); e != nil; {
			repr := a.findRepresentativeVertex(e.Vertex)

			// Remove loop / duplicated edge.
			if a.considered[repr.ID] == a.traversalSteps {
				next := e.Next()
				neighbours.Remove(e)
				e = next
				continue
			}

			a.considered[repr.ID] = a.traversalSteps
			if a.visited[repr.ID] == a.traversals {
				a.foundCycle = true
			}

			if a.level[repr.ID] == a.level[u.ID] {
				a.reversedGraph.AddEdge(repr, current)
			} else if a.level[repr.ID] < a.level[u.ID] {
				a.level[repr.ID] = a.level[u.ID]
				a.reversedGraph.CleanVertex(repr)
				a.reversedGraph.AddEdge(repr, current)
				toBeConsidered = append(toBeConsidered, repr)
			}

			e = e.Next()
		}
	}
}

// formComponentDFS walks the reversed graph from u collecting every vertex
// on a path to the marked cycle endpoint.
func (a *TwoWaySearch) formComponentDFS(start *graph.Vertex) {
	type frame struct {
		current *graph.Vertex
		elem    *graph.NeighbourElem
		pending *graph.Vertex
	}

	open := func(current *graph.Vertex) frame {
		a.visited[current.ID] = a.traversals
		neighbours := a.reversedGraph.Neighbours(current)

		// Remove loops and duplicated edges up front so that the
		// traversal below never invalidates its own position.
		a.traversalSteps++
		a.considered[current.ID] = a.traversalSteps
		for e := neighbours.Front(); e != nil; {
			repr := a.findRepresentativeVertex(e.Vertex)
			if a.considered[repr.ID] == a.traversalSteps {
				next := e.Next()
				neighbours.Remove(e)
				e = next
			} else {
				a.considered[repr.ID] = a.traversalSteps
				e = e.Next()
			}
		}

		return frame{current: current, elem: neighbours.Front()}
	}

	stack := []frame{open(start)}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.pending != nil {
			if a.markedComponent[f.pending.ID] == a.traversals {
				a.markedComponent[f.current.ID] = a.traversals
				a.component = append(a.component, f.current)
			}
			f.pending = nil
		}

		if f.elem == nil {
			stack = stack[:len(stack)-1]
			continue
		}

		repr := a.findRepresentativeVertex(f.elem.Vertex)
		f.elem = f.elem.Next()

		if a.markedComponent[repr.ID] != a.traversals && a.visited[repr.ID] != a.traversals {
			f.pending = repr
			stack = append(stack, open(repr))
			continue
		}
		if a.markedComponent[repr.ID] == a.traversals {
			a.markedComponent[f.current.ID] = a.traversals
			a.component = append(a.component, f.current)
		}
	}
}

func (a *TwoWaySearch) formComponent(u, v *graph.Vertex) {
	if !a.foundCycle {
		return
	}

	a.traversals++
	a.markedComponent[v.ID] = a.traversals
	a.component = []*graph.Vertex{v}
	a.formComponentDFS(u)
	a.mergeIntoComponent(a.component, []*graph.Graph{a.graph, a.reversedGraph})
}

func (a *TwoWaySearch) algorithmStep(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if u == v || a.level[u.ID] < a.level[v.ID] {
		return
	}

	a.foundCycle = false
	a.edgesUsedBackwards = 0
	a.searchBackward(u, v)
	if a.edgesUsedBackwards != a.threshold {
		if a.level[v.ID] == a.level[u.ID] {
			a.formComponent(u, v)
			return
		}
		a.level[v.ID] = a.level[u.ID]
	} else {
		a.level[v.ID] = a.level[u.ID] + 1
		// Restart the visited stamp so that only u counts as a
		// backward vertex for the forward pass.
		a.traversals++
		a.visited[u.ID] = a.traversals
	}

	a.reversedGraph.CleanVertex(v)
	a.searchForward(v)
	a.formComponent(u, v)
}

func (a *TwoWaySearch) preprocessEdge(_, _ *graph.Vertex) {
	a.noEdges++
	a.updateThreshold()
}

func (a *TwoWaySearch) postprocessEdge(u, v *graph.Vertex) {
	u = a.findRepresentativeVertex(u)
	v = a.findRepresentativeVertex(v)
	if u != v {
		a.graph.AddEdge(u, v)
		if a.level[u.ID] == a.level[v.ID] {
			a.reversedGraph.AddEdge(v, u)
		}
	}
}
