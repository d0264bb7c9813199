package scc

import "github.com/jk-89/incremental-strongly-connected-components/pkg/graph"

// sccDetector accumulates the auxiliary edges discovered during one
// bidirectional search step and finds the vertices of the newly created
// component within them. Shared by the topological and Haeupler-style
// searches.
type sccDetector struct {
	graph      *graph.Graph
	within     []*graph.Vertex
	visited    []int
	isInNewSCC []int
}

func newSCCDetector(base *graph.Graph) *sccDetector {
	return &sccDetector{
		graph:      base.CloneEmpty(),
		visited:    make([]int, base.NoVertices()),
		isInNewSCC: make([]int, base.NoVertices()),
	}
}

func (d *sccDetector) addEdge(u, v *graph.Vertex) {
	d.graph.AddEdge(u, v)
}

// track remembers a vertex whose detector adjacency must be cleaned after
// the step.
func (d *sccDetector) track(u *graph.Vertex) {
	d.within = append(d.within, u)
}

// findNewComponent walks the detector graph from start and returns every
// vertex lying on a path to target, target included.
func (d *sccDetector) findNewComponent(start, target *graph.Vertex, traversals int) []*graph.Vertex {
	type frame struct {
		current *graph.Vertex
		elem    *graph.NeighbourElem
		pending *graph.Vertex
	}

	open := func(current *graph.Vertex) frame {
		d.visited[current.ID] = traversals
		return frame{current: current, elem: d.graph.Neighbours(current).Front()}
	}

	var newSCC []*graph.Vertex
	stack := []frame{open(start)}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.pending != nil {
			if d.isInNewSCC[f.pending.ID] == traversals {
				d.isInNewSCC[f.current.ID] = traversals
			}
			f.pending = nil
		}

		if f.elem == nil {
			if f.current == target {
				d.isInNewSCC[f.current.ID] = traversals
			}
			if d.isInNewSCC[f.current.ID] == traversals {
				newSCC = append(newSCC, f.current)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		neighbour := f.elem.Vertex
		f.elem = f.elem.Next()

		if d.visited[neighbour.ID] != traversals {
			f.pending = neighbour
			stack = append(stack, open(neighbour))
			continue
		}
		if d.isInNewSCC[neighbour.ID] == traversals {
			d.isInNewSCC[f.current.ID] = traversals
		}
	}

	return newSCC
}

// reset drops the adjacency of every tracked vertex.
func (d *sccDetector) reset() {
	for _, u := range d.within {
		d.graph.CleanVertex(u)
	}
	d.within = d.within[:0]
}
