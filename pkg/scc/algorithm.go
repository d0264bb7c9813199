// Package scc maintains strongly connected components of a directed graph
// under edge insertions. It implements a collection of incremental
// algorithms behind a single Algorithm interface; NaiveDfs doubles as the
// correctness oracle for the others.
package scc

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/common"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// Algorithm is an incremental SCC maintainer. Run feeds the edges one at a
// time; PrintSCCs emits the resulting partition.
type Algorithm interface {
	Run(ctx context.Context, edges []graph.Edge)
	PrintSCCs(w io.Writer, originalNoVertices int)
}

// Hooks implemented by the concrete algorithms. Every algorithm provides a
// step; the preprocess and postprocess hooks are optional.
type stepper interface {
	algorithmStep(u, v *graph.Vertex)
}

type preprocessor interface {
	preprocessEdge(u, v *graph.Vertex)
}

type postprocessor interface {
	postprocessEdge(u, v *graph.Vertex)
}

// core carries the state shared by every algorithm: the graph, the
// component structure and the traversal stamp counter.
type core struct {
	graph     *graph.Graph
	findUnion *graph.FindUnion
	// Current traversal stamp. A per-vertex entry equal to this value
	// means "visited in the ongoing traversal", anything else is stale.
	traversals int
}

func newCore(noVertices int) *core {
	return &core{
		graph:     graph.New(noVertices),
		findUnion: graph.NewFindUnion(noVertices),
	}
}

func (c *core) findRepresentativeVertex(u *graph.Vertex) *graph.Vertex {
	return c.graph.VertexByID(c.findUnion.FindRepresentant(u.ID))
}

// mergeIntoComponent unions consecutive vertices into one component and
// splices the absorbed neighbour lists onto the kept representative in
// every provided graph. This is the only way edges survive a merge.
func (c *core) mergeIntoComponent(vertices []*graph.Vertex, graphs []*graph.Graph) {
	for i := 1; i < len(vertices); i++ {
		result, ok := c.findUnion.Union(vertices[i-1].ID, vertices[i].ID)
		if !ok {
			continue
		}

		log.Debugf("merging component %d into %d", result.Absorbed, result.Kept)
		for _, g := range graphs {
			g.MoveNeighboursByID(result.Absorbed, result.Kept)
		}
	}
}

// run drives every edge through preprocess, step and postprocess. Hooks
// receive the raw endpoints; resolving representatives is up to the step.
func (c *core) run(ctx context.Context, self stepper, edges []graph.Edge) {
	common.Logger(ctx).Debugf("processing %d edges", len(edges))
	pre, hasPre := self.(preprocessor)
	post, hasPost := self.(postprocessor)

	for _, edge := range edges {
		u := c.graph.VertexByID(edge.U)
		v := c.graph.VertexByID(edge.V)
		if hasPre {
			pre.preprocessEdge(u, v)
		}
		self.algorithmStep(u, v)
		if hasPost {
			post.postprocessEdge(u, v)
		}
	}
}

// PrintSCCs writes one component per line: ascending ids separated by
// single spaces with a trailing space, lines ordered by minimum id.
func (c *core) PrintSCCs(w io.Writer, originalNoVertices int) {
	noVertices := c.graph.NoVertices()
	sccs := make([][]int, noVertices+1)
	for i := 0; i < originalNoVertices; i++ {
		representant := c.findUnion.FindRepresentant(i)
		sccs[representant] = append(sccs[representant], i)
	}

	// Relabel each group so that it is keyed by its smallest member.
	for i := 0; i < noVertices; i++ {
		if len(sccs[i]) == 0 {
			continue
		}

		minID := i
		for _, id := range sccs[i] {
			if id < minID {
				minID = id
			}
		}
		if i != minID {
			sccs[minID] = sccs[i]
			sccs[i] = nil
		}
	}

	for i := 0; i < originalNoVertices; i++ {
		if len(sccs[i]) == 0 {
			continue
		}
		for _, id := range sccs[i] {
			fmt.Fprintf(w, "%d ", id)
		}
		fmt.Fprintln(w)
	}
}

// direction tags the symmetric halves of the bidirectional searches.
type direction int

const (
	forward direction = iota
	backward
)

// Degree used for every ordered set in this package.
const btreeDegree = 2

// Size bound of the lazy edge-dedup memos. Purely memory hygiene.
const maxVisitedEdges = 15000
