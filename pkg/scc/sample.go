package scc

import (
	"context"
	"math/rand"
	"sort"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// Number of vertices sampled at construction. Each sampled vertex keeps
// its full forward and backward reachability.
const sampleSize = 2

// sampleShared is the state both traversal directions append to: the
// vertices whose counters changed and the component pairs found through a
// sampled vertex.
type sampleShared struct {
	reached []*graph.Vertex
	newSCC  []*graph.Vertex
}

// sampleContext is the per-direction view of the sampled propagation.
type sampleContext struct {
	graph          *graph.Graph
	shared         *sampleShared
	reachedCounter []int
}

// sampledVertexTraversal tracks which vertices one sampled vertex reaches
// in one direction.
type sampledVertexTraversal struct {
	root    *graph.Vertex
	visited []bool
	context *sampleContext
}

func newSampledVertexTraversal(root *graph.Vertex, context *sampleContext) *sampledVertexTraversal {
	t := &sampledVertexTraversal{
		root:    root,
		visited: make([]bool, context.graph.NoVertices()),
		context: context,
	}
	t.visited[root.ID] = true
	context.shared.reached = append(context.shared.reached, root)
	context.reachedCounter[root.ID] = 1
	return t
}

// dfs marks everything newly reachable from start. Whenever the opposite
// traversal already covers a vertex, that vertex and the sampled root form
// a component pair.
func (t *sampledVertexTraversal) dfs(start *graph.Vertex, other *sampledVertexTraversal) {
	stack := []*graph.Vertex{start}
	t.visited[start.ID] = true
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if other.visited[current.ID] {
			t.context.shared.newSCC = append(t.context.shared.newSCC, current, t.root)
		}
		if t.context.reachedCounter[current.ID] == 0 {
			t.context.shared.reached = append(t.context.shared.reached, current)
		}
		t.context.reachedCounter[current.ID]++
		for e := t.context.graph.Neighbours(current).Front(); e != nil; e = e.Next() {
			if !t.visited[e.Vertex.ID] {
				t.visited[e.Vertex.ID] = true
				stack = append(stack, e.Vertex)
			}
		}
	}
}

func (t *sampledVertexTraversal) searchForNewReachable(u, v *graph.Vertex, other *sampledVertexTraversal) {
	if t.visited[u.ID] && !t.visited[v.ID] {
		t.dfs(v, other)
	}
}

// sampledVertex pairs the forward and backward reachability of one
// sampled vertex.
type sampledVertex struct {
	forward  *sampledVertexTraversal
	backward *sampledVertexTraversal
}

func (s *sampledVertex) updateReachable(u, v *graph.Vertex) {
	s.forward.searchForNewReachable(u, v, s.backward)
	s.backward.searchForNewReachable(v, u, s.forward)
}

// sample is the fixed random vertex sample drawn at construction.
type sample struct {
	sampledVertices []*sampledVertex
}

// Vertices are sampled independently and without repetition; with a
// sparsifier in front, only the original id range is eligible.
func newSample(g *graph.Graph, originalNoVertices int, forwardContext, backwardContext *sampleContext,
	rng *rand.Rand) *sample {
	noVertices := g.NoVertices()
	if originalNoVertices >= 0 {
		noVertices = originalNoVertices
	}

	picked := make(map[int]struct{})
	for len(picked) < min(noVertices, sampleSize) {
		picked[rng.Intn(noVertices)] = struct{}{}
	}
	pickedIDs := make([]int, 0, len(picked))
	for id := range picked {
		pickedIDs = append(pickedIDs, id)
	}
	sort.Ints(pickedIDs)

	s := &sample{}
	for _, id := range pickedIDs {
		root := g.VertexByID(id)
		s.sampledVertices = append(s.sampledVertices, &sampledVertex{
			forward:  newSampledVertexTraversal(root, forwardContext),
			backward: newSampledVertexTraversal(root, backwardContext),
		})
	}
	return s
}

func (s *sample) processEdge(u, v *graph.Vertex) {
	for _, sampled := range s.sampledVertices {
		sampled.updateReachable(u, v)
	}
}

// SampleSearch implements the sampling algorithm of Bernstein and
// Chechik: sampled-vertex reachability partitions the vertices, and a
// partition-restricted bidirectional exploration finds new components.
// Expected total time ~O(m^(4/3)) on graphs with bounded degree.
type SampleSearch struct {
	*core
	reversedGraph      *graph.Graph
	shared             *sampleShared
	forwardContext     *sampleContext
	backwardContext    *sampleContext
	sample             *sample
	order              order.Order
	partitionsHandler  *partitionsHandler
	state              *explorationState
	forwardExplorer    *explorer
	backwardExplorer   *explorer
	newSCCCanonicalIDs []int
	newCanonicalOrder  []int
	// Helper order slot used while rebuilding the canonical order.
	restoreHelper int
}

// NewSampleSearch creates the algorithm over noVertices vertices using
// the provided dynamic order.
func NewSampleSearch(noVertices int, ord order.Order, rng *rand.Rand) *SampleSearch {
	return newSampleSearch(noVertices, ord, rng, -1)
}

func newSampleSearch(noVertices int, ord order.Order, rng *rand.Rand, originalNoVertices int) *SampleSearch {
	c := newCore(noVertices)
	shared := &sampleShared{}
	a := &SampleSearch{
		core:          c,
		reversedGraph: c.graph.CloneEmpty(),
		shared:        shared,
	}
	a.forwardContext = &sampleContext{
		graph:          c.graph,
		shared:         shared,
		reachedCounter: make([]int, noVertices),
	}
	a.backwardContext = &sampleContext{
		graph:          a.reversedGraph,
		shared:         shared,
		reachedCounter: make([]int, noVertices),
	}
	a.sample = newSample(c.graph, originalNoVertices, a.forwardContext, a.backwardContext, rng)
	a.order = ord
	a.partitionsHandler = newPartitionsHandler(noVertices, ord)
	a.state = &explorationState{status: make([]int, noVertices)}
	a.forwardExplorer = newExplorer(forward, ord, c.graph,
		a.partitionsHandler.partitions, c.findUnion, a.state)
	a.backwardExplorer = newExplorer(backward, ord, a.reversedGraph,
		a.partitionsHandler.partitions, c.findUnion, a.state)

	a.restoreHelper = ord.Capacity()
	ord.ExtendCapacity()

	// The sampled roots already count themselves, so their partitions
	// have to be in place before the first edge arrives.
	a.partitionsHandler.fillUpAndDown(a.forwardContext, a.backwardContext)
	a.partitionsHandler.processUpAndDown()
	shared.reached = shared.reached[:0]
	return a
}

// Run implements Algorithm.
func (a *SampleSearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

func (a *SampleSearch) removeNonCanonicalReachedFromSampled() {
	for i := 0; i < len(a.shared.reached); {
		u := a.shared.reached[i]
		if a.findRepresentativeVertex(u) != u {
			last := len(a.shared.reached) - 1
			a.shared.reached[i] = a.shared.reached[last]
			a.shared.reached = a.shared.reached[:last]
		} else {
			i++
		}
	}
}

func (a *SampleSearch) mergeSCCContainingSampled() {
	newSCC := a.shared.newSCC
	for i := 1; i < len(newSCC); i++ {
		result, ok := a.findUnion.Union(newSCC[i-1].ID, newSCC[i].ID)
		if ok {
			a.order.Remove(result.Absorbed)
		}
	}
}

// findComponent runs the bidirectional exploration restricted to the
// partition of u and v and collects the canonical ids of the newly formed
// component, if any.
func (a *SampleSearch) findComponent(u, v *graph.Vertex) {
	a.state.noExplorations++
	uRepr := a.findRepresentativeVertex(u)
	vRepr := a.findRepresentativeVertex(v)
	if a.order.IsBefore(uRepr.ID, vRepr.ID) {
		return
	}

	a.forwardExplorer.addAlive(v.ID)
	a.backwardExplorer.addAlive(u.ID)
	partitions := a.partitionsHandler.partitions
	if uRepr == vRepr || partitions[uRepr.ID] != partitions[vRepr.ID] {
		return
	}

	for a.forwardExplorer.anyAlive() && a.backwardExplorer.anyAlive() {
		if a.forwardExplorer.processBestAliveOption(a.backwardExplorer) {
			break
		}
		if a.backwardExplorer.processBestAliveOption(a.forwardExplorer) {
			break
		}
	}

	if !a.forwardExplorer.cycleCreated && !a.backwardExplorer.cycleCreated {
		return
	}

	pivotID, hasPivot := a.forwardExplorer.pivotID, a.forwardExplorer.hasPivot
	if !hasPivot {
		pivotID, hasPivot = a.backwardExplorer.pivotID, a.backwardExplorer.hasPivot
	}
	if hasPivot {
		pivotReprID := a.findUnion.FindRepresentant(pivotID)
		permitted := []int{pivotReprID, a.findUnion.FindRepresentant(v.ID)}
		a.backwardExplorer.dfs(u, permitted, &a.newSCCCanonicalIDs)
		permitted[1] = a.findUnion.FindRepresentant(u.ID)
		a.forwardExplorer.dfs(v, permitted, &a.newSCCCanonicalIDs)
	} else {
		permitted := []int{a.findUnion.FindRepresentant(u.ID)}
		a.forwardExplorer.dfs(v, permitted, &a.newSCCCanonicalIDs)
	}
}

// unionizeAndRemoveNonCanonical merges the collected canonical ids and
// drops the absorbed ones from the order, anchoring the helper slot at the
// start representative first.
func (a *SampleSearch) unionizeAndRemoveNonCanonical(startID int) {
	startReprID := a.findUnion.FindRepresentant(startID)
	a.order.InsertAfter(a.restoreHelper, startReprID)

	for i := 1; i < len(a.newSCCCanonicalIDs); i++ {
		result, ok := a.findUnion.Union(a.newSCCCanonicalIDs[i-1], a.newSCCCanonicalIDs[i])
		if ok {
			a.order.Remove(result.Absorbed)
		}
	}
}

// updateOrder rebuilds the canonical order around the helper slot:
// forward-explored vertices end up before the representative of v and
// backward-explored ones after the representative of u.
func (a *SampleSearch) updateOrder(u, v *graph.Vertex, updateForward bool) {
	newSCCCreated := len(a.newSCCCanonicalIDs) > 0
	if newSCCCreated {
		if updateForward {
			a.forwardExplorer.eraseFromDead(v.ID)
		} else {
			a.backwardExplorer.eraseFromDead(u.ID)
		}
	}

	if updateForward {
		a.forwardExplorer.drainCanonicalOrderAround(a.restoreHelper, v.ID, a.backwardExplorer,
			&a.newCanonicalOrder, updateForward, newSCCCreated)
	} else {
		a.backwardExplorer.drainCanonicalOrderAround(a.restoreHelper, u.ID, a.forwardExplorer,
			&a.newCanonicalOrder, updateForward, newSCCCreated)
	}

	previousID := a.restoreHelper
	for _, canonicalID := range a.newCanonicalOrder {
		a.order.Remove(canonicalID)
		if updateForward {
			a.order.InsertBefore(canonicalID, previousID)
		} else {
			a.order.InsertAfter(canonicalID, previousID)
		}
		previousID = canonicalID
	}

	a.order.Remove(a.restoreHelper)
}

func (a *SampleSearch) algorithmStep(u, v *graph.Vertex) {
	// Phase 1: propagate the sampled reachability and refresh partitions.
	a.sample.processEdge(u, v)
	a.removeNonCanonicalReachedFromSampled()
	a.partitionsHandler.fillUpAndDown(a.forwardContext, a.backwardContext)
	a.partitionsHandler.processUpAndDown()
	a.mergeSCCContainingSampled()
	if len(a.shared.newSCC) > 0 {
		return
	}

	// Phase 2: partition-restricted bidirectional exploration.
	a.findComponent(u, v)

	// Phase 3: merge and restore the canonical order.
	maximumDeadID, hasMaximumDead := a.forwardExplorer.maximumDead()
	minimumDeadID, _ := a.backwardExplorer.minimumDead()
	if !hasMaximumDead {
		return
	}

	forwardDead := a.forwardExplorer.deadAsVector()
	backwardDead := a.backwardExplorer.deadAsVector()
	updateForward := a.backwardExplorer.finishedProcessingAlive

	startID := minimumDeadID
	if updateForward {
		startID = maximumDeadID
	}
	a.unionizeAndRemoveNonCanonical(startID)

	a.forwardExplorer.populateDeadWithVector(forwardDead)
	a.backwardExplorer.populateDeadWithVector(backwardDead)
	a.updateOrder(u, v, updateForward)
}

func (a *SampleSearch) postprocessEdge(u, v *graph.Vertex) {
	a.graph.AddEdge(u, v)
	a.reversedGraph.AddEdge(v, u)

	a.shared.reached = a.shared.reached[:0]
	a.shared.newSCC = a.shared.newSCC[:0]

	a.forwardExplorer.clear()
	a.backwardExplorer.clear()

	a.newSCCCanonicalIDs = a.newSCCCanonicalIDs[:0]
	a.newCanonicalOrder = a.newCanonicalOrder[:0]
}
