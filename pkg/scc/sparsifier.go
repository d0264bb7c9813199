package scc

import (
	"context"
	"math/rand"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

func ceilIntDiv(x, y int) int { return (x + y - 1) / y }

// sparsifierShared is the state one forward/backward sparsifier pair has
// in common: the edge counter, the global pool of fresh vertex ids, the
// auxiliary edges generated for the current input edge and the running
// average-degree bound.
type sparsifierShared struct {
	noEdges           int
	globalFirstUnused int
	generated         []graph.Edge
	averageDegree     int
}

// graphSparsifier rewrites incoming edge endpoints through a chain of
// auxiliary vertices so that every working vertex keeps bounded degree
// while reachability is preserved. Each direction owns a local id space
// mapped onto the shared global one.
type graphSparsifier struct {
	dir              direction
	shared           *sparsifierShared
	firstUnused      int
	representants    []int
	correspondingIDs []int
	// updateWithNewEdge lets a variant maintain extra structure over the
	// generated chain; nil when there is nothing to maintain.
	updateWithNewEdge func(uID, vID int)
}

func (s *graphSparsifier) init(originalNoVertices, nodeNoMultiplier int, shared *sparsifierShared) {
	s.shared = shared
	s.firstUnused = originalNoVertices
	s.representants = make([]int, originalNoVertices)
	s.correspondingIDs = make([]int, originalNoVertices*nodeNoMultiplier)
	for id := 0; id < originalNoVertices; id++ {
		s.representants[id] = id
		s.correspondingIDs[id] = id
	}
}

func (s *graphSparsifier) addGeneratedEdge(uID, vID int) {
	u, v := s.correspondingIDs[uID], s.correspondingIDs[vID]
	if s.dir == backward {
		u, v = v, u
	}
	s.shared.generated = append(s.shared.generated, graph.Edge{U: u, V: v})
}

// generateEdgeToUnused allocates a fresh local vertex, binds it to a fresh
// global id and records the auxiliary edge towards it.
func (s *graphSparsifier) generateEdgeToUnused(uID int) int {
	vID := s.firstUnused
	s.firstUnused++
	if s.updateWithNewEdge != nil {
		s.updateWithNewEdge(uID, vID)
	}
	s.correspondingIDs[vID] = s.shared.globalFirstUnused
	s.shared.globalFirstUnused++
	s.addGeneratedEdge(uID, vID)
	return vID
}

func (s *graphSparsifier) insertGeneratedEdge(u, v int) {
	s.shared.generated = append(s.shared.generated, graph.Edge{U: u, V: v})
}

func (s *graphSparsifier) clearGeneratedEdges() {
	s.shared.generated = s.shared.generated[:0]
}

func (s *graphSparsifier) correspondingID(u *graph.Vertex) int {
	return s.correspondingIDs[s.representants[u.ID]]
}

const (
	simpleNodeNoMultiplier  = 4
	simpleMinAverageDegree  = 10
	simpleVerticesPerSource = 2 * simpleNodeNoMultiplier
)

// simpleSparsifier spills a vertex onto a fresh auxiliary one as soon as
// its working degree exceeds the running average degree.
type simpleSparsifier struct {
	graphSparsifier
	originalNoVertices int
	degrees            []int
}

func newSimpleSparsifierForward(originalNoVertices int) *simpleSparsifier {
	s := &simpleSparsifier{
		originalNoVertices: originalNoVertices,
		degrees:            make([]int, originalNoVertices*simpleNodeNoMultiplier),
	}
	s.dir = forward
	s.init(originalNoVertices, simpleNodeNoMultiplier, &sparsifierShared{
		globalFirstUnused: originalNoVertices,
		averageDegree:     simpleMinAverageDegree,
	})
	return s
}

func newSimpleSparsifierBackward(originalNoVertices int, forwardSparsifier *simpleSparsifier) *simpleSparsifier {
	s := &simpleSparsifier{
		originalNoVertices: originalNoVertices,
		degrees:            make([]int, originalNoVertices*simpleNodeNoMultiplier),
	}
	s.dir = backward
	s.init(originalNoVertices, simpleNodeNoMultiplier, forwardSparsifier.shared)
	return s
}

func (s *simpleSparsifier) generateNewEdges(u *graph.Vertex) {
	wID := s.representants[u.ID]
	if s.degrees[wID] >= s.shared.averageDegree {
		s.representants[u.ID] = s.generateEdgeToUnused(wID)
	}
	s.degrees[s.representants[u.ID]]++
}

func (s *simpleSparsifier) increaseEdgesNo() {
	s.shared.noEdges++
	s.shared.averageDegree = max(s.shared.averageDegree,
		ceilIntDiv(2*s.shared.noEdges, s.originalNoVertices))
}

// simpleSparsifierUpdatedNoVertices is the working vertex count needed
// when the simple sparsifier pair fronts an algorithm.
func simpleSparsifierUpdatedNoVertices(noVertices int) int {
	return simpleVerticesPerSource * noVertices
}

const (
	advancedNodeNoMultiplier = 8
	advancedInitialLayersNo  = 1
	advancedMinAverageDegree = 2
)

// advancedSparsifier is the layered sparsification of Bernstein and
// Chechik: auxiliary vertices form balanced trees whose layers carry
// degree d, d^2, and so on, keeping the chains logarithmic.
type advancedSparsifier struct {
	graphSparsifier
	noVertices    int
	averageDegree int
	layersNo      []int
	parents       []int
	depths        []int
	degrees       []int
}

func newAdvancedSparsifier(dir direction, originalNoVertices, noEdges int, shared *sparsifierShared) *advancedSparsifier {
	noVertices := originalNoVertices * advancedNodeNoMultiplier
	s := &advancedSparsifier{
		noVertices:    noVertices,
		averageDegree: max(advancedMinAverageDegree, ceilIntDiv(noEdges, originalNoVertices)),
		layersNo:      make([]int, originalNoVertices),
		parents:       make([]int, noVertices),
		depths:        make([]int, noVertices),
		degrees:       make([]int, noVertices),
	}
	for i := range s.layersNo {
		s.layersNo[i] = advancedInitialLayersNo
	}
	s.dir = dir
	if shared == nil {
		shared = &sparsifierShared{globalFirstUnused: originalNoVertices}
	}
	s.init(originalNoVertices, advancedNodeNoMultiplier, shared)
	for id := 0; id < originalNoVertices; id++ {
		s.parents[id] = id
	}
	s.updateWithNewEdge = func(uID, vID int) {
		s.parents[vID] = uID
		s.depths[vID] = s.depths[uID] + 1
		s.degrees[uID]++
	}
	return s
}

func (s *advancedSparsifier) generateNewEdges(u *graph.Vertex) {
	wID := s.representants[u.ID]

	for s.parents[wID] != wID && s.degrees[wID] == s.averageDegree {
		wID = s.parents[wID]
	}

	// Move from the d^k layer to the d^(k+1) layer.
	if s.parents[wID] == wID && s.degrees[wID] == s.averageDegree {
		wID = s.generateEdgeToUnused(wID)
		s.parents[wID] = wID
		s.depths[wID] = 0
		s.layersNo[u.ID]++
	}

	for s.depths[wID] != s.layersNo[u.ID] {
		wID = s.generateEdgeToUnused(wID)
	}

	s.representants[u.ID] = wID
	s.degrees[wID]++
}

// advancedSparsifierUpdatedNoVertices is the working vertex count needed
// when the advanced sparsifier pair fronts an algorithm.
func advancedSparsifierUpdatedNoVertices(noVertices int) int {
	return 2 * advancedNodeNoMultiplier * noVertices
}

// SparsifiedSampleSearch wraps SampleSearch behind a simple sparsifier
// pair, so every arriving edge turns into a chain of auxiliary edges that
// keeps the working degree at O(m/n), the precondition of the sampling
// analysis.
type SparsifiedSampleSearch struct {
	*SampleSearch
	sparsifierForward  *simpleSparsifier
	sparsifierBackward *simpleSparsifier
}

// NewSparsifiedSampleSearch creates the algorithm. noVertices is the
// working vertex count, originalNoVertices the input id range.
func NewSparsifiedSampleSearch(noVertices, originalNoVertices int, ord order.Order, rng *rand.Rand) *SparsifiedSampleSearch {
	forwardSparsifier := newSimpleSparsifierForward(originalNoVertices)
	return &SparsifiedSampleSearch{
		SampleSearch:       newSampleSearch(noVertices, ord, rng, originalNoVertices),
		sparsifierForward:  forwardSparsifier,
		sparsifierBackward: newSimpleSparsifierBackward(originalNoVertices, forwardSparsifier),
	}
}

// Run implements Algorithm. Each input edge is first rewritten by the
// sparsifier pair, then every generated auxiliary edge goes through the
// regular sample-search step.
func (a *SparsifiedSampleSearch) Run(ctx context.Context, edges []graph.Edge) {
	for _, edge := range edges {
		a.sparsifierForward.increaseEdgesNo()
		a.sparsifierBackward.increaseEdgesNo()

		u := a.graph.VertexByID(edge.U)
		v := a.graph.VertexByID(edge.V)

		a.sparsifierForward.generateNewEdges(u)
		a.sparsifierBackward.generateNewEdges(v)
		a.sparsifierForward.insertGeneratedEdge(
			a.sparsifierForward.correspondingID(u),
			a.sparsifierBackward.correspondingID(v))

		for _, generated := range a.sparsifierForward.shared.generated {
			w := a.graph.VertexByID(generated.U)
			z := a.graph.VertexByID(generated.V)
			a.algorithmStep(w, z)
			a.postprocessEdge(w, z)
		}

		a.sparsifierForward.clearGeneratedEdges()
	}
}
