package scc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

func TestSimpleSparsifierSpillsOverloadedVertices(t *testing.T) {
	assert := assert.New(t)

	const originalNoVertices = 2
	forwardSparsifier := newSimpleSparsifierForward(originalNoVertices)
	g := graph.New(simpleSparsifierUpdatedNoVertices(originalNoVertices))
	u := g.VertexByID(0)

	// Below the average-degree bound everything stays on the original
	// vertex and no auxiliary edges appear.
	for i := 0; i < simpleMinAverageDegree; i++ {
		forwardSparsifier.generateNewEdges(u)
	}
	assert.Equal(0, forwardSparsifier.representants[0])
	assert.Empty(forwardSparsifier.shared.generated)

	// The next request spills onto a fresh auxiliary vertex connected by
	// a generated edge.
	forwardSparsifier.generateNewEdges(u)
	assert.Equal(originalNoVertices, forwardSparsifier.representants[0])
	assert.Equal([]graph.Edge{{U: 0, V: originalNoVertices}}, forwardSparsifier.shared.generated)
	assert.Equal(originalNoVertices, forwardSparsifier.correspondingID(u))

	// Degrees never exceed the average-degree bound.
	for _, degree := range forwardSparsifier.degrees {
		assert.LessOrEqual(degree, forwardSparsifier.shared.averageDegree)
	}
}

func TestSimpleSparsifierBackwardReversesGeneratedEdges(t *testing.T) {
	assert := assert.New(t)

	const originalNoVertices = 2
	forwardSparsifier := newSimpleSparsifierForward(originalNoVertices)
	backwardSparsifier := newSimpleSparsifierBackward(originalNoVertices, forwardSparsifier)
	g := graph.New(simpleSparsifierUpdatedNoVertices(originalNoVertices))
	v := g.VertexByID(1)

	for i := 0; i <= simpleMinAverageDegree; i++ {
		backwardSparsifier.generateNewEdges(v)
	}

	// The auxiliary edge points back into the original vertex and its
	// global id came from the shared pool.
	assert.Equal([]graph.Edge{{U: originalNoVertices, V: 1}}, backwardSparsifier.shared.generated)
	assert.Equal(originalNoVertices, backwardSparsifier.correspondingID(v))
}

func TestSimpleSparsifierSharedAverageDegree(t *testing.T) {
	assert := assert.New(t)

	const originalNoVertices = 2
	forwardSparsifier := newSimpleSparsifierForward(originalNoVertices)
	backwardSparsifier := newSimpleSparsifierBackward(originalNoVertices, forwardSparsifier)

	for i := 0; i < 20; i++ {
		forwardSparsifier.increaseEdgesNo()
		backwardSparsifier.increaseEdgesNo()
	}
	// Both directions observe the same edge counter and bound.
	assert.Equal(40, forwardSparsifier.shared.noEdges)
	assert.Equal(40, backwardSparsifier.shared.averageDegree)
}

func TestAdvancedSparsifierBuildsLayeredChains(t *testing.T) {
	assert := assert.New(t)

	const originalNoVertices = 2
	s := newAdvancedSparsifier(forward, originalNoVertices, 0, nil)
	g := graph.New(advancedSparsifierUpdatedNoVertices(originalNoVertices))
	u := g.VertexByID(0)

	for i := 0; i < 12; i++ {
		s.generateNewEdges(u)

		// The representative always sits at the depth of the current
		// layer and keeps its degree within the bound.
		reprID := s.representants[0]
		assert.Equal(s.layersNo[0], s.depths[reprID])
		for _, degree := range s.degrees {
			assert.LessOrEqual(degree, s.averageDegree+1)
		}
	}

	// Auxiliary edges always chain out of already reachable vertices, so
	// reachability from the original vertex is preserved.
	reachable := map[int]bool{0: true}
	for _, edge := range s.shared.generated {
		assert.True(reachable[edge.U], "edge %v starts at an unreachable vertex", edge)
		reachable[edge.V] = true
	}
}
