package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func neighbourIDs(g *Graph, u *Vertex) []int {
	ids := []int{}
	for e := g.Neighbours(u).Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Vertex.ID)
	}
	return ids
}

func TestGraphAddEdge(t *testing.T) {
	assert := assert.New(t)

	g := New(3)
	g.AddEdge(g.VertexByID(0), g.VertexByID(1))
	g.AddEdge(g.VertexByID(0), g.VertexByID(2))
	g.AddEdge(g.VertexByID(0), g.VertexByID(1))

	assert.Equal([]int{1, 2, 1}, neighbourIDs(g, g.VertexByID(0)))
	assert.Equal([]int{}, neighbourIDs(g, g.VertexByID(1)))
}

func TestGraphMoveNeighbours(t *testing.T) {
	assert := assert.New(t)

	g := New(4)
	g.AddEdge(g.VertexByID(0), g.VertexByID(1))
	g.AddEdge(g.VertexByID(2), g.VertexByID(3))
	g.AddEdge(g.VertexByID(2), g.VertexByID(0))

	g.MoveNeighbours(g.VertexByID(2), g.VertexByID(0))
	assert.Equal([]int{1, 3, 0}, neighbourIDs(g, g.VertexByID(0)))
	assert.Equal(0, g.Neighbours(g.VertexByID(2)).Len())

	// Moving an empty list is a no-op.
	g.MoveNeighboursByID(2, 0)
	assert.Equal([]int{1, 3, 0}, neighbourIDs(g, g.VertexByID(0)))
}

func TestGraphEraseNeighbour(t *testing.T) {
	assert := assert.New(t)

	g := New(3)
	u := g.VertexByID(0)
	g.AddEdge(u, g.VertexByID(1))
	g.AddEdge(u, g.VertexByID(2))

	e := g.Neighbours(u).Front()
	next := e.Next()
	g.EraseNeighbour(u, e)
	assert.Equal([]int{2}, neighbourIDs(g, u))
	assert.Equal(2, next.Vertex.ID)
}

func TestGraphCleanVertex(t *testing.T) {
	assert := assert.New(t)

	g := New(2)
	g.AddEdge(g.VertexByID(0), g.VertexByID(1))
	g.CleanVertex(g.VertexByID(0))
	assert.Equal(0, g.Neighbours(g.VertexByID(0)).Len())
}

func TestGraphCloneEmpty(t *testing.T) {
	assert := assert.New(t)

	g := New(3)
	g.AddEdge(g.VertexByID(0), g.VertexByID(1))

	clone := g.CloneEmpty()
	assert.Equal(3, clone.NoVertices())
	assert.Equal(0, clone.Neighbours(clone.VertexByID(0)).Len())
	// The vertex values are shared between the graphs.
	assert.Same(g.VertexByID(1), clone.VertexByID(1))
}

func TestEdgeMemoStamps(t *testing.T) {
	assert := assert.New(t)

	m := NewEdgeMemo()
	assert.False(m.Seen(1, 2, 7))
	m.Mark(1, 2, 7)
	assert.True(m.Seen(1, 2, 7))
	assert.False(m.Seen(2, 1, 7))
	// A stale stamp does not count as seen.
	assert.False(m.Seen(1, 2, 8))
	m.Mark(1, 2, 8)
	assert.True(m.Seen(1, 2, 8))

	assert.Equal(1, m.Len())
	m.Reset()
	assert.Equal(0, m.Len())
	assert.False(m.Seen(1, 2, 8))
}
