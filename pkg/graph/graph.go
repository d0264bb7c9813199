package graph

// Graph keeps a fixed vertex set and one neighbour list per vertex.
// Neighbour lists may contain duplicates and stale non-representative
// vertices; algorithms deduplicate lazily while traversing.
type Graph struct {
	vertices  []*Vertex
	adjacency []*NeighbourList
}

// New creates a graph with vertices 0..noVertices-1 and no edges.
func New(noVertices int) *Graph {
	g := &Graph{
		vertices:  make([]*Vertex, noVertices),
		adjacency: make([]*NeighbourList, noVertices),
	}
	for i := 0; i < noVertices; i++ {
		g.vertices[i] = &Vertex{ID: i}
		g.adjacency[i] = newNeighbourList()
	}
	return g
}

// CloneEmpty copies the vertex set of g without any edges. The vertex
// values are shared, so identities stay comparable across both graphs.
func (g *Graph) CloneEmpty() *Graph {
	clone := &Graph{
		vertices:  g.vertices,
		adjacency: make([]*NeighbourList, len(g.vertices)),
	}
	for i := range clone.adjacency {
		clone.adjacency[i] = newNeighbourList()
	}
	return clone
}

// AddEdge appends v to the neighbour list of u.
func (g *Graph) AddEdge(u, v *Vertex) {
	g.adjacency[u.ID].PushBack(v)
}

// CleanVertex drops every neighbour of u.
func (g *Graph) CleanVertex(u *Vertex) {
	g.adjacency[u.ID].Init()
}

// MoveNeighbours splices all neighbours of u onto the end of the list of v.
// When it returns, u has no neighbours.
func (g *Graph) MoveNeighbours(u, v *Vertex) {
	g.adjacency[v.ID].SpliceBack(g.adjacency[u.ID])
}

// MoveNeighboursByID is MoveNeighbours addressed by vertex ids.
func (g *Graph) MoveNeighboursByID(u, v int) {
	g.MoveNeighbours(g.vertices[u], g.vertices[v])
}

// Neighbours returns the neighbour list of u.
func (g *Graph) Neighbours(u *Vertex) *NeighbourList {
	return g.adjacency[u.ID]
}

// EraseNeighbour removes the neighbour element e from the list of u.
func (g *Graph) EraseNeighbour(u *Vertex, e *NeighbourElem) {
	g.adjacency[u.ID].Remove(e)
}

// NoVertices returns the size of the vertex set.
func (g *Graph) NoVertices() int { return len(g.vertices) }

// VertexByID returns the shared vertex value for id.
func (g *Graph) VertexByID(id int) *Vertex { return g.vertices[id] }
