package graph

// NeighbourElem is a node of a NeighbourList. The list's sentinel is the
// only element without a vertex, which lets Next detect the list end
// without a back-pointer and keeps whole-list splices constant time.
type NeighbourElem struct {
	next, prev *NeighbourElem
	Vertex     *Vertex
}

// Next returns the following element or nil when the list end is reached.
func (e *NeighbourElem) Next() *NeighbourElem {
	if e.next == nil || e.next.Vertex == nil {
		return nil
	}
	return e.next
}

// NeighbourList is a doubly linked ring of vertex references. It exists
// because adjacency lists need constant-time splice of a whole list and
// mid-sequence erase through an element handle.
type NeighbourList struct {
	root NeighbourElem
	len  int
}

func newNeighbourList() *NeighbourList {
	l := &NeighbourList{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

// Len returns the number of stored neighbours.
func (l *NeighbourList) Len() int { return l.len }

// Front returns the first element or nil when the list is empty.
func (l *NeighbourList) Front() *NeighbourElem {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// PushBack appends a neighbour reference at the end of the list.
func (l *NeighbourList) PushBack(v *Vertex) *NeighbourElem {
	e := &NeighbourElem{Vertex: v}
	at := l.root.prev
	e.prev = at
	e.next = &l.root
	at.next = e
	l.root.prev = e
	l.len++
	return e
}

// Remove unlinks e from the list. The element must belong to this list.
func (l *NeighbourList) Remove(e *NeighbourElem) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	l.len--
}

// SpliceBack moves every element of other to the end of l in constant
// time. When it returns, other is empty.
func (l *NeighbourList) SpliceBack(other *NeighbourList) {
	if other.len == 0 || l == other {
		return
	}
	first, last := other.root.next, other.root.prev
	at := l.root.prev
	first.prev = at
	at.next = first
	last.next = &l.root
	l.root.prev = last
	l.len += other.len
	other.root.next = &other.root
	other.root.prev = &other.root
	other.len = 0
}

// Init resets the list to the empty state, dropping all elements.
func (l *NeighbourList) Init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}
