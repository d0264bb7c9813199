package order

// TwoLevelList is the production order implementation: a Dietz–Sleator
// style two-level labelling. Elements live in lower nodes grouped under
// upper nodes; comparing two elements compares the upper labels and falls
// back to the lower labels, so IsBefore is O(1). Inserts relabel a local
// window and amortise to O(1).
type TwoLevelList struct {
	head, tail *lowerNode
	nodes      []*lowerNode
}

const (
	logMaxLabel = 62
	maxLabel    = uint64(1) << logMaxLabel
	// Smallest gap kept between lower labels during a redistribution.
	minStepSize = maxLabel / (logMaxLabel + 1)
)

func ceilDiv(x, y uint64) uint64 { return (x + y - 1) / y }

type upperNode struct {
	label uint64
	next  *upperNode
	prev  *upperNode
}

type lowerNode struct {
	label  uint64
	next   *lowerNode
	prev   *lowerNode
	parent *upperNode
	value  int
}

// insertAfter creates a new upper node directly after u. When the label
// gap to the following nodes is too tight it first spreads the labels of
// the window where the j-th successor must be at least j*j away.
func (u *upperNode) insertAfter() *upperNode {
	current := u.next
	j := uint64(1)
	for ; current != nil && current.label-u.label <= j*j; j++ {
		current = current.next
	}
	mul := ceilDiv(maxLabel-1-u.label, j)
	if current != nil {
		mul = ceilDiv(current.label-u.label, j)
	}

	current = u.next
	for k := uint64(1); k < j; k++ {
		current.label = u.label + mul*k
		current = current.next
	}

	result := &upperNode{
		label: ceilDiv(u.label+u.next.label, 2),
		next:  u.next,
		prev:  u,
	}
	u.next.prev = result
	u.next = result
	return result
}

func (u *upperNode) remove() {
	if u.prev != nil {
		if u.next != nil {
			u.next.prev = u.prev
		}
		u.prev.next = u.next
	}
	u.next = nil
	u.prev = nil
}

func (u *upperNode) compare(other *upperNode) int {
	switch {
	case u.label < other.label:
		return -1
	case u.label > other.label:
		return 1
	default:
		return 0
	}
}

// insertAfter links a new lower node carrying value directly after l.
// If no free label fits between l and its successor, the same-parent
// window is redistributed evenly, spilling into freshly created upper
// nodes when a parent runs out of label space.
func (l *lowerNode) insertAfter(value int) *lowerNode {
	nextLabel := maxLabel
	result := &lowerNode{next: l.next, prev: l, parent: l.parent, value: value}
	if l.next != nil {
		l.next.prev = result
		if l.parent == l.next.parent {
			nextLabel = l.next.label
		}
	}
	l.next = result

	if nextLabel != l.label+1 {
		result.label = min((l.label+nextLabel)/2, l.label+logMaxLabel)
		return result
	}

	nodesWithSameParent := 1
	begin := l
	for begin.prev != nil && begin.prev.parent == l.parent {
		begin = begin.prev
		nodesWithSameParent++
	}
	end := l
	for end.next != nil && end.next.parent == l.parent {
		end = end.next
		nodesWithSameParent++
	}
	end = end.next

	current := begin
	currentParent := l.parent
	for {
		stepSize := max(minStepSize, maxLabel/uint64(nodesWithSameParent+1))

		processed := 0
		for currentLabel := stepSize; currentLabel < maxLabel && processed < logMaxLabel; currentLabel += stepSize {
			if current == end {
				return result
			}
			current.label = currentLabel
			current.parent = currentParent
			current = current.next
			nodesWithSameParent--
			processed++
		}

		if current == end {
			return result
		}
		currentParent = currentParent.insertAfter()
	}
}

func (l *lowerNode) remove() {
	uniqueParent := true
	if l.next != nil {
		l.next.prev = l.prev
		uniqueParent = l.next.parent != l.parent
	}
	if l.prev != nil {
		l.prev.next = l.next
		uniqueParent = uniqueParent && l.prev.parent != l.parent
	}
	if uniqueParent && l.parent != nil {
		l.parent.remove()
	}
}

func (l *lowerNode) compare(other *lowerNode) int {
	if parentCompare := l.parent.compare(other.parent); parentCompare != 0 {
		return parentCompare
	}
	switch {
	case l.label < other.label:
		return -1
	case l.label > other.label:
		return 1
	default:
		return 0
	}
}

// NewTwoLevelList creates the order 0, 1, ..., noElements-1.
func NewTwoLevelList(noElements int) *TwoLevelList {
	upperHead := &upperNode{label: 0}
	upperTail := &upperNode{label: maxLabel - 1, prev: upperHead}
	upperHead.next = upperTail

	t := &TwoLevelList{nodes: make([]*lowerNode, noElements)}
	t.head = &lowerNode{label: 0, parent: upperHead}
	t.tail = &lowerNode{label: maxLabel - 1, prev: t.head, parent: upperTail}
	t.head.next = t.tail

	for i := noElements; i > 0; i-- {
		t.nodes[i-1] = t.head.insertAfter(i - 1)
	}
	return t
}

func (t *TwoLevelList) InsertBack(x int) {
	assureDoesNotExist(x, t.nodes[x] != nil)
	t.nodes[x] = t.tail.prev.insertAfter(x)
}

func (t *TwoLevelList) InsertBefore(x, y int) {
	assureDoesNotExist(x, t.nodes[x] != nil)
	assureExists(y, t.nodes[y] != nil)
	t.nodes[x] = t.nodes[y].prev.insertAfter(x)
}

func (t *TwoLevelList) InsertAfter(x, y int) {
	assureDoesNotExist(x, t.nodes[x] != nil)
	assureExists(y, t.nodes[y] != nil)
	t.nodes[x] = t.nodes[y].insertAfter(x)
}

func (t *TwoLevelList) Remove(x int) {
	assureExists(x, t.nodes[x] != nil)
	t.nodes[x].remove()
	t.nodes[x] = nil
}

func (t *TwoLevelList) IsBefore(x, y int) bool {
	assureExists(x, t.nodes[x] != nil)
	assureExists(y, t.nodes[y] != nil)
	return t.nodes[x].compare(t.nodes[y]) < 0
}

func (t *TwoLevelList) Capacity() int { return len(t.nodes) }

func (t *TwoLevelList) ExtendCapacity() {
	t.nodes = append(t.nodes, nil)
}

func (t *TwoLevelList) First() int { return t.head.next.value }
