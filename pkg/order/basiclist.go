package order

import "container/list"

// BasicList is the trivial order implementation on a doubly linked list.
// IsBefore scans the list, so it is only suitable as a baseline.
type BasicList struct {
	order    *list.List
	elements []*list.Element
}

// NewBasicList creates the order 0, 1, ..., noElements-1.
func NewBasicList(noElements int) *BasicList {
	b := &BasicList{
		order:    list.New(),
		elements: make([]*list.Element, noElements),
	}
	for i := 0; i < noElements; i++ {
		b.InsertBack(i)
	}
	return b
}

func (b *BasicList) InsertBack(x int) {
	assureDoesNotExist(x, b.elements[x] != nil)
	b.elements[x] = b.order.PushBack(x)
}

func (b *BasicList) InsertBefore(x, y int) {
	assureDoesNotExist(x, b.elements[x] != nil)
	assureExists(y, b.elements[y] != nil)
	b.elements[x] = b.order.InsertBefore(x, b.elements[y])
}

func (b *BasicList) InsertAfter(x, y int) {
	assureDoesNotExist(x, b.elements[x] != nil)
	assureExists(y, b.elements[y] != nil)
	b.elements[x] = b.order.InsertAfter(x, b.elements[y])
}

func (b *BasicList) Remove(x int) {
	assureExists(x, b.elements[x] != nil)
	b.order.Remove(b.elements[x])
	b.elements[x] = nil
}

func (b *BasicList) IsBefore(x, y int) bool {
	assureExists(x, b.elements[x] != nil)
	assureExists(y, b.elements[y] != nil)

	for e := b.elements[x].Next(); e != nil; e = e.Next() {
		if e.Value.(int) == y {
			return true
		}
	}
	return false
}

func (b *BasicList) Capacity() int { return len(b.elements) }

func (b *BasicList) ExtendCapacity() {
	b.elements = append(b.elements, nil)
}

func (b *BasicList) First() int {
	if b.order.Len() == 0 {
		panic("order: cannot retrieve the first element of an empty list")
	}
	return b.order.Front().Value.(int)
}
