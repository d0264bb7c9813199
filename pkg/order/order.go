// Package order maintains a mutable total order over integer ids, used as
// an online topological order by the incremental SCC algorithms.
package order

import (
	"fmt"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

// Order is a list of distinct ids supporting insertion next to an existing
// element, removal and relative-order queries. Implementations trade
// simplicity for IsBefore cost: BasicList is O(n), Treap O(log n),
// TwoLevelList O(1).
type Order interface {
	// InsertBack appends x at the end of the order.
	InsertBack(x int)
	// InsertBefore inserts x just before y.
	InsertBefore(x, y int)
	// InsertAfter inserts x just after y.
	InsertAfter(x, y int)
	// Remove deletes x from the order.
	Remove(x int)
	// IsBefore reports whether x occurs before y.
	IsBefore(x, y int) bool
	// Capacity returns the maximum number of ids the order can hold.
	Capacity() int
	// ExtendCapacity grows the id space by one.
	ExtendCapacity()
	// First returns the front element of the order.
	First() int
}

// Less adapts an order into a strict weak ordering usable as an ordered
// set comparator.
func Less(o Order) func(x, y int) bool {
	return o.IsBefore
}

// FindUnionLess is Less with equal representatives collapsed: ids of the
// same component compare by id, everything else by the representatives'
// positions in the order.
func FindUnionLess(o Order, findUnion *graph.FindUnion) func(x, y int) bool {
	return func(x, y int) bool {
		xRepr := findUnion.FindRepresentant(x)
		yRepr := findUnion.FindRepresentant(y)
		if xRepr == yRepr {
			return x < y
		}
		return o.IsBefore(xRepr, yRepr)
	}
}

// Violating an order precondition means the caller's invariants are broken
// beyond recovery, so these halt the process.

func assureExists(x int, present bool) {
	if !present {
		panic(fmt.Sprintf("order: element does not exist: %d", x))
	}
}

func assureDoesNotExist(x int, present bool) {
	if present {
		panic(fmt.Sprintf("order: element already exists: %d", x))
	}
}
