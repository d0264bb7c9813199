package scc

import (
	"github.com/google/btree"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// partition groups vertices by how many sampled vertices reach them and
// how many they reach. Vertices sharing a partition are the only ones the
// explorers ever have to compare.
type partition struct {
	ancestorsNo   int
	descendantsNo int
}

// partitionLess orders partitions by ancestors ascending, then
// descendants descending, matching the topological position of the
// partitions' slots.
func partitionLess(a, b partition) bool {
	if a.ancestorsNo != b.ancestorsNo {
		return a.ancestorsNo < b.ancestorsNo
	}
	return a.descendantsNo > b.descendantsNo
}

// partitionHeaps manages the per-partition UP or DOWN sets of vertices
// whose partition changed and must move toward the partition's anchor.
type partitionHeaps struct {
	dir           direction
	less          func(x, y int) bool
	heaps         map[partition]*btree.BTreeG[int]
	modifiedHeaps []partition
}

// newPartitionHeaps creates the UP (forward) or DOWN (backward) side.
func newPartitionHeaps(ord order.Order, dir direction) *partitionHeaps {
	return &partitionHeaps{
		dir:   dir,
		less:  order.Less(ord),
		heaps: make(map[partition]*btree.BTreeG[int]),
	}
}

func (h *partitionHeaps) createEmptySet(p partition) {
	if _, ok := h.heaps[p]; !ok {
		h.heaps[p] = btree.NewG(btreeDegree, h.less)
	}
}

func (h *partitionHeaps) insert(p partition, u *graph.Vertex) {
	if h.heaps[p].Len() == 0 {
		h.modifiedHeaps = append(h.modifiedHeaps, p)
	}
	h.heaps[p].ReplaceOrInsert(u.ID)
}

// processHeap drains the set of p, re-anchoring each vertex next to the
// partition's dummy node: the UP side picks order-maximal vertices and
// places them after the dummy, the DOWN side order-minimal ones before it.
func (h *partitionHeaps) processHeap(ord order.Order, p partition, dummyID int) {
	heap := h.heaps[p]
	for heap.Len() > 0 {
		var vertexID int
		if h.dir == forward {
			vertexID, _ = heap.Max()
		} else {
			vertexID, _ = heap.Min()
		}
		heap.Delete(vertexID)
		ord.Remove(vertexID)
		if h.dir == forward {
			ord.InsertAfter(vertexID, dummyID)
		} else {
			ord.InsertBefore(vertexID, dummyID)
		}
	}
}

// dummySlot maps a partition to the id of the front node of its dummy
// pair in the dynamic order.
type dummySlot struct {
	p       partition
	frontID int
}

func dummySlotLess(a, b dummySlot) bool { return partitionLess(a.p, b.p) }

// partitionsHandler owns the partition of every vertex, the dummy anchor
// pairs in the dynamic order and both partition heap sides.
type partitionsHandler struct {
	order      order.Order
	partitions []partition
	dummyIDs   *btree.BTreeG[dummySlot]
	up         *partitionHeaps
	down       *partitionHeaps
}

func newPartitionsHandler(noVertices int, ord order.Order) *partitionsHandler {
	h := &partitionsHandler{
		order:      ord,
		partitions: make([]partition, noVertices),
		dummyIDs:   btree.NewG(btreeDegree, dummySlotLess),
		up:         newPartitionHeaps(ord, forward),
		down:       newPartitionHeaps(ord, backward),
	}
	// The anchor of the (0, 0) partition has to sit in front of every
	// vertex, so it is moved there by hand.
	h.insertDummy(partition{})
	front, _ := h.dummyIDs.Get(dummySlot{p: partition{}})
	ord.Remove(front.frontID)
	ord.InsertBefore(front.frontID, ord.First())
	return h
}

// dummyIDsOf returns the ids of the partition's dummy pair. The two nodes
// always have consecutive ids.
func (h *partitionsHandler) dummyIDsOf(p partition) (front, back int) {
	slot, _ := h.dummyIDs.Get(dummySlot{p: p})
	return slot.frontID, slot.frontID + 1
}

// nextDummy returns the smallest registered partition strictly after p.
func (h *partitionsHandler) nextDummy(p partition) (partition, bool) {
	var result partition
	found := false
	h.dummyIDs.AscendGreaterOrEqual(dummySlot{p: p}, func(slot dummySlot) bool {
		if slot.p == p {
			return true
		}
		result = slot.p
		found = true
		return false
	})
	return result, found
}

// insertDummy registers p and threads its dummy pair into the order just
// before the next partition's pair.
func (h *partitionsHandler) insertDummy(p partition) {
	if h.dummyIDs.Has(dummySlot{p: p}) {
		return
	}

	front := h.order.Capacity()
	back := front + 1
	h.dummyIDs.ReplaceOrInsert(dummySlot{p: p, frontID: front})
	h.order.ExtendCapacity()
	h.order.ExtendCapacity()

	h.up.createEmptySet(p)
	h.down.createEmptySet(p)

	if next, ok := h.nextDummy(p); !ok {
		h.order.InsertBack(front)
	} else {
		nextFront, _ := h.dummyIDsOf(next)
		h.order.InsertBefore(front, nextFront)
	}

	h.order.InsertAfter(back, front)
}

// fillUpAndDown drains the sampled-propagation deltas: every vertex whose
// ancestor or descendant count grew moves to its new partition, joining
// the UP set when the partition got larger and DOWN when it got smaller.
func (h *partitionsHandler) fillUpAndDown(forwardContext, backwardContext *sampleContext) {
	for _, u := range forwardContext.shared.reached {
		newAncestorsNo := forwardContext.reachedCounter[u.ID]
		newDescendantsNo := backwardContext.reachedCounter[u.ID]
		if newAncestorsNo == 0 && newDescendantsNo == 0 {
			continue
		}
		forwardContext.reachedCounter[u.ID] = 0
		backwardContext.reachedCounter[u.ID] = 0

		oldPartition := h.partitions[u.ID]
		newPartition := partition{
			ancestorsNo:   oldPartition.ancestorsNo + newAncestorsNo,
			descendantsNo: oldPartition.descendantsNo + newDescendantsNo,
		}
		h.partitions[u.ID] = newPartition
		h.insertDummy(newPartition)

		if partitionLess(newPartition, oldPartition) {
			h.down.insert(newPartition, u)
		} else {
			h.up.insert(newPartition, u)
		}
	}
}

func (h *partitionsHandler) processUpAndDown() {
	for _, p := range h.up.modifiedHeaps {
		front, _ := h.dummyIDsOf(p)
		h.up.processHeap(h.order, p, front)
	}
	h.up.modifiedHeaps = h.up.modifiedHeaps[:0]

	for _, p := range h.down.modifiedHeaps {
		_, back := h.dummyIDsOf(p)
		h.down.processHeap(h.order, p, back)
	}
	h.down.modifiedHeaps = h.down.modifiedHeaps[:0]
}
