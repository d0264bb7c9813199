package scc

import (
	"container/list"
	"context"
	"math/rand"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// indexedList is a linked list of vertex ids with direct element handles,
// used for the active and passive sets of the soft-threshold search.
type indexedList struct {
	ids       *list.List
	iterators []*list.Element
}

func newIndexedList(noVertices int) *indexedList {
	return &indexedList{
		ids:       list.New(),
		iterators: make([]*list.Element, noVertices),
	}
}

// insert does nothing if the id is already present.
func (l *indexedList) insert(id int) {
	if l.iterators[id] == nil {
		l.iterators[id] = l.ids.PushBack(id)
	}
}

// remove does nothing if the id is absent.
func (l *indexedList) remove(id int) {
	if l.iterators[id] != nil {
		l.ids.Remove(l.iterators[id])
		l.iterators[id] = nil
	}
}

// removeElem deletes the element and returns its successor.
func (l *indexedList) removeElem(e *list.Element) *list.Element {
	next := e.Next()
	l.iterators[e.Value.(int)] = nil
	l.ids.Remove(e)
	return next
}

func (l *indexedList) clear() {
	for e := l.ids.Front(); e != nil; e = e.Next() {
		l.iterators[e.Value.(int)] = nil
	}
	l.ids.Init()
}

func (l *indexedList) isEmpty() bool { return l.ids.Len() == 0 }

func (l *indexedList) front() int { return l.ids.Front().Value.(int) }

// chooseRandom picks a uniformly random stored id.
func (l *indexedList) chooseRandom(rng *rand.Rand) int {
	size := l.ids.Len()
	if size == 0 {
		panic("soft-threshold search: cannot choose a random id from an empty list")
	}

	index := rng.Intn(size)
	e := l.ids.Front()
	for ; index > 0; index-- {
		e = e.Next()
	}
	return e.Value.(int)
}

// softThresholdTraversal keeps active and passive vertex lists per
// direction. Misordered active vertices are demoted to passive; when the
// active list drains, a fresh threshold is sampled from the passive set
// and the passive members on the correct side are promoted back.
type softThresholdTraversal struct {
	traversal
	dir     direction
	active  *indexedList
	passive *indexedList
}

func newSoftThresholdTraversal(noVertices int, ord order.Order, dir direction) *softThresholdTraversal {
	t := &softThresholdTraversal{
		dir:     dir,
		active:  newIndexedList(noVertices),
		passive: newIndexedList(noVertices),
	}
	t.traversal.init(noVertices, ord, t, dir)
	return t
}

func (t *softThresholdTraversal) insertActive(id int) { t.active.insert(id) }
func (t *softThresholdTraversal) removeActive(id int) { t.active.remove(id) }

func (t *softThresholdTraversal) anyActive() bool { return !t.active.isEmpty() }

func (t *softThresholdTraversal) nextActive() int { return t.active.front() }

func (t *softThresholdTraversal) moveFromActiveToPassive(u *graph.Vertex) {
	t.active.remove(u.ID)
	t.passive.insert(u.ID)
}

func (t *softThresholdTraversal) shouldMoveFromPassiveToActive(candidate, threshold int) bool {
	if candidate == threshold {
		return true
	}
	if t.dir == forward {
		return t.less(candidate, threshold)
	}
	return t.less(threshold, candidate)
}

// updateActivePassiveAndThreshold refreshes the threshold once this
// direction runs out of active vertices: the other side's passive set is
// dropped, a new threshold is drawn from this side's passive set and the
// correctly ordered passive members become active again.
func (t *softThresholdTraversal) updateActivePassiveAndThreshold(other *softThresholdTraversal, threshold *int, rng *rand.Rand) {
	if !t.active.isEmpty() {
		return
	}

	other.passive.clear()
	other.active.remove(*threshold)
	if t.passive.isEmpty() {
		return
	}

	*threshold = t.passive.chooseRandom(rng)
	for e := t.passive.ids.Front(); e != nil; {
		if t.shouldMoveFromPassiveToActive(e.Value.(int), *threshold) {
			t.active.insert(e.Value.(int))
			e = t.passive.removeElem(e)
		} else {
			e = e.Next()
		}
	}
}

func (t *softThresholdTraversal) clear() {
	t.traversal.clear()
	t.active.clear()
	t.passive.clear()
}

// SoftThresholdSearch implements the soft-threshold search of Haeupler,
// Kavitha, Mathew, Sen and Tarjan. O(m^(3/2)) total.
type SoftThresholdSearch struct {
	*haeuplerSearch
	forwardSets  *softThresholdTraversal
	backwardSets *softThresholdTraversal
	rng          *rand.Rand
}

// NewSoftThresholdSearch creates the algorithm over noVertices vertices
// using the provided dynamic order.
func NewSoftThresholdSearch(noVertices int, ord order.Order, rng *rand.Rand) *SoftThresholdSearch {
	forwardSets := newSoftThresholdTraversal(noVertices, ord, forward)
	backwardSets := newSoftThresholdTraversal(noVertices, ord, backward)
	a := &SoftThresholdSearch{
		haeuplerSearch: newHaeuplerSearch(noVertices, ord, &forwardSets.traversal, &backwardSets.traversal),
		forwardSets:    forwardSets,
		backwardSets:   backwardSets,
		rng:            rng,
	}
	a.searchSteps = a.performSearchSteps
	a.clearTraversals = func() {
		forwardSets.clear()
		backwardSets.clear()
	}
	return a
}

// Run implements Algorithm.
func (a *SoftThresholdSearch) Run(ctx context.Context, edges []graph.Edge) {
	a.run(ctx, a, edges)
}

func (a *SoftThresholdSearch) performSearchSteps(u *graph.Vertex) {
	threshold := u.ID

	for a.forwardSets.anyActive() && a.backwardSets.anyActive() {
		forwardVertexID := a.forwardSets.nextActive()
		forwardVertex := a.graph.VertexByID(forwardVertexID)
		backwardVertexID := a.backwardSets.nextActive()
		backwardVertex := a.reversedGraph.VertexByID(backwardVertexID)

		if a.order.IsBefore(forwardVertexID, backwardVertexID) {
			a.searchStep(forwardVertex, backwardVertex)
		} else {
			// The published description misses the corner case when
			// forward, threshold and backward all coincide.
			if a.order.IsBefore(threshold, forwardVertexID) ||
				(threshold == forwardVertexID && threshold == backwardVertexID) {
				a.forwardSets.moveFromActiveToPassive(forwardVertex)
			}
			if a.order.IsBefore(backwardVertexID, threshold) {
				a.backwardSets.moveFromActiveToPassive(backwardVertex)
			}
		}

		a.forwardSets.updateActivePassiveAndThreshold(a.backwardSets, &threshold, a.rng)
		a.backwardSets.updateActivePassiveAndThreshold(a.forwardSets, &threshold, a.rng)
	}
}
