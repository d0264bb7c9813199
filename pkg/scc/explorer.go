package scc

import (
	"github.com/google/btree"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

// explorationState is the bookkeeping shared by both explorers of one
// sample search: the per-vertex exploration stamp and the exploration
// counter. It is owned by the algorithm and reset at step boundaries.
type explorationState struct {
	status         []int
	noExplorations int
}

// checks if a slice of size <= 2 contains an element.
func containsID(ids []int, id int) bool {
	return ids[0] == id || (len(ids) == 2 && ids[1] == id)
}

// explorer walks one direction of the partition-restricted bidirectional
// exploration of the sample search. Alive holds the frontier, dead the
// already explored vertices; both are ordered by the dynamic order with
// same-component ids collapsed.
type explorer struct {
	dir        direction
	alive      *btree.BTreeG[int]
	dead       *btree.BTreeG[int]
	graph      *graph.Graph
	partitions []partition
	findUnion  *graph.FindUnion
	order      order.Order
	state      *explorationState

	cycleCreated            bool
	visitedSCC              []int
	visited                 []int
	marked                  []int
	pivotID                 int
	hasPivot                bool
	finishedProcessingAlive bool
	reorderedComponent      []int
}

func newExplorer(dir direction, ord order.Order, g *graph.Graph, partitions []partition,
	findUnion *graph.FindUnion, state *explorationState) *explorer {
	less := order.FindUnionLess(ord, findUnion)
	return &explorer{
		dir:                dir,
		alive:              btree.NewG(btreeDegree, less),
		dead:               btree.NewG(btreeDegree, less),
		graph:              g,
		partitions:         partitions,
		findUnion:          findUnion,
		order:              ord,
		state:              state,
		visitedSCC:         make([]int, g.NoVertices()),
		visited:            make([]int, g.NoVertices()),
		marked:             make([]int, g.NoVertices()),
		reorderedComponent: make([]int, ord.Capacity()+1),
	}
}

func (e *explorer) aliveOrDead(vertexID int) bool {
	return e.alive.Has(vertexID) || e.dead.Has(vertexID)
}

func (e *explorer) bestAliveOption() (int, bool) {
	if e.dir == forward {
		return e.alive.Min()
	}
	return e.alive.Max()
}

// bestDeadOption is the dead vertex the opposite frontier could still
// cross: the order-maximal dead one forward, minimal backward.
func (e *explorer) bestDeadOption() (int, bool) {
	if e.dir == forward {
		return e.dead.Max()
	}
	return e.dead.Min()
}

// surpassedOtherBestDead reports that the frontier moved past the other
// explorer's best dead vertex, so the two searches can no longer meet.
func (e *explorer) surpassedOtherBestDead(currentAlive, otherBestDead int) bool {
	if e.dir == forward {
		return e.order.IsBefore(otherBestDead, currentAlive)
	}
	return e.order.IsBefore(currentAlive, otherBestDead)
}

func (e *explorer) anyAlive() bool {
	if e.alive.Len() == 0 {
		e.finishedProcessingAlive = true
	}
	return e.alive.Len() > 0
}

func (e *explorer) addAlive(vertexID int) {
	e.visitedSCC[e.findUnion.FindRepresentant(vertexID)] = e.state.noExplorations
	e.alive.ReplaceOrInsert(vertexID)
}

func (e *explorer) maximumDead() (int, bool) { return e.dead.Max() }
func (e *explorer) minimumDead() (int, bool) { return e.dead.Min() }

func (e *explorer) deadAsVector() []int {
	deadVec := make([]int, 0, e.dead.Len())
	e.dead.Ascend(func(id int) bool {
		deadVec = append(deadVec, id)
		return true
	})
	e.dead.Clear(false)
	return deadVec
}

func (e *explorer) populateDeadWithVector(deadVec []int) {
	for _, uID := range deadVec {
		e.dead.ReplaceOrInsert(e.findUnion.FindRepresentant(uID))
	}
}

func (e *explorer) eraseFromDead(vertexID int) {
	e.dead.Delete(e.findUnion.FindRepresentant(vertexID))
}

// explore retires vertexID to the dead set and feeds its
// partition-internal neighbours to the frontier, flagging a cycle when
// the other explorer already visited one of them.
func (e *explorer) explore(vertexID int, other *explorer) {
	vertex := e.graph.VertexByID(vertexID)
	reprID := e.findUnion.FindRepresentant(vertexID)
	e.alive.Delete(vertexID)
	e.dead.ReplaceOrInsert(vertexID)

	for elem := e.graph.Neighbours(vertex).Front(); elem != nil; elem = elem.Next() {
		neighbourReprID := e.findUnion.FindRepresentant(elem.Vertex.ID)
		if e.partitions[reprID] != e.partitions[neighbourReprID] {
			continue
		}
		if other.visitedSCC[neighbourReprID] == e.state.noExplorations {
			e.cycleCreated = true
		}
		if !e.aliveOrDead(elem.Vertex.ID) {
			e.addAlive(elem.Vertex.ID)
		}
	}
}

// processBestAliveOption handles one frontier vertex. It reports whether
// the processing loop of this explorer should terminate: either the
// frontier surpassed the other side's best dead vertex, or both sides met
// at a shared representative while a cycle is known (the pivot).
func (e *explorer) processBestAliveOption(other *explorer) bool {
	x, _ := e.bestAliveOption()
	xReprID := e.findUnion.FindRepresentant(x)
	if z, ok := other.bestDeadOption(); ok {
		zReprID := e.findUnion.FindRepresentant(z)

		if e.surpassedOtherBestDead(xReprID, zReprID) {
			e.finishedProcessingAlive = true
			return true
		}
		if xReprID == zReprID && (e.cycleCreated || other.cycleCreated) {
			e.finishedProcessingAlive = true
			e.pivotID = z
			e.hasPivot = true
			return true
		}
	}

	e.state.status[x] = e.state.noExplorations
	e.explore(x, other)
	return false
}

// dfs collects the canonical ids of every vertex reaching one of the
// permitted components through explored vertices.
func (e *explorer) dfs(start *graph.Vertex, permittedComponentsIDs []int, markedCanonicalIDs *[]int) {
	type frame struct {
		current    *graph.Vertex
		reprID     int
		marked     bool
		elem       *graph.NeighbourElem
		pending    int
		hasPending bool
	}

	open := func(current *graph.Vertex) frame {
		e.visited[current.ID] = e.state.noExplorations
		reprID := e.findUnion.FindRepresentant(current.ID)
		return frame{
			current: current,
			reprID:  reprID,
			marked:  containsID(permittedComponentsIDs, reprID),
			elem:    e.graph.Neighbours(current).Front(),
		}
	}

	stack := []frame{open(start)}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.hasPending {
			if e.marked[f.pending] == e.state.noExplorations {
				f.marked = true
			}
			f.hasPending = false
		}

		if f.elem == nil {
			if f.marked {
				*markedCanonicalIDs = append(*markedCanonicalIDs,
					e.findUnion.FindRepresentant(f.current.ID))
				e.marked[f.reprID] = e.state.noExplorations
			}
			stack = stack[:len(stack)-1]
			continue
		}

		neighbour := f.elem.Vertex
		f.elem = f.elem.Next()
		neighbourReprID := e.findUnion.FindRepresentant(neighbour.ID)

		if e.state.status[neighbour.ID] == e.state.noExplorations {
			if e.visited[neighbour.ID] != e.state.noExplorations {
				f.pending = neighbourReprID
				f.hasPending = true
				stack = append(stack, open(neighbour))
				continue
			}
			if e.marked[neighbourReprID] == e.state.noExplorations {
				f.marked = true
			}
		} else if containsID(permittedComponentsIDs, neighbourReprID) {
			f.marked = true
		}
	}
}

func (e *explorer) extendCanonicalOrder(currentID int, newCanonicalOrder *[]int) {
	currentReprID := e.findUnion.FindRepresentant(currentID)
	if e.reorderedComponent[currentReprID] != e.state.noExplorations {
		e.reorderedComponent[currentReprID] = e.state.noExplorations
		*newCanonicalOrder = append(*newCanonicalOrder, currentReprID)
	}
}

// drainCanonicalOrder empties the dead set into newCanonicalOrder,
// walking it backwards for a forward update and forwards otherwise, and
// skipping anything already reordered.
func (e *explorer) drainCanonicalOrder(startReprID int, newCanonicalOrder *[]int, updateForward bool) {
	e.reorderedComponent[startReprID] = e.state.noExplorations

	if updateForward {
		e.dead.Descend(func(id int) bool {
			e.extendCanonicalOrder(id, newCanonicalOrder)
			return true
		})
	} else {
		e.dead.Ascend(func(id int) bool {
			e.extendCanonicalOrder(id, newCanonicalOrder)
			return true
		})
	}

	e.dead.Clear(false)
}

// drainCanonicalOrderAround drains this explorer, appends the middle
// representative when a component was just created and then drains the
// other explorer.
func (e *explorer) drainCanonicalOrderAround(startReprID, middleID int, other *explorer,
	newCanonicalOrder *[]int, updateForward, newSCCCreated bool) {
	e.drainCanonicalOrder(startReprID, newCanonicalOrder, updateForward)
	middleReprID := e.findUnion.FindRepresentant(middleID)
	if newSCCCreated {
		*newCanonicalOrder = append(*newCanonicalOrder, middleReprID)
	}
	other.drainCanonicalOrder(middleReprID, newCanonicalOrder, updateForward)
}

func (e *explorer) clear() {
	e.alive.Clear(false)
	e.dead.Clear(false)
	e.cycleCreated = false
	e.hasPivot = false
	e.finishedProcessingAlive = false
}
