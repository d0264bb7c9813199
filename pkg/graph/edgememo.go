package graph

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// EdgeMemo remembers in which traversal an edge was last seen. An edge is
// "seen now" iff its stored stamp equals the current traversal stamp, so
// the map never needs clearing between traversals.
type EdgeMemo struct {
	stamps map[uint64]int
}

// NewEdgeMemo creates an empty memo.
func NewEdgeMemo() *EdgeMemo {
	return &EdgeMemo{stamps: make(map[uint64]int)}
}

func pairKey(u, v int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(u))
	binary.LittleEndian.PutUint64(buf[8:], uint64(v))
	return xxhash.Sum64(buf[:])
}

// Seen reports whether (u, v) was already marked with stamp.
func (m *EdgeMemo) Seen(u, v, stamp int) bool {
	return m.stamps[pairKey(u, v)] == stamp
}

// Mark records that (u, v) was visited with stamp.
func (m *EdgeMemo) Mark(u, v, stamp int) {
	m.stamps[pairKey(u, v)] = stamp
}

// Len returns the number of memoised edges.
func (m *EdgeMemo) Len() int { return len(m.stamps) }

// Reset drops all entries. Called periodically to bound memory.
func (m *EdgeMemo) Reset() {
	m.stamps = make(map[uint64]int)
}
