package order

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
)

func implementations(noElements int) map[string]Order {
	return map[string]Order{
		"basic_list": NewBasicList(noElements),
		"treap":      NewTreap(noElements, rand.New(rand.NewSource(123))),
		"two_level":  NewTwoLevelList(noElements),
	}
}

// model mirrors an Order with a plain slice for cross-checking.
type model struct {
	ids []int
}

func (m *model) indexOf(x int) int {
	for i, id := range m.ids {
		if id == x {
			return i
		}
	}
	return -1
}

func (m *model) insertAt(pos, x int) {
	m.ids = append(m.ids, 0)
	copy(m.ids[pos+1:], m.ids[pos:])
	m.ids[pos] = x
}

func (m *model) remove(x int) {
	pos := m.indexOf(x)
	m.ids = append(m.ids[:pos], m.ids[pos+1:]...)
}

func assertMatchesModel(t *testing.T, name string, o Order, m *model) {
	t.Helper()
	for _, x := range m.ids {
		for _, y := range m.ids {
			if x == y {
				continue
			}
			expected := m.indexOf(x) < m.indexOf(y)
			assert.Equalf(t, expected, o.IsBefore(x, y),
				"%s: IsBefore(%d, %d)", name, x, y)
		}
	}
	if len(m.ids) > 0 {
		assert.Equalf(t, m.ids[0], o.First(), "%s: First", name)
	}
}

func TestOrderInitialSequence(t *testing.T) {
	for name, o := range implementations(5) {
		m := &model{ids: []int{0, 1, 2, 3, 4}}
		assertMatchesModel(t, name, o, m)
	}
}

func TestOrderInsertAndRemove(t *testing.T) {
	for name, o := range implementations(8) {
		m := &model{ids: []int{0, 1, 2, 3, 4, 5, 6, 7}}

		o.Remove(3)
		m.remove(3)
		o.InsertAfter(3, 6)
		m.insertAt(m.indexOf(6)+1, 3)
		assertMatchesModel(t, name, o, m)

		o.Remove(0)
		m.remove(0)
		o.InsertBefore(0, 7)
		m.insertAt(m.indexOf(7), 0)
		assertMatchesModel(t, name, o, m)

		o.Remove(5)
		m.remove(5)
		o.InsertBack(5)
		m.ids = append(m.ids, 5)
		assertMatchesModel(t, name, o, m)
	}
}

func TestOrderInsertRemoveRestoresOrder(t *testing.T) {
	for name, o := range implementations(6) {
		m := &model{ids: []int{0, 1, 2, 3, 4, 5}}

		// Moving an element and putting it back must not disturb the
		// relative order of the others.
		o.Remove(2)
		o.InsertAfter(2, 4)
		o.Remove(2)
		o.InsertAfter(2, 1)
		assertMatchesModel(t, name, o, m)
	}
}

func TestOrderRandomisedAgainstModel(t *testing.T) {
	const noElements = 40
	const noOperations = 2000

	rng := rand.New(rand.NewSource(7))
	for name, o := range implementations(noElements) {
		m := &model{}
		for i := 0; i < noElements; i++ {
			m.ids = append(m.ids, i)
		}

		for op := 0; op < noOperations; op++ {
			if len(m.ids) > 1 && rng.Intn(3) == 0 {
				x := m.ids[rng.Intn(len(m.ids))]
				o.Remove(x)
				m.remove(x)
				continue
			}

			// Reinsert a missing element next to a random present one.
			missing := -1
			for i := 0; i < noElements; i++ {
				if m.indexOf(i) == -1 {
					missing = i
					break
				}
			}
			if missing == -1 || len(m.ids) == 0 {
				continue
			}
			y := m.ids[rng.Intn(len(m.ids))]
			if rng.Intn(2) == 0 {
				o.InsertAfter(missing, y)
				m.insertAt(m.indexOf(y)+1, missing)
			} else {
				o.InsertBefore(missing, y)
				m.insertAt(m.indexOf(y), missing)
			}
		}
		assertMatchesModel(t, name, o, m)
	}
}

func TestOrderTotalityProperty(t *testing.T) {
	for name, o := range implementations(10) {
		for x := 0; x < 10; x++ {
			for y := 0; y < 10; y++ {
				if x == y {
					continue
				}
				assert.NotEqualf(t, o.IsBefore(x, y), o.IsBefore(y, x),
					"%s: exactly one of IsBefore(%d, %d) and IsBefore(%d, %d)", name, x, y, y, x)
			}
		}
	}
}

func TestOrderCapacityExtension(t *testing.T) {
	for name, o := range implementations(3) {
		assert.Equalf(t, 3, o.Capacity(), "%s", name)
		o.ExtendCapacity()
		assert.Equalf(t, 4, o.Capacity(), "%s", name)
		o.InsertBack(3)
		assert.Truef(t, o.IsBefore(2, 3), "%s: extended element goes last", name)
	}
}

func TestOrderPreconditionViolationsPanic(t *testing.T) {
	for name, o := range implementations(4) {
		assert.Panicsf(t, func() { o.InsertBack(2) }, "%s: insert existing", name)
		assert.Panicsf(t, func() { o.InsertAfter(2, 3) }, "%s: insert existing after", name)
		o.Remove(1)
		assert.Panicsf(t, func() { o.Remove(1) }, "%s: remove missing", name)
		assert.Panicsf(t, func() { o.IsBefore(1, 2) }, "%s: compare missing", name)
		assert.Panicsf(t, func() { o.InsertAfter(1, 1) }, "%s: anchor missing", name)
	}
}

func TestBasicListFirstOfEmptyPanics(t *testing.T) {
	o := NewBasicList(1)
	o.Remove(0)
	assert.Panics(t, func() { o.First() })
}

func TestFindUnionLessCollapsesComponents(t *testing.T) {
	assert := assert.New(t)

	o := NewTwoLevelList(4)
	findUnion := graph.NewFindUnion(4)
	less := FindUnionLess(o, findUnion)

	// Distinct components compare by representative position.
	assert.True(less(0, 3))
	assert.False(less(3, 0))

	result, ok := findUnion.Union(1, 2)
	assert.True(ok)
	assert.Equal(1, result.Kept)

	// Same component falls back to the id tiebreak.
	assert.True(less(1, 2))
	assert.False(less(2, 1))
}
