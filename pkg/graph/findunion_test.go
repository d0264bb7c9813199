package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUnionSingletons(t *testing.T) {
	assert := assert.New(t)

	f := NewFindUnion(4)
	for i := 0; i < 4; i++ {
		assert.Equal(i, f.FindRepresentant(i))
	}
}

func TestFindUnionMerge(t *testing.T) {
	assert := assert.New(t)

	f := NewFindUnion(5)
	result, ok := f.Union(0, 1)
	assert.True(ok)
	// On a size tie the first argument keeps the representative.
	assert.Equal(0, result.Kept)
	assert.Equal(1, result.Absorbed)

	// Union by size: the pair beats the singleton.
	result, ok = f.Union(2, 0)
	assert.True(ok)
	assert.Equal(0, result.Kept)
	assert.Equal(2, result.Absorbed)

	assert.Equal(0, f.FindRepresentant(1))
	assert.Equal(0, f.FindRepresentant(2))

	// FindRepresentant is idempotent.
	assert.Equal(f.FindRepresentant(2), f.FindRepresentant(f.FindRepresentant(2)))
}

func TestFindUnionAlreadyMerged(t *testing.T) {
	assert := assert.New(t)

	f := NewFindUnion(3)
	_, ok := f.Union(0, 1)
	assert.True(ok)
	_, ok = f.Union(1, 0)
	assert.False(ok)
	_, ok = f.Union(0, 0)
	assert.False(ok)
}
