package scc

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/order"
)

type algorithmConstructor func(noVertices int, rng *rand.Rand) Algorithm

var algorithmConstructors = map[string]algorithmConstructor{
	"naive_dfs": func(noVertices int, _ *rand.Rand) Algorithm {
		return NewNaiveDfs(noVertices)
	},
	"naive_one_way_search": func(noVertices int, _ *rand.Rand) Algorithm {
		return NewNaiveOneWaySearch(noVertices)
	},
	"one_way_search": func(noVertices int, _ *rand.Rand) Algorithm {
		return NewOneWaySearch(noVertices)
	},
	"two_way_search": func(noVertices int, _ *rand.Rand) Algorithm {
		return NewTwoWaySearch(noVertices)
	},
	"limited_search": func(noVertices int, rng *rand.Rand) Algorithm {
		return NewLimitedSearch(noVertices, rng)
	},
	"compatible_search": func(noVertices int, _ *rand.Rand) Algorithm {
		return NewCompatibleSearch(noVertices, order.NewTwoLevelList(noVertices))
	},
	"soft_threshold_search": func(noVertices int, rng *rand.Rand) Algorithm {
		return NewSoftThresholdSearch(noVertices, order.NewTwoLevelList(noVertices), rng)
	},
	"soft_threshold_search_basic_list": func(noVertices int, rng *rand.Rand) Algorithm {
		return NewSoftThresholdSearch(noVertices, order.NewBasicList(noVertices), rng)
	},
	"soft_threshold_search_treap": func(noVertices int, rng *rand.Rand) Algorithm {
		return NewSoftThresholdSearch(noVertices, order.NewTreap(noVertices, rng), rng)
	},
	"topological_search": func(noVertices int, _ *rand.Rand) Algorithm {
		return NewTopologicalSearch(noVertices)
	},
	"sample_search": func(noVertices int, rng *rand.Rand) Algorithm {
		return NewSampleSearch(noVertices, order.NewTwoLevelList(noVertices), rng)
	},
	"sparsified_sample_search": func(noVertices int, rng *rand.Rand) Algorithm {
		updatedNoVertices := simpleSparsifierUpdatedNoVertices(noVertices)
		ord := order.NewTwoLevelList(updatedNoVertices)
		return NewSparsifiedSampleSearch(updatedNoVertices, noVertices, ord, rng)
	},
}

// New creates the algorithm registered under name over noVertices
// vertices. The rng drives every randomised choice the algorithm makes.
func New(name string, noVertices int, rng *rand.Rand) (Algorithm, error) {
	constructor, ok := algorithmConstructors[name]
	if !ok {
		return nil, errors.Errorf("unknown algorithm: %s", name)
	}
	return constructor(noVertices, rng), nil
}

// Names lists the registered algorithm names in ascending order.
func Names() []string {
	names := make([]string, 0, len(algorithmConstructors))
	for name := range algorithmConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
