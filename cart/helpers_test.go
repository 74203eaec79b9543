package cart

import (
	"encoding/binary"
	"testing"

	"github.com/hupe1980/cartkit/feature"
	"github.com/hupe1980/cartkit/testutil"
	"github.com/hupe1980/cartkit/unitset"
	"github.com/stretchr/testify/require"
)

// newTestMeta returns a MetaCart with meta features Tone (0) and Stress (1)
// and features:
//
//	5: Tone in {1}
//	6: Tone in {0,2}
//	7: Stress in {1}
//	0..4: Tone in {i}
func newTestMeta(t *testing.T) *feature.MetaCart {
	t.Helper()

	tone, err := feature.NewMetaFeature(0, "Tone", feature.KindEnum, map[int]string{0: "1", 1: "2", 2: "3", 3: "4", 4: "5"})
	require.NoError(t, err)
	stress, err := feature.NewMetaFeature(1, "Stress", feature.KindEnum, map[int]string{0: "none", 1: "primary"})
	require.NoError(t, err)

	m, err := feature.NewMetaCart("zh-CN", "hmm", []*feature.MetaFeature{tone, stress})
	require.NoError(t, err)

	for i := range 5 {
		require.NoError(t, m.AddFeature(feature.Feature{Index: i, MetaFeatureIndex: 0, Values: []int{i}}))
	}
	require.NoError(t, m.AddFeature(feature.Feature{Index: 5, MetaFeatureIndex: 0, Values: []int{1}}))
	require.NoError(t, m.AddFeature(feature.Feature{Index: 6, MetaFeatureIndex: 0, Values: []int{0, 2}}))
	require.NoError(t, m.AddFeature(feature.Feature{Index: 7, MetaFeatureIndex: 1, Values: []int{1}}))
	return m
}

// newThreeNodeTree builds root "5" with a bit set leaf {0,1,2} and an index
// set leaf {3,4} over five units.
func newThreeNodeTree(t *testing.T) *Tree {
	t.Helper()

	meta := newTestMeta(t)
	q, err := NewQuestion("5", meta)
	require.NoError(t, err)

	root, err := NewInternal(q,
		NewLeaf(unitset.MustFromIndices(5, 0, 1, 2), SetTypeBitSet),
		NewLeaf(unitset.MustFromIndices(5, 3, 4), SetTypeIndexSet),
	)
	require.NoError(t, err)

	tree, err := NewTree(root, meta)
	require.NoError(t, err)
	return tree
}

// randomTree builds a tree with the given number of leaves whose sets
// partition a domain of units. Questions use feature ids 0..7.
func randomTree(t *testing.T, rng *testutil.RNG, meta *feature.MetaCart, leaves, units int) *Tree {
	t.Helper()

	var build func(groups [][]int) *Node
	build = func(groups [][]int) *Node {
		if len(groups) == 1 {
			st := SetType(rng.Intn(3))
			return NewLeaf(unitset.MustFromIndices(units, groups[0]...), st)
		}
		k := 1 + rng.Intn(len(groups)-1)
		q, err := NewQuestion(rng.Expression(3, 8), meta)
		require.NoError(t, err)
		n, err := NewInternal(q, build(groups[:k]), build(groups[k:]))
		require.NoError(t, err)
		return n
	}

	tree, err := NewTree(build(rng.Partition(units, leaves)), meta)
	require.NoError(t, err)
	return tree
}

// le encodes int32 values little-endian.
func le(vals ...int32) []byte {
	out := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out
}
