package cart

import (
	"bytes"
	"io"
	"testing"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/feature"
	"github.com/hupe1980/cartkit/internal/iobuf"
	"github.com/hupe1980/cartkit/testutil"
	"github.com/hupe1980/cartkit/unitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeNodeGolden is the encoding of newThreeNodeTree.
var threeNodeGolden = bytes.Join([][]byte{
	// root: right child at 76, subtree 116 bytes, one Value record for "5"
	le(76, 116, 2, 1, 0, 1|1<<16, 5, 0, 0),
	// left leaf: bit set over [0,4], three members
	le(0, 40, 1, 1, 0, 4, 1, 5, 3, 0b111),
	// right leaf: index set over [0,4]
	le(0, 40, 1, 1, 0, 4, 2, 2, 3, 4),
}, nil)

func TestSave_Golden(t *testing.T) {
	tree := newThreeNodeTree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, threeNodeGolden, data)

	var buf bytes.Buffer
	n, err := tree.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(threeNodeGolden)), n)
	assert.Equal(t, threeNodeGolden, buf.Bytes())
}

func TestLoad_Golden(t *testing.T) {
	meta := newTestMeta(t)
	tree, err := Load(bytes.NewReader(threeNodeGolden), meta)
	require.NoError(t, err)

	root := tree.Root
	require.NotNil(t, root.Question)
	assert.Equal(t, "5", root.Question.Logic())
	assert.Same(t, meta, root.Question.Meta())
	assert.Nil(t, root.Units)

	assert.Equal(t, SetTypeBitSet, root.Left.SetType)
	assert.Equal(t, []int{0, 1, 2}, root.Left.Units.Indices())
	assert.Equal(t, SetTypeIndexSet, root.Right.SetType)
	assert.Equal(t, []int{3, 4}, root.Right.Units.Indices())

	assert.Equal(t, 2, root.Right.Index)
	assert.Equal(t, SideRight, root.Right.Side)
	assert.Same(t, root, root.Right.Parent)

	require.NoError(t, tree.Propagate())
	assert.Equal(t, 5, root.UnitCount())

	leaf, err := tree.Test(feature.Values{1})
	require.NoError(t, err)
	assert.Same(t, root.Left, leaf)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(3)
	meta := newTestMeta(t)

	for i := range 40 {
		units := 1 + rng.Intn(200)
		leaves := 1 + rng.Intn(min(units, 16))
		tree := randomTree(t, rng, meta, leaves, units)

		first, err := tree.MarshalBinary()
		require.NoError(t, err)

		loaded, err := Load(bytes.NewReader(first), meta)
		require.NoError(t, err, "tree %d", i)
		assert.Equal(t, tree.NodeCount(), loaded.NodeCount())

		second, err := loaded.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, first, second, "tree %d", i)

		for range 10 {
			v := feature.Values{rng.Intn(5), rng.Intn(2)}
			want, err := tree.Test(v)
			require.NoError(t, err)
			got, err := loaded.Test(v)
			require.NoError(t, err)
			assert.Equal(t, want.Index, got.Index)
		}
	}
}

func TestSave_SetLogicTakesEffect(t *testing.T) {
	meta := newTestMeta(t)
	tree, err := Load(bytes.NewReader(threeNodeGolden), meta)
	require.NoError(t, err)

	require.NoError(t, tree.Root.Question.SetLogic("(5 | 6) & ~7"))
	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	again, err := Load(bytes.NewReader(data), meta)
	require.NoError(t, err)
	assert.Equal(t, "(5|6)&~7", again.Root.Question.Logic())
	assert.Len(t, again.Root.Question.Records(), 3)
}

func TestSave_AutoSetType(t *testing.T) {
	sparse := NewLeaf(unitset.MustFromIndices(1000, 10, 500), SetTypeAuto)
	dense := NewLeaf(unitset.MustFromIndices(40, 0, 1, 2, 3, 4, 5), SetTypeAuto)

	for _, tt := range []struct {
		leaf *Node
		want SetType
	}{{sparse, SetTypeIndexSet}, {dense, SetTypeBitSet}} {
		tree, err := NewTree(tt.leaf, nil)
		require.NoError(t, err)
		data, err := tree.MarshalBinary()
		require.NoError(t, err)

		loaded, err := Load(bytes.NewReader(data), nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, loaded.Root.SetType)
		assert.True(t, tt.leaf.Units.Equal(loaded.Root.Units))
	}
}

func TestSave_Base(t *testing.T) {
	leaf := NewLeaf(unitset.MustFromIndices(3, 1), SetTypeIndexSet)
	leaf.Base = 10
	tree, err := NewTree(leaf, nil)
	require.NoError(t, err)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, le(0, 36, 1, 1, 10, 12, 2, 1, 1), data)

	loaded, err := Load(bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Root.Base)
}

func TestLoadSave_IndexSetLeafExact(t *testing.T) {
	data := le(0, 44, 1, 1, 0, 9, 2, 3, 0, 4, 9)

	tree, err := Load(bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 9}, tree.Root.Units.Indices())

	got, err := tree.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSave_Errors(t *testing.T) {
	t.Run("one child", func(t *testing.T) {
		tree := newThreeNodeTree(t)
		tree.Root.Right = nil
		_, err := tree.MarshalBinary()
		assert.ErrorIs(t, err, core.ErrInvalidOperation)
	})

	t.Run("leaf without set", func(t *testing.T) {
		tree := newThreeNodeTree(t)
		tree.Root.Left.Units = nil
		_, err := tree.MarshalBinary()
		assert.ErrorIs(t, err, core.ErrInvalidOperation)
	})

	t.Run("unknown set type", func(t *testing.T) {
		tree := newThreeNodeTree(t)
		tree.Root.Left.SetType = 9
		_, err := tree.MarshalBinary()
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("empty tree", func(t *testing.T) {
		var tree Tree
		assert.ErrorIs(t, tree.Save(&iobuf.Buffer{}), core.ErrInvalidOperation)
	})
}

func TestUnmarshalBinary(t *testing.T) {
	meta := newTestMeta(t)
	tree := &Tree{Meta: meta}
	require.NoError(t, tree.UnmarshalBinary(threeNodeGolden))
	assert.Equal(t, 3, tree.NodeCount())
	assert.Same(t, meta, tree.Root.Question.Meta())

	assert.Error(t, tree.UnmarshalBinary(threeNodeGolden[:10]))
	assert.Equal(t, 3, tree.NodeCount())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		offset int64
		detail string
	}{
		{"invalid node type", le(0, 0, 7), 8, "invalid node type"},
		{"invalid set kind", le(0, 0, 1, 2), 12, "invalid set kind"},
		{"invalid set range", le(0, 0, 1, 1, 5, 3), 16, "invalid set range"},
		{"invalid set type", le(0, 0, 1, 1, 0, 4, 9), 24, "invalid set type"},
		{"bit set size mismatch", le(0, 0, 1, 1, 0, 4, 1, 4, 0, 0), 28, "does not match range size"},
		{"population count mismatch", le(0, 0, 1, 1, 0, 4, 1, 5, 2, 0b111), 32, "population count"},
		{"bit beyond domain", le(0, 0, 1, 1, 0, 2, 1, 3, 1, 0b1000), 36, "beyond domain"},
		{"index equals size", le(0, 0, 1, 1, 0, 2, 2, 1, 3), 32, "out of range [0,3)"},
		{"negative index", le(0, 0, 1, 1, 0, 2, 2, 1, -1), 32, "out of range"},
		{"descending indices", le(0, 0, 1, 1, 0, 4, 2, 2, 4, 3), 36, "not above previous index 4"},
		{"duplicate index", le(0, 0, 1, 1, 0, 4, 2, 3, 3, 3, 4), 36, "not above previous index 3"},
		{"negative index count", le(0, 0, 1, 1, 0, 2, 2, -1), 28, "negative count"},
		{"no records", le(0, 0, 2, 0, 0), 12, "invalid record count"},
		{"root record out of range", le(0, 0, 2, 1, 1), 16, "root record 1"},
		{"invalid record code", le(0, 0, 2, 1, 0, 9, 0, 0, 0), 20, "invalid operator code"},
		{"forward record reference", le(0, 0, 2, 1, 0, 5, 0, 0, 0), 20, "question records"},
		{"shared record reference", le(0, 0, 2, 2, 1, 5|1<<16, 1, 0, 0, 4, 0, 0, 0), 20, "referenced more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrFormat)
			assert.Contains(t, err.Error(), tt.detail)

			var fe *core.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "load tree node", fe.Op)
			assert.Equal(t, tt.offset, fe.Offset)
		})
	}
}

func TestLoad_SharedRecordChain(t *testing.T) {
	// Each And references its predecessor twice; expanding the references
	// would double the text per record.
	const n = 40
	vals := []int32{0, 0, 2, n + 1, n, 5 | 1<<16, 1, 0, 0}
	for i := range n {
		vals = append(vals, 4, int32(i), int32(i), 0)
	}

	_, err := Load(bytes.NewReader(le(vals...)), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFormat)
	assert.Contains(t, err.Error(), "referenced more than once")
}

func TestLoad_Truncated(t *testing.T) {
	for _, n := range []int{0, 3, 8, 20, 40, 50, 75, 115} {
		_, err := Load(bytes.NewReader(threeNodeGolden[:n]), nil)
		require.Error(t, err, "length %d", n)
		assert.ErrorIs(t, err, core.ErrFormat)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "load tree node")
	}
}
