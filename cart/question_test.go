package cart

import (
	"testing"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/expr"
	"github.com/hupe1980/cartkit/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion(t *testing.T) {
	meta := newTestMeta(t)
	q, err := NewQuestion(" ( 5 | 6 ) & ~7 ", meta)
	require.NoError(t, err)

	assert.Equal(t, "(5|6)&~7", q.Logic())
	assert.Equal(t, "(5|6)&~7", q.String())
	assert.Equal(t, []int32{5, 6, 7}, q.Features())
	assert.Equal(t, expr.MustParse("(5|6)&~7").Records(), q.Records())

	tests := []struct {
		tone, stress int
		want         bool
	}{
		{1, 0, true},  // 5 holds
		{0, 0, true},  // 6 holds
		{2, 1, false}, // 7 holds
		{3, 0, false}, // neither 5 nor 6
	}
	for _, tt := range tests {
		got, err := q.Test(feature.Values{tt.tone, tt.stress})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "tone=%d stress=%d", tt.tone, tt.stress)
	}
}

func TestQuestion_SetLogic(t *testing.T) {
	q, err := NewQuestion("5", newTestMeta(t))
	require.NoError(t, err)

	require.NoError(t, q.SetLogic("~5"))
	assert.Equal(t, "~5", q.Logic())

	err = q.SetLogic("5&")
	assert.ErrorIs(t, err, core.ErrFormat)
	assert.Equal(t, "~5", q.Logic())
}

func TestNewQuestion_Invalid(t *testing.T) {
	_, err := NewQuestion("5=1", nil)
	assert.ErrorIs(t, err, core.ErrFormat)
}

func TestSetType(t *testing.T) {
	for _, st := range []SetType{SetTypeAuto, SetTypeBitSet, SetTypeIndexSet} {
		got, err := ParseSetType(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseSetType("roaring")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	assert.Equal(t, "NodeType(3)", NodeType(3).String())
	assert.Equal(t, "leaf", NodeLeaf.String())
	assert.Equal(t, "none", SideNone.String())
}
