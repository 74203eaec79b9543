package feature

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/hupe1980/cartkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaFeature(t *testing.T) {
	mf, err := NewMetaFeature(3, "Stress", KindEnum, map[int]string{2: "secondary", 0: "none", 1: "primary"})
	require.NoError(t, err)

	assert.Equal(t, 3, mf.Index())
	assert.Equal(t, "Stress", mf.Name())
	assert.Equal(t, KindEnum, mf.Kind())
	assert.Equal(t, []Value{{0, "none"}, {1, "primary"}, {2, "secondary"}}, mf.Values())

	label, ok := mf.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "primary", label)

	id, ok := mf.ValueID("secondary")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	_, ok = mf.ValueID("tertiary")
	assert.False(t, ok)
}

func TestNewMetaFeature_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		fname  string
		values map[int]string
	}{
		{"negative index", -1, "X", nil},
		{"empty name", 0, "", nil},
		{"name with space", 0, "Left Phone", nil},
		{"label with comma", 0, "X", map[int]string{0: "a,b"}},
		{"duplicate label", 0, "X", map[int]string{0: "a", 1: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetaFeature(tt.index, tt.fname, KindEnum, tt.values)
			assert.ErrorIs(t, err, core.ErrInvalidArgument)
		})
	}
}

func TestNewMetaCart_Duplicates(t *testing.T) {
	a, _ := NewMetaFeature(0, "A", KindEnum, nil)
	b, _ := NewMetaFeature(0, "B", KindEnum, nil)
	c, _ := NewMetaFeature(1, "A", KindEnum, nil)

	_, err := NewMetaCart("en", "hmm", []*MetaFeature{a, b})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = NewMetaCart("en", "hmm", []*MetaFeature{a, c})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = NewMetaCart("en", "hmm", []*MetaFeature{nil})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestMetaCart_AddFeature(t *testing.T) {
	m := newTestMetaCart(t)

	require.NoError(t, m.AddFeature(Feature{Index: 5, MetaFeatureIndex: 1, Values: []int{1}}))

	f, ok := m.Feature(5)
	require.True(t, ok)
	assert.Equal(t, []int{1}, f.Values)

	err := m.AddFeature(Feature{Index: 6, MetaFeatureIndex: 42, Values: []int{0}})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	err = m.AddFeature(Feature{Index: -1, MetaFeatureIndex: 1})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestMetaCart_DuplicateFeatureIndexLastWins(t *testing.T) {
	var logs bytes.Buffer
	m := newTestMetaCart(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, m.AddFeature(Feature{Index: 7, MetaFeatureIndex: 1, Values: []int{0}}))
	require.NoError(t, m.AddFeature(Feature{Index: 7, MetaFeatureIndex: 3, Values: []int{2}}))

	f, ok := m.Feature(7)
	require.True(t, ok)
	assert.Equal(t, 3, f.MetaFeatureIndex)
	assert.Equal(t, []int{2}, f.Values)
	assert.Equal(t, 1, m.NumFeatures())
	assert.Equal(t, 1, m.Overwrites())
	assert.Contains(t, logs.String(), "feature index redefined")
}

func TestFeature_Test(t *testing.T) {
	f := &Feature{Index: 1, MetaFeatureIndex: 2, Values: []int{3, 5}}

	assert.True(t, f.Test(Values{0, 0, 5}))
	assert.False(t, f.Test(Values{0, 0, 4}))
	assert.False(t, f.Test(Values{0, 0, -1}))
	assert.False(t, f.Test(Values{0}))
	assert.True(t, f.Test(Map{2: 3}))
	assert.False(t, f.Test(Map{1: 3}))
}

func TestMetaCart_TestFeature(t *testing.T) {
	m := newTestMetaCart(t)
	require.NoError(t, m.AddFeature(Feature{Index: 5, MetaFeatureIndex: 1, Values: []int{1}}))

	ok, err := m.TestFeature(5, Map{1: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.TestFeature(6, Map{1: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMetaCart_Lookups(t *testing.T) {
	m := newTestMetaCart(t)
	assert.Equal(t, "zh-CN", m.Language())
	assert.Equal(t, "hmm", m.EngineType())

	mf, ok := m.MetaFeatureByName("Tone")
	require.True(t, ok)
	assert.Equal(t, 1, mf.Index())

	_, ok = m.MetaFeature(9)
	assert.False(t, ok)

	metas := m.MetaFeatures()
	require.Len(t, metas, 4)
	for i, mf := range metas {
		assert.Equal(t, i, mf.Index())
	}
}
