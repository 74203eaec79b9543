package feature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestMetaCart builds a small Mandarin-like registry:
//
//	0 LeftPhone  (phone)   via phone set a,b,sh,zh
//	1 Tone       (enum)    1..5 with numeric labels
//	2 Position   (integer)
//	3 Stress     (enum)    none/primary/secondary
func newTestMetaCart(t *testing.T, opts ...Option) *MetaCart {
	t.Helper()

	left, err := NewMetaFeature(0, "LeftPhone", KindPhone, nil)
	require.NoError(t, err)
	tone, err := NewMetaFeature(1, "Tone", KindEnum, map[int]string{0: "1", 1: "2", 2: "3", 3: "4", 4: "5"})
	require.NoError(t, err)
	pos, err := NewMetaFeature(2, "Position", KindInteger, nil)
	require.NoError(t, err)
	stress, err := NewMetaFeature(3, "Stress", KindEnum, map[int]string{0: "none", 1: "primary", 2: "secondary"})
	require.NoError(t, err)

	opts = append([]Option{WithPhoneSet(NewStaticPhoneSet("a", "b", "sh", "zh"))}, opts...)
	m, err := NewMetaCart("zh-CN", "hmm", []*MetaFeature{left, tone, pos, stress}, opts...)
	require.NoError(t, err)
	return m
}
