package feature

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hupe1980/cartkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `language: zh-CN
engine_type: hmm
meta_features:
  - index: 0
    name: LeftPhone
    kind: phone
  - index: 1
    name: Tone
    values: {0: "1", 1: "2", 2: "3"}
  - index: 2
    name: Position
    kind: integer
`

func TestLoadSchema(t *testing.T) {
	m, err := LoadSchema(strings.NewReader(testSchema))
	require.NoError(t, err)

	assert.Equal(t, "zh-CN", m.Language())
	assert.Equal(t, "hmm", m.EngineType())
	require.Len(t, m.MetaFeatures(), 3)

	tone, ok := m.MetaFeatureByName("Tone")
	require.True(t, ok)
	assert.Equal(t, KindEnum, tone.Kind())
	id, ok := tone.ValueID("3")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	pos, _ := m.MetaFeature(2)
	assert.Equal(t, KindInteger, pos.Kind())
}

func TestSchema_RoundTrip(t *testing.T) {
	m, err := LoadSchema(strings.NewReader(testSchema))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteSchema(&buf))

	again, err := LoadSchema(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Schema(), again.Schema())
}

func TestLoadSchema_Errors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadSchema(strings.NewReader("language: en\nvoice: x\n"))
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := LoadSchema(strings.NewReader("meta_features:\n  - index: 0\n    name: A\n    kind: float\n"))
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("duplicate index", func(t *testing.T) {
		_, err := LoadSchema(strings.NewReader("meta_features:\n  - {index: 0, name: A}\n  - {index: 0, name: B}\n"))
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindEnum, "Enum": KindEnum, "phone": KindPhone, "int": KindInteger, "integer": KindInteger} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if in != "" && in != "int" {
			assert.Equal(t, strings.ToLower(in), got.String())
		}
	}
}
