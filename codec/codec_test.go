package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name   string `json:"name"`
	Leaves int    `json:"leaves"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())

		data, err := c.Marshal(entry{Name: "dur", Leaves: 3})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"dur","leaves":3}`, string(data))

		var got entry
		require.NoError(t, c.Unmarshal(data, &got))
		assert.Equal(t, entry{Name: "dur", Leaves: 3}, got)
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestGoJSON_MarshalIndent(t *testing.T) {
	data, err := GoJSON{}.MarshalIndent(entry{Name: "f0", Leaves: 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"f0\",\n  \"leaves\": 1\n}", string(data))
}
