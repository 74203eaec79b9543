//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/cartkit/core"
)

func TestIntToInt32(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := IntToInt32(-5)
		assert.NoError(t, err)
		assert.Equal(t, int32(-5), got)
	})

	t.Run("bounds", func(t *testing.T) {
		got, err := IntToInt32(math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, int32(math.MaxInt32), got)

		_, err = IntToInt32(math.MaxInt32 + 1)
		assert.Error(t, err)

		_, err = IntToInt32(math.MinInt32 - 1)
		assert.Error(t, err)
	})
}

func TestIntToUint32(t *testing.T) {
	got, err := IntToUint32(123)
	assert.NoError(t, err)
	assert.Equal(t, uint32(123), got)

	_, err = IntToUint32(-1)
	assert.Error(t, err)

	_, err = IntToUint32(math.MaxUint32 + 1)
	assert.Error(t, err)
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(math.MaxUint32)
	assert.NoError(t, err)
	assert.Equal(t, math.MaxUint32, got)
}

func TestCount(t *testing.T) {
	n, err := Count(10, 10)
	assert.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = Count(-1, 10)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = Count(11, 10)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
