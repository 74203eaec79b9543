package conv

import (
	"fmt"
	"math"

	"github.com/hupe1980/cartkit/core"
)

// IntToInt32 converts int to int32, failing on overflow in either direction.
func IntToInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("integer overflow: %d does not fit in int32", v)
	}
	return int32(v), nil
}

// IntToUint32 converts a non-negative int to uint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// Uint32ToInt converts uint32 to int. It only fails on 32-bit platforms.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int", v)
	}
	return int(v), nil
}

// Count validates a length read from disk: it must be non-negative and not
// exceed limit.
func Count(v int32, limit int) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative count %d", core.ErrInvalidArgument, v)
	}
	if int(v) > limit {
		return 0, fmt.Errorf("%w: count %d exceeds limit %d", core.ErrInvalidArgument, v, limit)
	}
	return int(v), nil
}
