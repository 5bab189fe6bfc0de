// Package conv provides guarded integer conversions for the C ABI boundary,
// where lengths and offsets travel as int64 regardless of the host int size.
package conv

import (
	"fmt"
	"math"
)

// Int64ToInt converts an ABI int64 length/offset to int safely.
func Int64ToInt(v int64) (int, error) {
	if v > int64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	if v < math.MinInt {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too small)", v)
	}
	return int(v), nil
}
