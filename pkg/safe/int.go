// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
)

// Int64 converts signed or unsigned integers to int64 with range validation.
func Int64[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](v T) (int64, error) {
	switch value := any(v).(type) {
	case uint:
		if uint64(value) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of int64 range", v)
		}
	case uint64:
		if value > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of int64 range", v)
		}
	case int, int32, int64, uint32:
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	return int64(v), nil
}

// AddInt64 returns a+b or an error when the sum does not fit in int64.
func AddInt64(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("sum of %d and %d overflows int64", a, b)
	}
	return a + b, nil
}

// SumInt64 adds values left to right, failing on the first overflow.
func SumInt64(values ...int64) (int64, error) {
	var total int64
	for _, v := range values {
		next, err := AddInt64(total, v)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}
