package util

import "math"

// NonNegative clamps negative counters to zero.
func NonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// AddCount adds two non-negative counters, saturating at math.MaxInt64.
func AddCount(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}
