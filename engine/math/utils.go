package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Log2Floor returns floor(log2(n)) for n >= 1, and 0 otherwise.
func Log2Floor[T constraints.Unsigned](n T) uint32 {
	var r uint32
	for n > 1 {
		n >>= 1
		r++
	}
	return r
}
