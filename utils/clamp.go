package utils

import "golang.org/x/exp/constraints"

// Clamp bounds v to the interval [min, max]. The bounds may be given in either order.
func Clamp[T constraints.Ordered](v, min, max T) T {
	if min > max {
		min, max = max, min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 bounds v to the unit interval. NaN maps to 0.
func Clamp01[T constraints.Float](v T) T {
	if v != v {
		return 0
	}
	return Clamp(v, 0, 1)
}

// FloorMod returns the non-negative remainder of a divided by n.
func FloorMod[T constraints.Integer](a, n T) T {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
