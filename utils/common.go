package utils

import "math"

const (
	NODETOL = 1.e-12
	// ZEROTOL is the absolute tolerance used to decide that a point coincides
	// with a quadrature node.
	ZEROTOL = 100 * 2.220446049250313e-16
)

// NearZero reports whether |x| is within ZEROTOL of zero.
func NearZero(x float64) bool {
	return math.Abs(x) < ZEROTOL
}
