package polylib

import (
	"fmt"
	"math"
)

// Gamma evaluates Γ(x) for positive integer and half integer x.
// Those are the only arguments reachable from the quadrature formulas with
// integer or half integer (alpha, beta); anything else panics.
func Gamma(x float64) (g float64) {
	switch {
	case x >= 1 && x == math.Trunc(x):
		g = 1.
		for t := 2.; t < x; t++ {
			g *= t
		}
		return
	case x > 0 && x-math.Floor(x) == 0.5:
		g = math.Sqrt(math.Pi)
		for t := 0.5; t < x; t++ {
			g *= t
		}
		return
	}
	panic(fmt.Errorf("%w: Gamma(%v) is not of integer or half integer order",
		ErrUnsupportedConfiguration, x))
}
