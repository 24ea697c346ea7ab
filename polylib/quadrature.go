package polylib

import (
	"fmt"
	"math"
)

// Rule is an immutable set of quadrature nodes and weights for the weight
// function (1-z)^alpha (1+z)^beta on [-1,1].
type Rule struct {
	Kind        Kind
	N           int
	Alpha, Beta float64
	Nodes       []float64
	Weights     []float64
}

func NewRule(kind Kind, n int, alpha, beta float64) (r Rule) {
	r = Rule{Kind: kind, N: n, Alpha: alpha, Beta: beta}
	r.Nodes, r.Weights = Quadrature(kind, n, alpha, beta)
	return
}

// Basis evaluates every Lagrange interpolant of the rule at z into h.
func (r Rule) Basis(z float64, h []float64) {
	LagrangeBasisAll(r.Kind, z, r.Nodes, r.Alpha, r.Beta, h)
}

// Integrate applies the rule to samples of f at the nodes
func (r Rule) Integrate(f []float64) (sum float64) {
	for i, w := range r.Weights {
		sum += w * f[i]
	}
	return
}

// Quadrature returns the n nodes (ascending) and weights of the requested family.
func Quadrature(kind Kind, n int, alpha, beta float64) (z, w []float64) {
	if n < 1 {
		panic(fmt.Errorf("%w: quadrature needs at least one point, have %d",
			ErrUnsupportedConfiguration, n))
	}
	if alpha <= -1 || beta <= -1 {
		panic(fmt.Errorf("%w: Jacobi parameters must exceed -1, have (%v,%v)",
			ErrUnsupportedConfiguration, alpha, beta))
	}
	switch kind {
	case Gauss:
		return gaussJacobi(n, alpha, beta)
	case RadauLeft:
		return radauLeft(n, alpha, beta)
	case RadauRight:
		return radauRight(n, alpha, beta)
	case Lobatto:
		return lobatto(n, alpha, beta)
	}
	panic(fmt.Errorf("%w: quadrature kind %v", ErrUnsupportedConfiguration, kind))
}

func gaussJacobi(n int, alpha, beta float64) (z, w []float64) {
	var (
		apb = alpha + beta
		fn  = float64(n)
	)
	z = JacobiZeros(n, alpha, beta)
	w = JacobiDerivative(z, alpha, beta, n)
	fac := math.Pow(2., apb+1.) * Gamma(alpha+fn+1.) * Gamma(beta+fn+1.)
	fac /= Gamma(fn+1.) * Gamma(apb+fn+1.)
	for i := range w {
		w[i] = fac / (w[i] * w[i] * (1. - z[i]*z[i]))
	}
	return
}

func radauLeft(n int, alpha, beta float64) (z, w []float64) {
	if n == 1 {
		return []float64{0.}, []float64{2.}
	}
	var (
		apb = alpha + beta
		fn  = float64(n)
	)
	z = make([]float64, n)
	z[0] = -1.
	copy(z[1:], JacobiZeros(n-1, alpha, beta+1.))
	w = JacobiP(z, alpha, beta, n-1)
	fac := math.Pow(2., apb) * Gamma(alpha+fn) * Gamma(beta+fn)
	fac /= Gamma(fn) * (beta + fn) * Gamma(apb+fn+1.)
	for i := range w {
		w[i] = fac * (1. - z[i]) / (w[i] * w[i])
	}
	w[0] *= beta + 1.
	return
}

func radauRight(n int, alpha, beta float64) (z, w []float64) {
	if n == 1 {
		return []float64{0.}, []float64{2.}
	}
	var (
		apb = alpha + beta
		fn  = float64(n)
	)
	z = make([]float64, n)
	copy(z, JacobiZeros(n-1, alpha+1., beta))
	z[n-1] = 1.
	w = JacobiP(z, alpha, beta, n-1)
	fac := math.Pow(2., apb) * Gamma(alpha+fn) * Gamma(beta+fn)
	fac /= Gamma(fn) * (alpha + fn) * Gamma(apb+fn+1.)
	for i := range w {
		w[i] = fac * (1. + z[i]) / (w[i] * w[i])
	}
	w[n-1] *= alpha + 1.
	return
}

func lobatto(n int, alpha, beta float64) (z, w []float64) {
	if n == 1 {
		return []float64{0.}, []float64{2.}
	}
	var (
		apb = alpha + beta
		fn  = float64(n)
	)
	z = make([]float64, n)
	z[0], z[n-1] = -1., 1.
	copy(z[1:n-1], JacobiZeros(n-2, alpha+1., beta+1.))
	w = JacobiP(z, alpha, beta, n-1)
	fac := math.Pow(2., apb+1.) * Gamma(alpha+fn) * Gamma(beta+fn)
	fac /= (fn - 1.) * Gamma(fn) * Gamma(apb+fn+1.)
	for i := range w {
		w[i] = fac / (w[i] * w[i])
	}
	w[0] *= beta + 1.
	w[n-1] *= alpha + 1.
	return
}
