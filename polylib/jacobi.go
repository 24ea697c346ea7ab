package polylib

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/nekprobe/utils"
)

// JacobiP evaluates the classical (unnormalized) Jacobi polynomial
// P_n^{alpha,beta} at each z using the three term recurrence.
func JacobiP(z []float64, alpha, beta float64, n int) (p []float64) {
	p = make([]float64, len(z))
	for i, zz := range z {
		p[i] = jacobiAt(zz, alpha, beta, n)
	}
	return
}

// JacobiDerivative evaluates dP_n^{alpha,beta}/dz at each z, using
// dP_n/dz = (n+alpha+beta+1)/2 * P_{n-1}^{alpha+1,beta+1}, which is regular at z = ±1.
func JacobiDerivative(z []float64, alpha, beta float64, n int) (dp []float64) {
	dp = make([]float64, len(z))
	for i, zz := range z {
		dp[i] = jacobiDerivAt(zz, alpha, beta, n)
	}
	return
}

// JacobiEval returns the polynomial and its derivative together.
func JacobiEval(z []float64, alpha, beta float64, n int) (p, dp []float64) {
	return JacobiP(z, alpha, beta, n), JacobiDerivative(z, alpha, beta, n)
}

func jacobiAt(z, alpha, beta float64, n int) float64 {
	switch {
	case n == 0:
		return 1.
	case n == 1:
		return 0.5 * (alpha - beta + (alpha+beta+2.)*z)
	}
	var (
		apb    = alpha + beta
		pnm2   = 1.
		pnm1   = 0.5 * (alpha - beta + (apb+2.)*z)
		pn     float64
		ab2mb2 = alpha*alpha - beta*beta
	)
	for k := 2; k <= n; k++ {
		fk := float64(k)
		a1 := 2. * fk * (fk + apb) * (2.*fk + apb - 2.)
		a2 := (2.*fk + apb - 1.) * ab2mb2
		a3 := (2.*fk + apb - 2.) * (2.*fk + apb - 1.) * (2.*fk + apb)
		a4 := 2. * (fk + alpha - 1.) * (fk + beta - 1.) * (2.*fk + apb)
		pn = ((a2+a3*z)*pnm1 - a4*pnm2) / a1
		pnm2, pnm1 = pnm1, pn
	}
	return pn
}

func jacobiDerivAt(z, alpha, beta float64, n int) float64 {
	if n == 0 {
		return 0.
	}
	return 0.5 * (float64(n) + alpha + beta + 1.) * jacobiAt(z, alpha+1., beta+1., n-1)
}

// JacobiZeros returns the n roots of P_n^{alpha,beta} in ascending order.
// The roots are the eigenvalues of the symmetric tridiagonal Jacobi matrix
// built from the monic recurrence coefficients.
func JacobiZeros(n int, alpha, beta float64) (z []float64) {
	if n <= 0 {
		return nil
	}
	apb := alpha + beta
	if n == 1 {
		return []float64{(beta - alpha) / (apb + 2.)}
	}
	var (
		d0 = make([]float64, n)
		d1 = make([]float64, n-1)
	)
	// main diagonal, i = 0 written in its cancelled form to survive alpha+beta = 0
	d0[0] = (beta - alpha) / (apb + 2.)
	for i := 1; i < n; i++ {
		h := 2.*float64(i) + apb
		d0[i] = (beta*beta - alpha*alpha) / (h * (h + 2.))
	}
	// off diagonal, i = 1 cancelled for alpha+beta = -1
	d1[0] = math.Sqrt(4. * (1. + alpha) * (1. + beta) / ((apb + 2.) * (apb + 2.) * (apb + 3.)))
	for i := 2; i < n; i++ {
		fi := float64(i)
		h := 2.*fi + apb
		d1[i-1] = math.Sqrt(4. * fi * (fi + alpha) * (fi + beta) * (fi + apb) /
			(h * h * (h + 1.) * (h - 1.)))
	}
	JJ := utils.NewSymTriDiagonal(d0, d1)
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, false); !ok {
		panic("eigenvalue decomposition failed")
	}
	z = eig.Values(nil)
	sort.Float64s(z)
	return
}
