package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NewSymTriDiagonal assembles the symmetric tridiagonal matrix with main
// diagonal d0 and first off diagonal d1, len(d1) == len(d0)-1.
func NewSymTriDiagonal(d0, d1 []float64) (T *mat.SymDense) {
	var (
		N = len(d0)
	)
	if N == 0 || len(d1) != N-1 {
		panic(fmt.Errorf("mismatch in tridiagonal dimensions, len(d0) = %d, len(d1) = %d",
			len(d0), len(d1)))
	}
	T = mat.NewSymDense(N, nil)
	for i := 0; i < N; i++ {
		T.SetSym(i, i, d0[i])
		if i < N-1 {
			T.SetSym(i, i+1, d1[i])
		}
	}
	return
}
