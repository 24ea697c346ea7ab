package polylib

import (
	"gonum.org/v1/gonum/mat"
)

// DerivativeMatrix returns D with D[i][j] = dh_j/dz at nodes[i], so that D*f
// holds the derivative of the interpolant of f at the nodes. It uses the
// barycentric form, valid for any set of distinct nodes.
func DerivativeMatrix(nodes []float64) (D *mat.Dense) {
	var (
		np = len(nodes)
		c  = barycentricWeights(nodes)
	)
	D = mat.NewDense(np, np, nil)
	for i := 0; i < np; i++ {
		var diag float64
		for j := 0; j < np; j++ {
			if i == j {
				continue
			}
			val := (c[j] / c[i]) / (nodes[i] - nodes[j])
			D.Set(i, j, val)
			diag -= val
		}
		D.Set(i, i, diag)
	}
	return
}

func barycentricWeights(nodes []float64) (c []float64) {
	c = make([]float64, len(nodes))
	for j, zj := range nodes {
		c[j] = 1.
		for k, zk := range nodes {
			if k != j {
				c[j] *= zj - zk
			}
		}
		c[j] = 1. / c[j]
	}
	return
}

// InterpolationMatrix maps values at the rule nodes to values at targets,
// rows index targets and columns index nodes.
func InterpolationMatrix(kind Kind, nodes, targets []float64, alpha, beta float64) (Im *mat.Dense) {
	Im = mat.NewDense(len(targets), len(nodes), nil)
	h := make([]float64, len(nodes))
	for i, z := range targets {
		LagrangeBasisAll(kind, z, nodes, alpha, beta, h)
		Im.SetRow(i, h)
	}
	return
}
