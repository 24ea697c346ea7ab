package polylib

import (
	"fmt"
	"math"

	"github.com/notargets/nekprobe/utils"
)

// LagrangeBasis returns the i-th Lagrange interpolant through nodes, which must
// be the nodes of the (kind, alpha, beta) rule, evaluated at z. It is exactly 1
// when z sits on nodes[i].
func LagrangeBasis(kind Kind, i int, z float64, nodes []float64, alpha, beta float64) float64 {
	var (
		np = len(nodes)
		zi = nodes[i]
		dz = z - zi
	)
	if math.Abs(dz) < utils.ZEROTOL {
		return 1.
	}
	if np == 1 {
		return 1.
	}
	switch kind {
	case Gauss:
		p := jacobiDerivAt(zi, alpha, beta, np)
		q := jacobiAt(z, alpha, beta, np)
		return q / (p * dz)
	case RadauLeft:
		p := jacobiAt(zi, alpha, beta+1., np-1)
		pd := jacobiDerivAt(zi, alpha, beta+1., np-1)
		h := (1.+zi)*pd + p
		q := jacobiAt(z, alpha, beta+1., np-1)
		return (1. + z) * q / (h * dz)
	case RadauRight:
		p := jacobiAt(zi, alpha+1., beta, np-1)
		pd := jacobiDerivAt(zi, alpha+1., beta, np-1)
		h := (1.-zi)*pd - p
		q := jacobiAt(z, alpha+1., beta, np-1)
		return (1. - z) * q / (h * dz)
	case Lobatto:
		p := jacobiAt(zi, alpha+1., beta+1., np-2)
		pd := jacobiDerivAt(zi, alpha+1., beta+1., np-2)
		h := (1.-zi*zi)*pd - 2.*zi*p
		q := jacobiAt(z, alpha+1., beta+1., np-2)
		return (1. - z*z) * q / (h * dz)
	}
	panic(fmt.Errorf("%w: lagrange basis for kind %v", ErrUnsupportedConfiguration, kind))
}

// LagrangeBasisAll fills h[0:len(nodes)] with every interpolant at z.
func LagrangeBasisAll(kind Kind, z float64, nodes []float64, alpha, beta float64, h []float64) {
	if len(h) < len(nodes) {
		panic(fmt.Errorf("basis buffer too short: have %d, need %d", len(h), len(nodes)))
	}
	for i := range nodes {
		h[i] = LagrangeBasis(kind, i, z, nodes, alpha, beta)
	}
}
