package shape

import (
	"fmt"

	"github.com/notargets/nekprobe/polylib"
	"github.com/notargets/nekprobe/utils"
)

// Shape is the reference element of one element kind. Coordinates are carried
// as [3]float64 with the unused trailing entries zero for 2D shapes.
//
// Natural coordinates xi describe the reference element itself (a triangle is
// xi1,xi2 >= -1, xi1+xi2 <= 0). Collapsed coordinates c live on the
// tensor-product square or cube [-1,1]^dim on which the quadrature grid and the
// 1D Lagrange bases are defined.
type Shape interface {
	Kind() Kind
	Dim() int
	NumVertices() int
	// Simplex is true when at least one direction is collapsed
	Simplex() bool
	// Family is the quadrature family used along direction dir (0, 1, 2)
	Family(dir int, b Basis) Family
	NaturalToCollapsed(xi [3]float64) (c [3]float64)
	CollapsedToNatural(c [3]float64) (xi [3]float64)
	// NaturalDerivatives converts derivatives along the collapsed directions
	// at c into derivatives along the natural directions.
	NaturalDerivatives(c, dc [3]float64) (dxi [3]float64)
	// VertexWeights fills w[0:NumVertices] with the straight sided (linear,
	// bilinear or trilinear) vertex blending weights at natural xi.
	VertexWeights(xi [3]float64, w []float64)
	// Vertex returns the natural coordinates of vertex v
	Vertex(v int) [3]float64
	// Measure is the factor relating dxi to the product of the 1D rule
	// weights at collapsed c.
	Measure(c [3]float64, b Basis) float64
	// Contains is true when natural xi lies within the reference element
	// with every face pushed out by tol.
	Contains(xi [3]float64, tol float64) bool
	// Overshoot is the sum of the squared amounts by which natural xi lies
	// beyond the faces of the reference element, zero inside.
	Overshoot(xi [3]float64) float64
	// SymmetricLattice is the equispaced lattice with n points per edge, in
	// natural coordinates.
	SymmetricLattice(n int) [][3]float64
}

// New returns the reference shape for kind k.
func New(k Kind) Shape {
	switch k {
	case Quad:
		return quadShape{}
	case Tri:
		return triShape{}
	case Hex:
		return hexShape{}
	case Tet:
		return tetShape{}
	case Prism:
		return prismShape{}
	}
	panic(fmt.Errorf("%w: shape kind %v", polylib.ErrUnsupportedConfiguration, k))
}

// within is true when no face excess g (positive outside the face) exceeds tol
func within(tol float64, g ...float64) bool {
	for _, v := range g {
		if !(v <= tol) {
			return false
		}
	}
	return true
}

func overshoot(g ...float64) (d float64) {
	for _, v := range g {
		if v > 0 {
			d += v * v
		}
	}
	return
}

// collapse returns 2(1+num)/den - 1, with the limiting value -1 on the
// collapsed edge or vertex where den vanishes. The limit is only the true
// collapsed coordinate when the point lies on the element, so containment is
// decided on natural coordinates.
func collapse(num, den float64) float64 {
	if utils.NearZero(den) {
		return -1.
	}
	return 2.*(1.+num)/den - 1.
}

func latticeCoord(i, n int) float64 {
	return -1. + 2.*float64(i)/float64(n-1)
}

func checkLattice(n int) {
	if n < 2 {
		panic(fmt.Errorf("%w: symmetric lattice needs at least 2 points per edge, have %d",
			polylib.ErrUnsupportedConfiguration, n))
	}
}

func checkDir(k Kind, dir int) {
	if dir < 0 || dir >= k.GetDimension() {
		panic(fmt.Errorf("%w: direction %d of %v", polylib.ErrUnsupportedConfiguration, dir, k))
	}
}
