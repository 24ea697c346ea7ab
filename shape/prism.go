package shape

import "math"

// The prism is a triangle in (xi1, xi3) extruded along xi2, collapsed by
//
//	r = 2(1+xi1)/(1-xi3) - 1,  s = xi2,  t = xi3
type prismShape struct{}

func (prismShape) Kind() Kind       { return Prism }
func (prismShape) Dim() int         { return 3 }
func (prismShape) NumVertices() int { return 6 }
func (prismShape) Simplex() bool    { return true }

func (prismShape) Family(dir int, b Basis) Family {
	checkDir(Prism, dir)
	if dir < 2 {
		return lobattoLegendre
	}
	return radauCollapsed(b, 1)
}

func (prismShape) NaturalToCollapsed(xi [3]float64) (c [3]float64) {
	c[0] = collapse(xi[0], 1-xi[2])
	c[1] = xi[1]
	c[2] = xi[2]
	return
}

func (prismShape) CollapsedToNatural(c [3]float64) (xi [3]float64) {
	xi[0] = 0.5*(1+c[0])*(1-c[2]) - 1
	xi[1] = c[1]
	xi[2] = c[2]
	return
}

func (prismShape) NaturalDerivatives(c, dc [3]float64) (dxi [3]float64) {
	r, t := c[0], c[2]
	dxi[0] = 2 / (1 - t) * dc[0]
	dxi[1] = dc[1]
	dxi[2] = (1+r)/(1-t)*dc[0] + dc[2]
	return
}

var prismVertices = [6][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {-1, 1, 1},
}

func (prismShape) Vertex(v int) [3]float64 { return prismVertices[v] }

func (prismShape) VertexWeights(xi [3]float64, w []float64) {
	var (
		t0 = -0.5 * (xi[0] + xi[2])
		t1 = 0.5 * (1 + xi[0])
		t2 = 0.5 * (1 + xi[2])
		l0 = 0.5 * (1 - xi[1])
		l1 = 0.5 * (1 + xi[1])
	)
	w[0], w[1], w[2], w[3] = t0*l0, t1*l0, t1*l1, t0*l1
	w[4], w[5] = t2*l0, t2*l1
}

func (prismShape) Measure(c [3]float64, b Basis) float64 {
	if b.LZero {
		return 0.5 * (1 - c[2])
	}
	return 0.5
}

func (prismShape) faces(xi [3]float64) []float64 {
	return []float64{-1 - xi[0], -1 - xi[2], xi[0] + xi[2], math.Abs(xi[1]) - 1}
}

func (sh prismShape) Contains(xi [3]float64, tol float64) bool { return within(tol, sh.faces(xi)...) }

func (sh prismShape) Overshoot(xi [3]float64) float64 { return overshoot(sh.faces(xi)...) }

func (prismShape) SymmetricLattice(n int) (pts [][3]float64) {
	checkLattice(n)
	pts = make([][3]float64, 0, n*n*(n+1)/2)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n-k; i++ {
				pts = append(pts, [3]float64{latticeCoord(i, n), latticeCoord(j, n), latticeCoord(k, n)})
			}
		}
	}
	return
}
