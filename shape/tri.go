package shape

// The triangle xi1, xi2 >= -1, xi1 + xi2 <= 0 is collapsed onto the square by
//
//	r = 2(1+xi1)/(1-xi2) - 1,  s = xi2
//
// which sends the edge xi2 = 1 (the top vertex) to r = -1.
type triShape struct{}

func (triShape) Kind() Kind       { return Tri }
func (triShape) Dim() int         { return 2 }
func (triShape) NumVertices() int { return 3 }
func (triShape) Simplex() bool    { return true }

func (triShape) Family(dir int, b Basis) Family {
	checkDir(Tri, dir)
	if dir == 0 {
		return lobattoLegendre
	}
	return radauCollapsed(b, 1)
}

func (triShape) NaturalToCollapsed(xi [3]float64) (c [3]float64) {
	c[0] = collapse(xi[0], 1-xi[1])
	c[1] = xi[1]
	return
}

func (triShape) CollapsedToNatural(c [3]float64) (xi [3]float64) {
	xi[0] = 0.5*(1+c[0])*(1-c[1]) - 1
	xi[1] = c[1]
	return
}

func (triShape) NaturalDerivatives(c, dc [3]float64) (dxi [3]float64) {
	r, s := c[0], c[1]
	dxi[0] = 2 / (1 - s) * dc[0]
	dxi[1] = (1+r)/(1-s)*dc[0] + dc[1]
	return
}

var triVertices = [3][3]float64{{-1, -1}, {1, -1}, {-1, 1}}

func (triShape) Vertex(v int) [3]float64 { return triVertices[v] }

func (triShape) VertexWeights(xi [3]float64, w []float64) {
	w[0] = -0.5 * (xi[0] + xi[1])
	w[1] = 0.5 * (1 + xi[0])
	w[2] = 0.5 * (1 + xi[1])
}

func (triShape) Measure(c [3]float64, b Basis) float64 {
	if b.LZero {
		return 0.5 * (1 - c[1])
	}
	return 0.5
}

func (triShape) faces(xi [3]float64) []float64 {
	return []float64{-1 - xi[0], -1 - xi[1], xi[0] + xi[1]}
}

func (sh triShape) Contains(xi [3]float64, tol float64) bool { return within(tol, sh.faces(xi)...) }

func (sh triShape) Overshoot(xi [3]float64) float64 { return overshoot(sh.faces(xi)...) }

func (triShape) SymmetricLattice(n int) (pts [][3]float64) {
	checkLattice(n)
	pts = make([][3]float64, 0, n*(n+1)/2)
	for j := 0; j < n; j++ {
		for i := 0; i < n-j; i++ {
			pts = append(pts, [3]float64{latticeCoord(i, n), latticeCoord(j, n), 0})
		}
	}
	return
}
