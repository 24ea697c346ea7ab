package shape

// The tetrahedron xi >= -1, xi1+xi2+xi3 <= -1 is collapsed onto the cube by
//
//	r = 2(1+xi1)/(-xi2-xi3) - 1,  s = 2(1+xi2)/(1-xi3) - 1,  t = xi3
type tetShape struct{}

func (tetShape) Kind() Kind       { return Tet }
func (tetShape) Dim() int         { return 3 }
func (tetShape) NumVertices() int { return 4 }
func (tetShape) Simplex() bool    { return true }

func (tetShape) Family(dir int, b Basis) Family {
	checkDir(Tet, dir)
	switch dir {
	case 0:
		return lobattoLegendre
	case 1:
		return radauCollapsed(b, 1)
	}
	return radauCollapsed(b, 2)
}

func (tetShape) NaturalToCollapsed(xi [3]float64) (c [3]float64) {
	c[0] = collapse(xi[0], -xi[1]-xi[2])
	c[1] = collapse(xi[1], 1-xi[2])
	c[2] = xi[2]
	return
}

func (tetShape) CollapsedToNatural(c [3]float64) (xi [3]float64) {
	r, s, t := c[0], c[1], c[2]
	xi[0] = 0.25*(1+r)*(1-s)*(1-t) - 1
	xi[1] = 0.5*(1+s)*(1-t) - 1
	xi[2] = t
	return
}

func (tetShape) NaturalDerivatives(c, dc [3]float64) (dxi [3]float64) {
	var (
		r, s, t = c[0], c[1], c[2]
		fst     = 1 / ((1 - s) * (1 - t))
		ft      = 1 / (1 - t)
	)
	dxi[0] = 4 * fst * dc[0]
	dxi[1] = 2*(1+r)*fst*dc[0] + 2*ft*dc[1]
	dxi[2] = 2*(1+r)*fst*dc[0] + (1+s)*ft*dc[1] + dc[2]
	return
}

var tetVertices = [4][3]float64{{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}

func (tetShape) Vertex(v int) [3]float64 { return tetVertices[v] }

func (tetShape) VertexWeights(xi [3]float64, w []float64) {
	w[0] = -0.5 * (1 + xi[0] + xi[1] + xi[2])
	w[1] = 0.5 * (1 + xi[0])
	w[2] = 0.5 * (1 + xi[1])
	w[3] = 0.5 * (1 + xi[2])
}

func (tetShape) Measure(c [3]float64, b Basis) float64 {
	if b.LZero {
		return 0.125 * (1 - c[1]) * (1 - c[2]) * (1 - c[2])
	}
	return 0.125
}

func (tetShape) faces(xi [3]float64) []float64 {
	return []float64{-1 - xi[0], -1 - xi[1], -1 - xi[2], 1 + xi[0] + xi[1] + xi[2]}
}

func (sh tetShape) Contains(xi [3]float64, tol float64) bool { return within(tol, sh.faces(xi)...) }

func (sh tetShape) Overshoot(xi [3]float64) float64 { return overshoot(sh.faces(xi)...) }

func (tetShape) SymmetricLattice(n int) (pts [][3]float64) {
	checkLattice(n)
	pts = make([][3]float64, 0, n*(n+1)*(n+2)/6)
	for k := 0; k < n; k++ {
		for j := 0; j < n-k; j++ {
			for i := 0; i < n-j-k; i++ {
				pts = append(pts, [3]float64{latticeCoord(i, n), latticeCoord(j, n), latticeCoord(k, n)})
			}
		}
	}
	return
}
