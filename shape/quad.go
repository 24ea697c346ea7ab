package shape

import "math"

type quadShape struct{}

func (quadShape) Kind() Kind       { return Quad }
func (quadShape) Dim() int         { return 2 }
func (quadShape) NumVertices() int { return 4 }
func (quadShape) Simplex() bool    { return false }

func (quadShape) Family(dir int, b Basis) Family {
	checkDir(Quad, dir)
	return lobattoLegendre
}

func (quadShape) NaturalToCollapsed(xi [3]float64) [3]float64 { return [3]float64{xi[0], xi[1], 0} }
func (quadShape) CollapsedToNatural(c [3]float64) [3]float64  { return [3]float64{c[0], c[1], 0} }
func (quadShape) NaturalDerivatives(c, dc [3]float64) [3]float64 {
	return [3]float64{dc[0], dc[1], 0}
}

var quadVertices = [4][3]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

func (quadShape) Vertex(v int) [3]float64 { return quadVertices[v] }

func (quadShape) VertexWeights(xi [3]float64, w []float64) {
	a, b := xi[0], xi[1]
	w[0] = 0.25 * (1 - a) * (1 - b)
	w[1] = 0.25 * (1 + a) * (1 - b)
	w[2] = 0.25 * (1 + a) * (1 + b)
	w[3] = 0.25 * (1 - a) * (1 + b)
}

func (quadShape) Measure(c [3]float64, b Basis) float64 { return 1. }

func (quadShape) faces(xi [3]float64) []float64 {
	return []float64{math.Abs(xi[0]) - 1, math.Abs(xi[1]) - 1}
}

func (sh quadShape) Contains(xi [3]float64, tol float64) bool { return within(tol, sh.faces(xi)...) }

func (sh quadShape) Overshoot(xi [3]float64) float64 { return overshoot(sh.faces(xi)...) }

func (quadShape) SymmetricLattice(n int) (pts [][3]float64) {
	checkLattice(n)
	pts = make([][3]float64, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			pts = append(pts, [3]float64{latticeCoord(i, n), latticeCoord(j, n), 0})
		}
	}
	return
}
