package shape

import "math"

type hexShape struct{}

func (hexShape) Kind() Kind       { return Hex }
func (hexShape) Dim() int         { return 3 }
func (hexShape) NumVertices() int { return 8 }
func (hexShape) Simplex() bool    { return false }

func (hexShape) Family(dir int, b Basis) Family {
	checkDir(Hex, dir)
	return lobattoLegendre
}

func (hexShape) NaturalToCollapsed(xi [3]float64) [3]float64    { return xi }
func (hexShape) CollapsedToNatural(c [3]float64) [3]float64     { return c }
func (hexShape) NaturalDerivatives(c, dc [3]float64) [3]float64 { return dc }

// Bottom face counter clockwise, then the top face above it
var hexVertices = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

func (hexShape) Vertex(v int) [3]float64 { return hexVertices[v] }

func (hexShape) VertexWeights(xi [3]float64, w []float64) {
	for v, vx := range hexVertices {
		w[v] = 0.125 * (1 + vx[0]*xi[0]) * (1 + vx[1]*xi[1]) * (1 + vx[2]*xi[2])
	}
}

func (hexShape) Measure(c [3]float64, b Basis) float64 { return 1. }

func (hexShape) faces(xi [3]float64) []float64 {
	return []float64{math.Abs(xi[0]) - 1, math.Abs(xi[1]) - 1, math.Abs(xi[2]) - 1}
}

func (sh hexShape) Contains(xi [3]float64, tol float64) bool { return within(tol, sh.faces(xi)...) }

func (sh hexShape) Overshoot(xi [3]float64) float64 { return overshoot(sh.faces(xi)...) }

func (hexShape) SymmetricLattice(n int) (pts [][3]float64) {
	checkLattice(n)
	pts = make([][3]float64, 0, n*n*n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				pts = append(pts, [3]float64{latticeCoord(i, n), latticeCoord(j, n), latticeCoord(k, n)})
			}
		}
	}
	return
}
