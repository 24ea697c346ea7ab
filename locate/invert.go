package locate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/shape"
	"github.com/notargets/nekprobe/utils"
)

// RefPoint is a location within a reference element, in both coordinate
// systems. Unused trailing entries are zero in 2D.
type RefPoint struct {
	Natural   [3]float64
	Collapsed [3]float64
}

func NewRefPoint(sh shape.Shape, xi [3]float64) RefPoint {
	return RefPoint{Natural: xi, Collapsed: sh.NaturalToCollapsed(xi)}
}

// Inversion is the outcome of solving x(xi) = p within one element
type Inversion struct {
	Converged bool
	// Inside is true when Converged and Ref lies in the reference element
	Inside     bool
	Ref        RefPoint
	Iterations int
	// Distance is the sum of the squared amounts by which the natural
	// coordinates fall beyond the faces of the reference element
	Distance float64
}

// Invert solves for the reference coordinates of physical point p in el. The
// iteration is seeded from hint when given, otherwise straight sided
// triangles and tetrahedra are solved in closed form and everything else
// starts from the nearest quadrature point.
func (lc *Locator) Invert(el *mesh.Element, p r3.Vec, hint *RefPoint) (inv Inversion, err error) {
	var (
		xi         [3]float64
		closedForm = !el.Curved && (el.Kind() == shape.Tri || el.Kind() == shape.Tet)
	)
	switch {
	case hint != nil:
		xi, inv.Iterations, inv.Converged = lc.newton(el, p, hint.Natural)
	case closedForm:
		if xi, err = affineInverse(el, p); err != nil {
			return
		}
		inv.Converged = lc.bounded(xi, el.Dim())
	default:
		xi, inv.Iterations, inv.Converged = lc.newton(el, p, el.Ref.Natural(nearestPoint(el, p)))
	}
	inv.Ref = NewRefPoint(el.Ref.Shape, xi)
	if !inv.Converged {
		return
	}
	inv.Distance = el.Ref.Shape.Overshoot(inv.Ref.Natural)
	inv.Inside = el.Ref.Shape.Contains(inv.Ref.Natural, lc.Config.AcceptTol)
	return
}

func (lc *Locator) newton(el *mesh.Element, p r3.Vec, xi0 [3]float64) (xi [3]float64, iter int, converged bool) {
	var (
		ref        = el.Ref
		dim        = el.Dim()
		tol        = lc.Config.Tolerance(dim)
		hr, hs, ht = lc.scratch(ref.MaxOrder())
		G          = el.GeomFactors
	)
	xi = xi0
	for iter = 0; iter < lc.Config.MaxIterations; iter++ {
		c := ref.Shape.NaturalToCollapsed(xi)
		ref.ShapeFunctions(c, hr, hs, ht)
		x := r3.Vec{
			X: ref.Contract(el.X, hr, hs, ht),
			Y: ref.Contract(el.Y, hr, hs, ht),
		}
		if dim == 3 {
			x.Z = ref.Contract(el.Z, hr, hs, ht)
		}
		res := r3.Sub(p, x)
		if dim == 2 {
			res.Z = 0
		}
		if r3.Norm(res) < tol {
			converged = true
			return
		}
		var (
			delta = [3]float64{res.X, res.Y, res.Z}
			step  [3]float64
		)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				step[i] += ref.Contract(G[i][j], hr, hs, ht) * delta[j]
			}
		}
		for i := 0; i < dim; i++ {
			xi[i] += step[i]
		}
		if !lc.bounded(xi, dim) {
			return
		}
	}
	return
}

// bounded applies the divergence guard to natural coordinates
func (lc *Locator) bounded(xi [3]float64, dim int) bool {
	for i := 0; i < dim; i++ {
		if !(math.Abs(xi[i]) <= lc.Config.DivergenceLimit) {
			return false
		}
	}
	return true
}

// nearestPoint returns the quadrature point of el closest to p
func nearestPoint(el *mesh.Element, p r3.Vec) (idx int) {
	if el.Dim() == 2 {
		p.Z = 0
	}
	dmin := math.Inf(1)
	for n := 0; n < el.NumPoints(); n++ {
		if d := r3.Norm2(r3.Sub(el.Point(n), p)); d < dmin {
			dmin, idx = d, n
		}
	}
	return
}

// affineInverse solves the vertex map of a straight sided simplex,
// x = v0 + sum_i (1+xi_i)/2 (v_i - v0), for xi.
func affineInverse(el *mesh.Element, p r3.Vec) (xi [3]float64, err error) {
	var (
		v   = el.Vertices
		dim = el.Dim()
		A   [3][3]float64
		b   = r3.Sub(p, v[0])
		rhs = [3]float64{b.X, b.Y, b.Z}
	)
	for i := 0; i < dim; i++ {
		e := r3.Sub(v[i+1], v[0])
		col := [3]float64{e.X, e.Y, e.Z}
		for m := 0; m < dim; m++ {
			A[m][i] = col[m]
		}
	}
	var lambda [3]float64
	if dim == 2 {
		det := A[0][0]*A[1][1] - A[0][1]*A[1][0]
		if degenerate(det, el, dim) {
			err = fmt.Errorf("%w: element %d, closed form det %.3g", mesh.ErrDegenerateElement, el.ID, det)
			return
		}
		lambda[0] = (rhs[0]*A[1][1] - A[0][1]*rhs[1]) / det
		lambda[1] = (A[0][0]*rhs[1] - rhs[0]*A[1][0]) / det
	} else {
		det := r3.Dot(r3.Vec{X: A[0][0], Y: A[1][0], Z: A[2][0]},
			r3.Cross(r3.Vec{X: A[0][1], Y: A[1][1], Z: A[2][1]}, r3.Vec{X: A[0][2], Y: A[1][2], Z: A[2][2]}))
		if degenerate(det, el, dim) {
			err = fmt.Errorf("%w: element %d, closed form det %.3g", mesh.ErrDegenerateElement, el.ID, det)
			return
		}
		// Cramer's rule
		for i := 0; i < 3; i++ {
			var Ai [3]r3.Vec
			for col := 0; col < 3; col++ {
				c := r3.Vec{X: A[0][col], Y: A[1][col], Z: A[2][col]}
				if col == i {
					c = b
				}
				Ai[col] = c
			}
			lambda[i] = r3.Dot(Ai[0], r3.Cross(Ai[1], Ai[2])) / det
		}
	}
	for i := 0; i < dim; i++ {
		xi[i] = 2*lambda[i] - 1
	}
	return
}

func degenerate(det float64, el *mesh.Element, dim int) bool {
	return !(math.Abs(det) > utils.NODETOL*utils.POW(el.Size(), dim)) || !utils.IsFinite(det)
}
