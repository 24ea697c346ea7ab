package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/shape"
	"github.com/notargets/nekprobe/utils"
)

var (
	ErrDegenerateElement = errors.New("degenerate element")
	ErrInvalidElement    = errors.New("invalid element")
)

// Element is one spectral/hp element. All grid arrays are laid out as the
// element's Reference grid, first direction fastest.
type Element struct {
	ID       int
	Ref      *shape.Reference
	Vertices []r3.Vec
	Curved   bool
	// Physical coordinates at every quadrature point, Z is nil in 2D
	X, Y, Z []float64
	// GeomFactors[i][j] holds d(xi_i)/d(x_j) at every quadrature point:
	// [0][0] = Rx, [0][1] = Ry, [1][0] = Sx, ...
	GeomFactors [3][3][]float64
	// Jac is |det d(x)/d(xi)| at every quadrature point
	Jac []float64
}

// NewStraightElement builds an element whose geometry is the linear,
// bilinear or trilinear blend of its vertices.
func NewStraightElement(id int, ref *shape.Reference, verts []r3.Vec) (el *Element, err error) {
	if err = checkVertices(ref, verts); err != nil {
		return
	}
	var (
		np     = ref.NumPoints()
		w      = make([]float64, len(verts))
		coords [3][]float64
	)
	for d := 0; d < ref.Dim(); d++ {
		coords[d] = make([]float64, np)
	}
	for idx := 0; idx < np; idx++ {
		ref.Shape.VertexWeights(ref.Natural(idx), w)
		var p r3.Vec
		for v, vx := range verts {
			p = r3.Add(p, r3.Scale(w[v], vx))
		}
		setCoord(coords, idx, p, ref.Dim())
	}
	return NewElementFromSamples(id, ref, verts, coords, false)
}

// NewCurvedElement samples mapping, natural coordinates to physical space, at
// every quadrature point.
func NewCurvedElement(id int, ref *shape.Reference, verts []r3.Vec,
	mapping func(xi [3]float64) r3.Vec) (el *Element, err error) {
	if err = checkVertices(ref, verts); err != nil {
		return
	}
	var (
		np     = ref.NumPoints()
		coords [3][]float64
	)
	for d := 0; d < ref.Dim(); d++ {
		coords[d] = make([]float64, np)
	}
	for idx := 0; idx < np; idx++ {
		setCoord(coords, idx, mapping(ref.Natural(idx)), ref.Dim())
	}
	return NewElementFromSamples(id, ref, verts, coords, true)
}

// NewElementFromSamples takes ownership of coordinate samples already laid out
// on the reference grid and derives the geometric factors from them.
func NewElementFromSamples(id int, ref *shape.Reference, verts []r3.Vec,
	coords [3][]float64, curved bool) (el *Element, err error) {
	if err = checkVertices(ref, verts); err != nil {
		return
	}
	np := ref.NumPoints()
	for d := 0; d < ref.Dim(); d++ {
		if len(coords[d]) != np {
			err = fmt.Errorf("%w: element %d coordinate %d has %d samples, need %d",
				ErrInvalidElement, id, d, len(coords[d]), np)
			return
		}
	}
	if !utils.IsFinite(coords) {
		err = fmt.Errorf("%w: element %d has non finite coordinates", ErrInvalidElement, id)
		return
	}
	el = &Element{
		ID:       id,
		Ref:      ref,
		Vertices: append([]r3.Vec(nil), verts...),
		Curved:   curved,
		X:        coords[0],
		Y:        coords[1],
	}
	if ref.Dim() == 3 {
		el.Z = coords[2]
	}
	if err = el.computeGeometricFactors(); err != nil {
		return nil, err
	}
	return
}

func checkVertices(ref *shape.Reference, verts []r3.Vec) error {
	if ref == nil {
		return fmt.Errorf("%w: missing reference element", ErrInvalidElement)
	}
	if len(verts) != ref.Shape.NumVertices() {
		return fmt.Errorf("%w: %v needs %d vertices, have %d",
			ErrInvalidElement, ref.Kind(), ref.Shape.NumVertices(), len(verts))
	}
	return nil
}

func setCoord(coords [3][]float64, idx int, p r3.Vec, dim int) {
	coords[0][idx], coords[1][idx] = p.X, p.Y
	if dim == 3 {
		coords[2][idx] = p.Z
	}
}

func (el *Element) Dim() int         { return el.Ref.Dim() }
func (el *Element) Kind() shape.Kind { return el.Ref.Kind() }
func (el *Element) NumPoints() int   { return el.Ref.NumPoints() }

// Coords returns the coordinate arrays, Z is nil in 2D
func (el *Element) Coords() [3][]float64 { return [3][]float64{el.X, el.Y, el.Z} }

// Point is the physical location of quadrature point idx
func (el *Element) Point(idx int) (p r3.Vec) {
	p.X, p.Y = el.X[idx], el.Y[idx]
	if el.Z != nil {
		p.Z = el.Z[idx]
	}
	return
}

// Forward evaluates the element mapping at natural coordinates xi
func (el *Element) Forward(xi [3]float64) (p r3.Vec) {
	p.X = el.Ref.Evaluate(el.X, xi)
	p.Y = el.Ref.Evaluate(el.Y, xi)
	if el.Z != nil {
		p.Z = el.Ref.Evaluate(el.Z, xi)
	}
	return
}

// Sample evaluates fn at every quadrature point
func (el *Element) Sample(fn func(p r3.Vec) float64) (f []float64) {
	f = make([]float64, el.NumPoints())
	for idx := range f {
		f[idx] = fn(el.Point(idx))
	}
	return
}

// Integrate sums grid data f over the physical element
func (el *Element) Integrate(f []float64) (sum float64) {
	for idx := range f {
		sum += el.Ref.Weight(idx) * el.Jac[idx] * f[idx]
	}
	return
}

// Size is the largest extent of the coordinate samples along any axis
func (el *Element) Size() (h float64) {
	for _, x := range el.Coords() {
		if x == nil {
			continue
		}
		lo, hi := x[0], x[0]
		for _, v := range x {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		h = math.Max(h, hi-lo)
	}
	return
}

func (el *Element) computeGeometricFactors() (err error) {
	var (
		ref    = el.Ref
		dim    = ref.Dim()
		np     = ref.NumPoints()
		coords = el.Coords()
		dx     [3][3][]float64 // dx[m][d] = dx_m / dc_d
		minDet = utils.NODETOL * utils.POW(el.Size(), dim)
	)
	for m := 0; m < dim; m++ {
		for d := 0; d < dim; d++ {
			dx[m][d] = ref.Derivative(coords[m], d)
		}
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			el.GeomFactors[i][j] = make([]float64, np)
		}
	}
	el.Jac = make([]float64, np)
	for idx := 0; idx < np; idx++ {
		var (
			c = ref.Collapsed(idx)
			J [3][3]float64 // J[m][i] = dx_m / dxi_i
		)
		for m := 0; m < dim; m++ {
			var local [3]float64
			for d := 0; d < dim; d++ {
				local[d] = dx[m][d][idx]
			}
			J[m] = ref.Shape.NaturalDerivatives(c, local)
		}
		inv, det := invert(J, dim)
		if !(math.Abs(det) > minDet) || !utils.IsFinite(det) {
			return fmt.Errorf("%w: element %d has |det J| = %.3g at quadrature point %d",
				ErrDegenerateElement, el.ID, math.Abs(det), idx)
		}
		el.Jac[idx] = math.Abs(det)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				el.GeomFactors[i][j][idx] = inv[i][j]
			}
		}
	}
	return
}

// invert returns the inverse and determinant of the leading dim x dim block of A
func invert(A [3][3]float64, dim int) (inv [3][3]float64, det float64) {
	if dim == 2 {
		det = A[0][0]*A[1][1] - A[0][1]*A[1][0]
		inv[0][0] = A[1][1] / det
		inv[0][1] = -A[0][1] / det
		inv[1][0] = -A[1][0] / det
		inv[1][1] = A[0][0] / det
		return
	}
	det = A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])

	inv[0][0] = (A[1][1]*A[2][2] - A[1][2]*A[2][1]) / det
	inv[0][1] = (A[0][2]*A[2][1] - A[0][1]*A[2][2]) / det
	inv[0][2] = (A[0][1]*A[1][2] - A[0][2]*A[1][1]) / det
	inv[1][0] = (A[1][2]*A[2][0] - A[1][0]*A[2][2]) / det
	inv[1][1] = (A[0][0]*A[2][2] - A[0][2]*A[2][0]) / det
	inv[1][2] = (A[0][2]*A[1][0] - A[0][0]*A[1][2]) / det
	inv[2][0] = (A[1][0]*A[2][1] - A[1][1]*A[2][0]) / det
	inv[2][1] = (A[0][1]*A[2][0] - A[0][0]*A[2][1]) / det
	inv[2][2] = (A[0][0]*A[1][1] - A[0][1]*A[1][0]) / det
	return
}
