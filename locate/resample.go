package locate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/polylib"
	"github.com/notargets/nekprobe/shape"
)

type latticeKey struct {
	kind shape.Kind
	n    int
	q    [3]int
}

// lattice returns the matrix taking grid data of el to its symmetric lattice
// with n points per edge. Matrices are shared by every element with the same
// shape and quadrature orders.
func (lc *Locator) lattice(el *mesh.Element, n int) (M *mat.Dense, err error) {
	if n < 2 {
		err = fmt.Errorf("%w: symmetric lattice needs at least 2 points per edge, have %d",
			polylib.ErrUnsupportedConfiguration, n)
		return
	}
	ref := el.Ref
	key := latticeKey{kind: ref.Kind(), n: n, q: ref.Q}
	var ok bool
	if M, ok = lc.matrices[key]; ok {
		return
	}
	var (
		pts        = ref.Shape.SymmetricLattice(n)
		np         = ref.NumPoints()
		hr, hs, ht = lc.scratch(ref.MaxOrder())
	)
	M = mat.NewDense(len(pts), np, nil)
	for row, xi := range pts {
		ref.ShapeFunctions(ref.Shape.NaturalToCollapsed(xi), hr, hs, ht)
		for idx := 0; idx < np; idx++ {
			i, j, k := idx%ref.Q[0], (idx/ref.Q[0])%ref.Q[1], idx/(ref.Q[0]*ref.Q[1])
			M.Set(row, idx, hr[i]*hs[j]*ht[k])
		}
	}
	lc.matrices[key] = M
	lc.builds++
	return
}

// InterpSymmetricPoints resamples grid data of el onto the symmetric lattice
// with n points per edge, ordered as shape.SymmetricLattice.
func (lc *Locator) InterpSymmetricPoints(el *mesh.Element, n int, nodal []float64) (vals []float64, err error) {
	if len(nodal) != el.NumPoints() {
		err = fmt.Errorf("%w: element %d has %d points, have %d values",
			mesh.ErrInvalidElement, el.ID, el.NumPoints(), len(nodal))
		return
	}
	var M *mat.Dense
	if M, err = lc.lattice(el, n); err != nil {
		return
	}
	r, _ := M.Dims()
	vals = make([]float64, r)
	mat.NewVecDense(r, vals).MulVec(M, mat.NewVecDense(len(nodal), nodal))
	return
}

// SymmetricPoints is the physical position of every lattice point of el
func (lc *Locator) SymmetricPoints(el *mesh.Element, n int) (pts []r3.Vec, err error) {
	var coords [3][]float64
	for d, x := range el.Coords() {
		if x == nil {
			continue
		}
		if coords[d], err = lc.InterpSymmetricPoints(el, n, x); err != nil {
			return
		}
	}
	pts = make([]r3.Vec, len(coords[0]))
	for i := range pts {
		pts[i].X, pts[i].Y = coords[0][i], coords[1][i]
		if coords[2] != nil {
			pts[i].Z = coords[2][i]
		}
	}
	return
}
