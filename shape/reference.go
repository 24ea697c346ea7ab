package shape

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/nekprobe/polylib"
)

// Reference is a shape together with its per-direction quadrature grid. Data
// living on the grid is stored with the first direction fastest:
// f[i + Q[0]*(j + Q[1]*k)].
type Reference struct {
	Shape    Shape
	Basis    Basis
	Q        [3]int // qa, qb, qc; qc = 1 for 2D shapes
	Families [3]Family
	Nodes    [3][]float64
	Weights  [3][]float64
	D        [3]*mat.Dense // collapsed direction differentiation matrices
}

func NewReference(k Kind, q [3]int, b Basis) (ref *Reference, err error) {
	if k.GetDimension() < 0 {
		err = fmt.Errorf("%w: shape kind %d", polylib.ErrUnsupportedConfiguration, k)
		return
	}
	sh := New(k)
	ref = &Reference{Shape: sh, Basis: b}
	for d := 0; d < 3; d++ {
		if d >= sh.Dim() {
			ref.Q[d] = 1
			ref.Nodes[d], ref.Weights[d] = []float64{0}, []float64{1}
			continue
		}
		if q[d] < 2 {
			err = fmt.Errorf("%w: %v needs at least 2 quadrature points per direction, have %v",
				polylib.ErrUnsupportedConfiguration, k, q)
			return nil, err
		}
		fam := sh.Family(d, b)
		ref.Q[d] = q[d]
		ref.Families[d] = fam
		ref.Nodes[d], ref.Weights[d] = polylib.Quadrature(fam.Kind, q[d], fam.Alpha, fam.Beta)
		ref.D[d] = polylib.DerivativeMatrix(ref.Nodes[d])
	}
	return
}

func (ref *Reference) Kind() Kind { return ref.Shape.Kind() }
func (ref *Reference) Dim() int   { return ref.Shape.Dim() }

// NumPoints is the total number of quadrature points
func (ref *Reference) NumPoints() int { return ref.Q[0] * ref.Q[1] * ref.Q[2] }

// MaxOrder is the largest per-direction point count
func (ref *Reference) MaxOrder() (qmax int) {
	for _, q := range ref.Q {
		qmax = max(qmax, q)
	}
	return
}

func (ref *Reference) Index(i, j, k int) int { return i + ref.Q[0]*(j+ref.Q[1]*k) }

func (ref *Reference) split(idx int) (i, j, k int) {
	i = idx % ref.Q[0]
	j = (idx / ref.Q[0]) % ref.Q[1]
	k = idx / (ref.Q[0] * ref.Q[1])
	return
}

// Collapsed returns the collapsed coordinates of grid point idx
func (ref *Reference) Collapsed(idx int) (c [3]float64) {
	i, j, k := ref.split(idx)
	c[0], c[1] = ref.Nodes[0][i], ref.Nodes[1][j]
	if ref.Dim() == 3 {
		c[2] = ref.Nodes[2][k]
	}
	return
}

// Natural returns the natural coordinates of grid point idx
func (ref *Reference) Natural(idx int) [3]float64 {
	return ref.Shape.CollapsedToNatural(ref.Collapsed(idx))
}

// Weight is the integration weight of grid point idx in natural coordinates
func (ref *Reference) Weight(idx int) float64 {
	i, j, k := ref.split(idx)
	return ref.Weights[0][i] * ref.Weights[1][j] * ref.Weights[2][k] *
		ref.Shape.Measure(ref.Collapsed(idx), ref.Basis)
}

// ShapeFunctions fills hr[0:qa], hs[0:qb], ht[0:qc] with the 1D Lagrange
// bases at collapsed c. The buffers must hold at least MaxOrder entries.
func (ref *Reference) ShapeFunctions(c [3]float64, hr, hs, ht []float64) {
	h := [3][]float64{hr, hs, ht}
	for d := 0; d < 3; d++ {
		if d >= ref.Dim() {
			h[d][0] = 1
			continue
		}
		fam := ref.Families[d]
		polylib.LagrangeBasisAll(fam.Kind, c[d], ref.Nodes[d], fam.Alpha, fam.Beta, h[d])
	}
}

// Contract evaluates the tensor product sum of f against the 1D bases
func (ref *Reference) Contract(f, hr, hs, ht []float64) (val float64) {
	var (
		qa, qb, qc = ref.Q[0], ref.Q[1], ref.Q[2]
		ind        int
	)
	for k := 0; k < qc; k++ {
		var sk float64
		for j := 0; j < qb; j++ {
			var sj float64
			for i := 0; i < qa; i++ {
				sj += hr[i] * f[ind]
				ind++
			}
			sk += hs[j] * sj
		}
		val += ht[k] * sk
	}
	return
}

// Evaluate interpolates grid data f at natural coordinates xi
func (ref *Reference) Evaluate(f []float64, xi [3]float64) float64 {
	var (
		n          = ref.MaxOrder()
		hr, hs, ht = make([]float64, n), make([]float64, n), make([]float64, n)
	)
	ref.ShapeFunctions(ref.Shape.NaturalToCollapsed(xi), hr, hs, ht)
	return ref.Contract(f, hr, hs, ht)
}

// Derivative differentiates grid data f along collapsed direction dir
func (ref *Reference) Derivative(f []float64, dir int) (df []float64) {
	var (
		np = ref.NumPoints()
		D  = ref.D[dir]
	)
	df = make([]float64, np)
	for idx := 0; idx < np; idx++ {
		i, j, k := ref.split(idx)
		ijk := [3]int{i, j, k}
		row := ijk[dir]
		var sum float64
		for p := 0; p < ref.Q[dir]; p++ {
			ijk[dir] = p
			sum += D.At(row, p) * f[ref.Index(ijk[0], ijk[1], ijk[2])]
		}
		df[idx] = sum
	}
	return
}

// Integrate sums f over the reference element in natural coordinates
func (ref *Reference) Integrate(f []float64) (sum float64) {
	for idx := range f {
		sum += ref.Weight(idx) * f[idx]
	}
	return
}
