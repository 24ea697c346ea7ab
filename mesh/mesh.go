package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/polylib"
	"github.com/notargets/nekprobe/shape"
)

const (
	DefaultBoxPadding     = 1.1
	DefaultIndexThreshold = 64
)

type refKey struct {
	kind shape.Kind
	q    [3]int
}

// Mesh is an ordered collection of elements of one spatial dimension.
// Element ids are their position in Elements.
type Mesh struct {
	Dim      int
	Basis    shape.Basis
	Elements []*Element
	// BoxPadding scales every bounding box about its center
	BoxPadding float64
	// IndexThreshold is the element count at which candidate search switches
	// from a linear scan of the boxes to the R-tree
	IndexThreshold int

	refs  map[refKey]*shape.Reference
	boxes []BoundingBox
	index *BoxIndex
}

func NewMesh(dim int, b shape.Basis) (m *Mesh, err error) {
	if dim != 2 && dim != 3 {
		err = fmt.Errorf("%w: mesh dimension %d", polylib.ErrUnsupportedConfiguration, dim)
		return
	}
	m = &Mesh{
		Dim:            dim,
		Basis:          b,
		BoxPadding:     DefaultBoxPadding,
		IndexThreshold: DefaultIndexThreshold,
		refs:           make(map[refKey]*shape.Reference),
	}
	return
}

// Reference returns the shared reference element for kind k with q points per
// direction, building it on first use.
func (m *Mesh) Reference(k shape.Kind, q [3]int) (ref *shape.Reference, err error) {
	if k.GetDimension() != m.Dim {
		err = fmt.Errorf("%w: %v element in a %dD mesh", ErrInvalidElement, k, m.Dim)
		return
	}
	if m.Dim == 2 {
		q[2] = 0
	}
	key := refKey{k, q}
	var ok bool
	if ref, ok = m.refs[key]; ok {
		return
	}
	if ref, err = shape.NewReference(k, q, m.Basis); err != nil {
		return
	}
	m.refs[key] = ref
	return
}

// AddStraight appends a straight sided element and returns its id
func (m *Mesh) AddStraight(k shape.Kind, q [3]int, verts []r3.Vec) (id int, err error) {
	var (
		ref *shape.Reference
		el  *Element
	)
	if ref, err = m.Reference(k, q); err != nil {
		return
	}
	if el, err = NewStraightElement(len(m.Elements), ref, verts); err != nil {
		return
	}
	return m.add(el), nil
}

// AddCurved appends an element with geometry given by mapping
func (m *Mesh) AddCurved(k shape.Kind, q [3]int, verts []r3.Vec,
	mapping func(xi [3]float64) r3.Vec) (id int, err error) {
	var (
		ref *shape.Reference
		el  *Element
	)
	if ref, err = m.Reference(k, q); err != nil {
		return
	}
	if el, err = NewCurvedElement(len(m.Elements), ref, verts, mapping); err != nil {
		return
	}
	return m.add(el), nil
}

// AddSamples appends an element from coordinate samples on its quadrature grid
func (m *Mesh) AddSamples(k shape.Kind, q [3]int, verts []r3.Vec,
	coords [3][]float64, curved bool) (id int, err error) {
	var (
		ref *shape.Reference
		el  *Element
	)
	if ref, err = m.Reference(k, q); err != nil {
		return
	}
	if el, err = NewElementFromSamples(len(m.Elements), ref, verts, coords, curved); err != nil {
		return
	}
	return m.add(el), nil
}

func (m *Mesh) add(el *Element) int {
	m.Elements = append(m.Elements, el)
	m.ResetBoundingBoxes()
	return el.ID
}

func (m *Mesh) NumElements() int { return len(m.Elements) }

// MaxOrder is the largest per-direction point count over all elements
func (m *Mesh) MaxOrder() (qmax int) {
	for _, el := range m.Elements {
		qmax = max(qmax, el.Ref.MaxOrder())
	}
	return
}

// Integrate sums per element grid data over the whole mesh
func (m *Mesh) Integrate(f [][]float64) (sum float64) {
	for id, el := range m.Elements {
		sum += el.Integrate(f[id])
	}
	return
}
