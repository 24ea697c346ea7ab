package mesh

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// BoundingBox is the padded axis aligned extent of one element
type BoundingBox struct {
	r3.Box
}

// NewBoundingBox covers the vertices and quadrature points of el, scaled by
// padding about its center.
func NewBoundingBox(el *Element, padding float64) (bb BoundingBox) {
	var (
		coords = el.Coords()
		lo, hi [3]float64
	)
	for d := 0; d < 3; d++ {
		if coords[d] == nil {
			continue
		}
		lo[d], hi[d] = floats.Min(coords[d]), floats.Max(coords[d])
	}
	for _, v := range el.Vertices {
		vc := [3]float64{v.X, v.Y, v.Z}
		for d := 0; d < el.Dim(); d++ {
			lo[d], hi[d] = math.Min(lo[d], vc[d]), math.Max(hi[d], vc[d])
		}
	}
	var (
		min    = r3.Vec{X: lo[0], Y: lo[1], Z: lo[2]}
		max    = r3.Vec{X: hi[0], Y: hi[1], Z: hi[2]}
		center = r3.Scale(0.5, r3.Add(min, max))
		half   = r3.Scale(0.5*padding, r3.Sub(max, min))
	)
	bb.Min, bb.Max = r3.Sub(center, half), r3.Add(center, half)
	return
}

// Contains tests the first dim coordinates of p against the box, inclusive
func (bb BoundingBox) Contains(p r3.Vec, dim int) bool {
	if p.X < bb.Min.X || p.X > bb.Max.X || p.Y < bb.Min.Y || p.Y > bb.Max.Y {
		return false
	}
	if dim == 3 && (p.Z < bb.Min.Z || p.Z > bb.Max.Z) {
		return false
	}
	return true
}

// BoundingBoxes returns the padded box of every element, computing them on
// first use.
func (m *Mesh) BoundingBoxes() []BoundingBox {
	if m.boxes == nil {
		m.boxes = make([]BoundingBox, len(m.Elements))
		for id, el := range m.Elements {
			m.boxes[id] = NewBoundingBox(el, m.BoxPadding)
		}
		m.index = nil
	}
	return m.boxes
}

// ResetBoundingBoxes drops the cached boxes and index
func (m *Mesh) ResetBoundingBoxes() {
	m.boxes, m.index = nil, nil
}

// BuildIndex computes the boxes and, for meshes at or above IndexThreshold
// elements, the R-tree. Afterwards Candidates only reads the mesh, so it may be
// called from several goroutines.
func (m *Mesh) BuildIndex() {
	boxes := m.BoundingBoxes()
	if len(boxes) >= m.IndexThreshold && m.index == nil {
		m.index = NewBoxIndex(boxes)
	}
}

func (m *Mesh) PointInBox(p r3.Vec, id int) bool {
	return m.BoundingBoxes()[id].Contains(p, m.Dim)
}

// Candidates returns the ids of elements whose box holds p, in the order
// start, start+1, ..., wrapping around to start-1.
func (m *Mesh) Candidates(p r3.Vec, start int) (ids []int) {
	var (
		ne    = len(m.Elements)
		boxes = m.BoundingBoxes()
	)
	if ne == 0 {
		return
	}
	if start < 0 || start >= ne {
		start = 0
	}
	if ne >= m.IndexThreshold {
		m.BuildIndex()
		hits := m.index.Search(p, m.Dim)
		// rotate into wrapped order
		for _, id := range hits {
			if id >= start {
				ids = append(ids, id)
			}
		}
		for _, id := range hits {
			if id < start {
				ids = append(ids, id)
			}
		}
		return
	}
	for n := 0; n < ne; n++ {
		id := (start + n) % ne
		if boxes[id].Contains(p, m.Dim) {
			ids = append(ids, id)
		}
	}
	return
}
