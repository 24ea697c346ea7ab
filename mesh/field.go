package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Field is a scalar sampled at the quadrature points of every element of a
// mesh. Values[id] is laid out on element id's grid.
type Field struct {
	Name   string
	Values [][]float64
}

// NewField samples fn at every quadrature point of m
func NewField(name string, m *Mesh, fn func(p r3.Vec) float64) (f *Field) {
	f = &Field{Name: name, Values: make([][]float64, m.NumElements())}
	for id, el := range m.Elements {
		f.Values[id] = el.Sample(fn)
	}
	return
}

// Check verifies the field has one correctly sized array per element of m
func (f *Field) Check(m *Mesh) error {
	if len(f.Values) != m.NumElements() {
		return fmt.Errorf("%w: field %q has %d elements, mesh has %d",
			ErrInvalidElement, f.Name, len(f.Values), m.NumElements())
	}
	for id, el := range m.Elements {
		if len(f.Values[id]) != el.NumPoints() {
			return fmt.Errorf("%w: field %q element %d has %d values, need %d",
				ErrInvalidElement, f.Name, id, len(f.Values[id]), el.NumPoints())
		}
	}
	return nil
}
