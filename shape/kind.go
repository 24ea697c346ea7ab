package shape

import (
	"fmt"
	"strings"

	"github.com/notargets/nekprobe/polylib"
)

// Kind is the element shape
type Kind uint8

const (
	Quad Kind = iota
	Tri
	Hex
	Tet
	Prism
)

// String representation of shape kinds
func (k Kind) String() string {
	names := []string{"Quad", "Tri", "Hex", "Tet", "Prism"}
	if int(k) < len(names) {
		return names[k]
	}
	return "Invalid"
}

// GetDimension returns the spatial dimension of the shape
func (k Kind) GetDimension() int {
	switch k {
	case Quad, Tri:
		return 2
	case Hex, Tet, Prism:
		return 3
	default:
		return -1
	}
}

// GetNumVertices returns the number of vertices for each shape
func (k Kind) GetNumVertices() int {
	switch k {
	case Tri:
		return 3
	case Quad, Tet:
		return 4
	case Prism:
		return 6
	case Hex:
		return 8
	default:
		return -1
	}
}

func ParseKind(label string) (k Kind, err error) {
	switch strings.ToLower(label) {
	case "quad", "quadrilateral":
		k = Quad
	case "tri", "triangle":
		k = Tri
	case "hex", "hexahedron":
		k = Hex
	case "tet", "tetrahedron":
		k = Tet
	case "prism":
		k = Prism
	default:
		err = fmt.Errorf("%w: unknown shape %q", polylib.ErrUnsupportedConfiguration, label)
	}
	return
}

// Basis selects the weighting convention of the collapsed directions. With
// LZero unset those directions use Gauss-Radau-Jacobi rules whose alpha
// absorbs the collapse factor (1-z)^k; with LZero set every direction is
// Legendre (alpha = beta = 0) and the factor is carried by the measure.
type Basis struct {
	LZero bool
}

// Family is the quadrature family used along one reference direction
type Family struct {
	Kind        polylib.Kind
	Alpha, Beta float64
}

var lobattoLegendre = Family{Kind: polylib.Lobatto}

func radauCollapsed(b Basis, alpha float64) Family {
	if b.LZero {
		return Family{Kind: polylib.RadauLeft}
	}
	return Family{Kind: polylib.RadauLeft, Alpha: alpha}
}
