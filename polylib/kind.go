package polylib

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedConfiguration marks arguments the kernel was never meant to
// see, Γ at a non-integer non-half-integer value or an unknown rule family.
var ErrUnsupportedConfiguration = errors.New("unsupported configuration")

// Kind selects one of the Jacobi quadrature families
type Kind uint8

const (
	Gauss      Kind = iota
	RadauLeft       // z = -1 is a node
	RadauRight      // z = +1 is a node
	Lobatto         // z = -1 and z = +1 are nodes
)

func (k Kind) String() string {
	switch k {
	case Gauss:
		return "Gauss"
	case RadauLeft:
		return "RadauLeft"
	case RadauRight:
		return "RadauRight"
	case Lobatto:
		return "Lobatto"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func ParseKind(label string) (k Kind, err error) {
	switch strings.ToLower(label) {
	case "gauss", "gj":
		k = Gauss
	case "radauleft", "radau", "radaum", "grjm":
		k = RadauLeft
	case "radauright", "radaup", "grjp":
		k = RadauRight
	case "lobatto", "glj", "gll":
		k = Lobatto
	default:
		err = fmt.Errorf("%w: unknown quadrature family %q", ErrUnsupportedConfiguration, label)
	}
	return
}
