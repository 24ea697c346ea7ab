package locate

import (
	"fmt"

	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/polylib"
)

// Config holds the tolerances of the point locator
type Config struct {
	// Newton stops once the physical residual |x(xi) - p| drops below these
	ConvergenceTol2D float64
	ConvergenceTol3D float64
	// Iteration is abandoned once any natural coordinate exceeds this magnitude
	DivergenceLimit float64
	// A converged point is inside when its natural coordinates lie within
	// AcceptTol of every face of the reference element
	AcceptTol     float64
	MaxIterations int
	// Sentinel is reported for every field at a point that could not be located
	Sentinel       float64
	BoxPadding     float64
	IndexThreshold int
}

func DefaultConfig() Config {
	return Config{
		ConvergenceTol2D: 1.e-8,
		ConvergenceTol3D: 1.e-9,
		DivergenceLimit:  1.5,
		AcceptTol:        1.e-6,
		MaxIterations:    101,
		Sentinel:         -100,
		BoxPadding:       mesh.DefaultBoxPadding,
		IndexThreshold:   mesh.DefaultIndexThreshold,
	}
}

func (cfg Config) Validate() error {
	switch {
	case !(cfg.ConvergenceTol2D > 0) || !(cfg.ConvergenceTol3D > 0):
		return fmt.Errorf("%w: convergence tolerances must be positive, have %g, %g",
			polylib.ErrUnsupportedConfiguration, cfg.ConvergenceTol2D, cfg.ConvergenceTol3D)
	case !(cfg.DivergenceLimit > 1):
		return fmt.Errorf("%w: divergence limit %g must exceed 1",
			polylib.ErrUnsupportedConfiguration, cfg.DivergenceLimit)
	case cfg.AcceptTol < 0:
		return fmt.Errorf("%w: negative acceptance tolerance %g",
			polylib.ErrUnsupportedConfiguration, cfg.AcceptTol)
	case cfg.MaxIterations < 1:
		return fmt.Errorf("%w: need at least one Newton iteration, have %d",
			polylib.ErrUnsupportedConfiguration, cfg.MaxIterations)
	case cfg.BoxPadding < 1:
		return fmt.Errorf("%w: box padding %g would shrink the boxes",
			polylib.ErrUnsupportedConfiguration, cfg.BoxPadding)
	}
	return nil
}

// Tolerance is the convergence tolerance for a dim dimensional element
func (cfg Config) Tolerance(dim int) float64 {
	if dim == 3 {
		return cfg.ConvergenceTol3D
	}
	return cfg.ConvergenceTol2D
}
