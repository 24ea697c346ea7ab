package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/locate"
	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/readfiles"
	"github.com/notargets/nekprobe/shape"
	"github.com/notargets/nekprobe/utils"
)

// Parameters obtained from the YAML probe file. ghodss/yaml goes through
// encoding/json, so the tags are json tags.
type ProbeParameters struct {
	Title      string        `json:"Title"`
	LZero      bool          `json:"LZero"`
	Dimension  int           `json:"Dimension"`
	Tolerances Tolerances    `json:"Tolerances"`
	Elements   []ElementSpec `json:"Elements"`
	// GridFile is an SU2 mesh used in place of Elements, every element gets
	// GridOrder quadrature points per direction
	GridFile  string      `json:"GridFile"`
	GridOrder int         `json:"GridOrder"`
	Fields    []FieldSpec `json:"Fields"`
	Points    [][]float64 `json:"Points"`
	Resample  int         `json:"Resample"` // lattice points per edge, 0 disables
}

// Tolerances override the locator defaults, zero values are ignored
type Tolerances struct {
	ConvergenceTol2D float64  `json:"ConvergenceTol2D"`
	ConvergenceTol3D float64  `json:"ConvergenceTol3D"`
	DivergenceLimit  float64  `json:"DivergenceLimit"`
	AcceptTol        float64  `json:"AcceptTol"`
	MaxIterations    int      `json:"MaxIterations"`
	Sentinel         *float64 `json:"Sentinel"`
	BoxPadding       float64  `json:"BoxPadding"`
	IndexThreshold   int      `json:"IndexThreshold"`
}

// ElementSpec is one element: its shape, quadrature points per direction and
// vertices. Samples, when present, hold the x, y[, z] coordinates on the
// quadrature grid and make the element curved.
type ElementSpec struct {
	Shape    string      `json:"Shape"`
	Order    []int       `json:"Order"`
	Vertices [][]float64 `json:"Vertices"`
	Samples  [][]float64 `json:"Samples"`
}

// FieldSpec is either a polynomial in x, y, z sampled on every element or
// explicit grid values per element.
type FieldSpec struct {
	Name   string      `json:"Name"`
	Terms  []Monomial  `json:"Terms"`
	Values [][]float64 `json:"Values"`
}

type Monomial struct {
	Coef float64 `json:"Coef"`
	Px   int     `json:"Px"`
	Py   int     `json:"Py"`
	Pz   int     `json:"Pz"`
}

func (ip *ProbeParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *ProbeParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("[%v]\t\t\t= LZero\n", ip.LZero)
	if len(ip.GridFile) != 0 {
		fmt.Printf("[%s]\t\t\t= Grid File\n", ip.GridFile)
	} else {
		fmt.Printf("[%d]\t\t\t\t= Elements\n", len(ip.Elements))
	}
	for _, f := range ip.Fields {
		fmt.Printf("Field[%s]\n", f.Name)
	}
	fmt.Printf("[%d]\t\t\t\t= Probe Points\n", len(ip.Points))
	if ip.Resample > 0 {
		fmt.Printf("[%d]\t\t\t\t= Resample Points Per Edge\n", ip.Resample)
	}
}

func (ip *ProbeParameters) Config() (cfg locate.Config) {
	var (
		tol = ip.Tolerances
	)
	cfg = locate.DefaultConfig()
	if tol.ConvergenceTol2D != 0 {
		cfg.ConvergenceTol2D = tol.ConvergenceTol2D
	}
	if tol.ConvergenceTol3D != 0 {
		cfg.ConvergenceTol3D = tol.ConvergenceTol3D
	}
	if tol.DivergenceLimit != 0 {
		cfg.DivergenceLimit = tol.DivergenceLimit
	}
	if tol.AcceptTol != 0 {
		cfg.AcceptTol = tol.AcceptTol
	}
	if tol.MaxIterations != 0 {
		cfg.MaxIterations = tol.MaxIterations
	}
	if tol.Sentinel != nil {
		cfg.Sentinel = *tol.Sentinel
	}
	if tol.BoxPadding != 0 {
		cfg.BoxPadding = tol.BoxPadding
	}
	if tol.IndexThreshold != 0 {
		cfg.IndexThreshold = tol.IndexThreshold
	}
	return
}

func toVec(x []float64, dim int) (p r3.Vec, err error) {
	if len(x) != dim {
		err = fmt.Errorf("%w: need %d coordinates, have %v", mesh.ErrInvalidElement, dim, x)
		return
	}
	p.X, p.Y = x[0], x[1]
	if dim == 3 {
		p.Z = x[2]
	}
	return
}

func (ip *ProbeParameters) BuildMesh() (m *mesh.Mesh, err error) {
	if len(ip.GridFile) != 0 {
		return ip.readGrid()
	}
	if m, err = mesh.NewMesh(ip.Dimension, shape.Basis{LZero: ip.LZero}); err != nil {
		return
	}
	for n, es := range ip.Elements {
		var (
			k     shape.Kind
			q     [3]int
			verts = make([]r3.Vec, len(es.Vertices))
		)
		if k, err = shape.ParseKind(es.Shape); err != nil {
			return nil, fmt.Errorf("element %d: %w", n, err)
		}
		switch len(es.Order) {
		case 1:
			q = [3]int{es.Order[0], es.Order[0], es.Order[0]}
		case 2, 3:
			copy(q[:], es.Order)
		default:
			return nil, fmt.Errorf("%w: element %d order %v", mesh.ErrInvalidElement, n, es.Order)
		}
		for i, v := range es.Vertices {
			if verts[i], err = toVec(v, ip.Dimension); err != nil {
				return nil, fmt.Errorf("element %d: %w", n, err)
			}
		}
		if len(es.Samples) != 0 {
			var coords [3][]float64
			if len(es.Samples) != ip.Dimension {
				return nil, fmt.Errorf("%w: element %d has %d sample arrays",
					mesh.ErrInvalidElement, n, len(es.Samples))
			}
			copy(coords[:], es.Samples)
			_, err = m.AddSamples(k, q, verts, coords, true)
		} else {
			_, err = m.AddStraight(k, q, verts)
		}
		if err != nil {
			return nil, err
		}
	}
	return
}

func (ip *ProbeParameters) readGrid() (m *mesh.Mesh, err error) {
	var grid *readfiles.SU2Grid
	if grid, err = readfiles.ReadSU2File(ip.GridFile, false); err != nil {
		return
	}
	if ip.Dimension != 0 && ip.Dimension != grid.Dim {
		return nil, fmt.Errorf("%w: grid file %s is %dD, input says %dD",
			mesh.ErrInvalidElement, ip.GridFile, grid.Dim, ip.Dimension)
	}
	ip.Dimension = grid.Dim
	q := ip.GridOrder
	if q == 0 {
		q = 4
	}
	return grid.BuildMesh(q, shape.Basis{LZero: ip.LZero})
}

func (ms Monomial) eval(p r3.Vec) float64 {
	return ms.Coef * utils.POW(p.X, ms.Px) * utils.POW(p.Y, ms.Py) * utils.POW(p.Z, ms.Pz)
}

func (ip *ProbeParameters) BuildFields(m *mesh.Mesh) (fields []*mesh.Field, err error) {
	for _, fs := range ip.Fields {
		var f *mesh.Field
		if len(fs.Values) != 0 {
			f = &mesh.Field{Name: fs.Name, Values: fs.Values}
		} else {
			terms := fs.Terms
			f = mesh.NewField(fs.Name, m, func(p r3.Vec) (sum float64) {
				for _, t := range terms {
					sum += t.eval(p)
				}
				return
			})
		}
		if err = f.Check(m); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return
}

func (ip *ProbeParameters) ProbePoints() (pts []r3.Vec, err error) {
	pts = make([]r3.Vec, len(ip.Points))
	for i, x := range ip.Points {
		if pts[i], err = toVec(x, ip.Dimension); err != nil {
			return nil, fmt.Errorf("probe point %d: %w", i, err)
		}
	}
	return
}
