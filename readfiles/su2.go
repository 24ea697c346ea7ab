package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/polylib"
	"github.com/notargets/nekprobe/shape"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
	ELType_Hexahedral    SU2ElementType = 12
	ELType_Prism         SU2ElementType = 13
	ELType_Pyramid       SU2ElementType = 14
)

var ErrBadGridFile = errors.New("bad SU2 grid file")

// Kind is the element shape of an SU2 volume element type
func (et SU2ElementType) Kind() (k shape.Kind, err error) {
	switch et {
	case ELType_Triangle:
		k = shape.Tri
	case ELType_Quadrilateral:
		k = shape.Quad
	case ELType_Tetrahedral:
		k = shape.Tet
	case ELType_Hexahedral:
		k = shape.Hex
	case ELType_Prism:
		k = shape.Prism
	default:
		err = fmt.Errorf("%w: SU2 element type %d", polylib.ErrUnsupportedConfiguration, et)
	}
	return
}

// SU2Element lists vertex indices in the vertex order of its shape
type SU2Element struct {
	Kind  shape.Kind
	Verts []int
}

// SU2Grid is the volume mesh of an SU2 file. Markers map each boundary tag to
// its boundary elements as vertex index lists.
type SU2Grid struct {
	Dim      int
	Elements []SU2Element
	Vertices []r3.Vec
	Markers  map[string][][]int
}

func ReadSU2File(filename string, verbose bool) (grid *SU2Grid, err error) {
	var file *os.File
	if verbose {
		fmt.Printf("Reading SU2 file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s\n %w", filename, err)
	}
	defer file.Close()
	if grid, err = ReadSU2(file); err == nil && verbose {
		fmt.Printf("Read file with %d dimensional data, %d elements, %d vertices...\n",
			grid.Dim, len(grid.Elements), len(grid.Vertices))
	}
	return
}

func ReadSU2(r io.Reader) (grid *SU2Grid, err error) {
	var (
		reader = bufio.NewReader(r)
		nv     int
	)
	grid = &SU2Grid{}
	if grid.Dim, err = readNumber(reader, "NDIME"); err != nil {
		return nil, err
	}
	if grid.Dim != 2 && grid.Dim != 3 {
		return nil, fmt.Errorf("%w: NDIME= %d", ErrBadGridFile, grid.Dim)
	}
	if grid.Elements, err = readElements(reader); err != nil {
		return nil, err
	}
	if grid.Vertices, err = readVertices(reader, grid.Dim); err != nil {
		return nil, err
	}
	nv = len(grid.Vertices)
	for n, el := range grid.Elements {
		for _, v := range el.Verts {
			if v < 0 || v >= nv {
				return nil, fmt.Errorf("%w: element %d references vertex %d of %d",
					ErrBadGridFile, n, v, nv)
			}
		}
	}
	if grid.Markers, err = readMarkers(reader); err != nil {
		return nil, err
	}
	return
}

// BuildMesh makes every element of the grid a straight sided element with q
// quadrature points per direction.
func (grid *SU2Grid) BuildMesh(q int, b shape.Basis) (m *mesh.Mesh, err error) {
	if m, err = mesh.NewMesh(grid.Dim, b); err != nil {
		return
	}
	for n, el := range grid.Elements {
		verts := make([]r3.Vec, len(el.Verts))
		for i, v := range el.Verts {
			verts[i] = grid.Vertices[v]
		}
		if _, err = m.AddStraight(el.Kind, [3]int{q, q, q}, verts); err != nil {
			return nil, fmt.Errorf("grid element %d: %w", n, err)
		}
	}
	return
}

func readElements(reader *bufio.Reader) (elements []SU2Element, err error) {
	var K int
	if K, err = readNumber(reader, "NELEM"); err != nil {
		return
	}
	elements = make([]SU2Element, K)
	for k := 0; k < K; k++ {
		var (
			line   string
			fields []int
		)
		if line, err = getLine(reader); err != nil {
			return
		}
		if fields, err = scanInts(line); err != nil || len(fields) < 1 {
			return nil, fmt.Errorf("%w: element line [%s]", ErrBadGridFile, line)
		}
		et := SU2ElementType(fields[0])
		if elements[k].Kind, err = et.Kind(); err != nil {
			return
		}
		nv := elements[k].Kind.GetNumVertices()
		if len(fields) < 1+nv {
			return nil, fmt.Errorf("%w: element line [%s] needs %d vertices", ErrBadGridFile, line, nv)
		}
		elements[k].Verts = fromSU2Order(et, fields[1:1+nv])
	}
	return
}

// fromSU2Order converts VTK vertex order to shape vertex order. Only the
// prism differs: SU2 lists its two triangular faces, shape.Prism starts with
// the quadrilateral face xi3 = -1.
func fromSU2Order(et SU2ElementType, v []int) []int {
	if et != ELType_Prism {
		return v
	}
	return []int{v[0], v[1], v[4], v[3], v[2], v[5]}
}

func readVertices(reader *bufio.Reader, dim int) (verts []r3.Vec, err error) {
	var Nv int
	if Nv, err = readNumber(reader, "NPOIN"); err != nil {
		return
	}
	verts = make([]r3.Vec, Nv)
	for i := 0; i < Nv; i++ {
		var (
			line string
			n    int
			x    [3]float64
		)
		if line, err = getLine(reader); err != nil {
			return
		}
		if dim == 2 {
			n, err = fmt.Sscanf(line, "%f %f", &x[0], &x[1])
		} else {
			n, err = fmt.Sscanf(line, "%f %f %f", &x[0], &x[1], &x[2])
		}
		if err != nil || n != dim {
			return nil, fmt.Errorf("%w: unable to read coordinates from [%s]", ErrBadGridFile, line)
		}
		verts[i] = r3.Vec{X: x[0], Y: x[1], Z: x[2]}
	}
	return
}

func readMarkers(reader *bufio.Reader) (markers map[string][][]int, err error) {
	var NBCs int
	if NBCs, err = readNumber(reader, "NMARK"); err != nil {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		return
	}
	markers = make(map[string][][]int, NBCs)
	for n := 0; n < NBCs; n++ {
		var (
			label  string
			nEdges int
		)
		if label, err = readLabel(reader, "MARKER_TAG"); err != nil {
			return
		}
		if nEdges, err = readNumber(reader, "MARKER_ELEMS"); err != nil {
			return
		}
		// duplicate tags, periodic pairs for instance, accumulate
		for i := 0; i < nEdges; i++ {
			var (
				line   string
				fields []int
			)
			if line, err = getLine(reader); err != nil {
				return
			}
			if fields, err = scanInts(line); err != nil || len(fields) < 2 {
				return nil, fmt.Errorf("%w: marker line [%s]", ErrBadGridFile, line)
			}
			markers[label] = append(markers[label], fields[1:])
		}
	}
	return
}

func scanInts(line string) (vals []int, err error) {
	for _, tok := range strings.Fields(line) {
		var v int
		if _, err = fmt.Sscanf(tok, "%d", &v); err != nil {
			return
		}
		vals = append(vals, v)
	}
	return
}

// getToken returns the text after the = of the next non comment line, which
// must carry the given keyword.
func getToken(reader *bufio.Reader, keyword string) (token string, err error) {
	var line string
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		return "", fmt.Errorf("%w: badly formed input line [%s], should have an =", ErrBadGridFile, line)
	}
	if key := strings.TrimSpace(line[:ind]); key != keyword {
		return "", fmt.Errorf("%w: expected %s, have [%s]", ErrBadGridFile, keyword, line)
	}
	token = line[ind+1:]
	return
}

func readLabel(reader *bufio.Reader, keyword string) (label string, err error) {
	var token string
	if token, err = getToken(reader, keyword); err != nil {
		return
	}
	if label = strings.TrimSpace(token); len(label) == 0 {
		err = fmt.Errorf("%w: unable to read label from token: [%s]", ErrBadGridFile, token)
	}
	return
}

func readNumber(reader *bufio.Reader, keyword string) (num int, err error) {
	var token string
	if token, err = getToken(reader, keyword); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("%w: unable to read number from token: [%s]", ErrBadGridFile, token)
	}
	return
}

func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if len(line) != 0 && line[0] != '%' {
			return
		}
	}
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	line = strings.TrimRight(line, "\r\n")
	return
}
