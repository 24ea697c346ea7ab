package locate

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/polylib"
	"github.com/notargets/nekprobe/shape"
)

var (
	unitQuad = []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}
	unitTri  = []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	unitHex  = []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1}}
	unitTet   = []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	unitPrism = []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}}
)

func newLocator(t *testing.T, m *mesh.Mesh) *Locator {
	lc, err := NewLocator(m, DefaultConfig())
	require.NoError(t, err)
	return lc
}

func singleElement(t *testing.T, k shape.Kind, q int, verts []r3.Vec) (m *mesh.Mesh) {
	var err error
	m, err = mesh.NewMesh(k.GetDimension(), shape.Basis{})
	require.NoError(t, err)
	_, err = m.AddStraight(k, [3]int{q, q, q}, verts)
	require.NoError(t, err)
	return
}

func TestUnitQuadScenario(t *testing.T) {
	lc := newLocator(t, singleElement(t, shape.Quad, 4, unitQuad))

	loc := lc.Locate(r3.Vec{X: 0.5, Y: 0.5})
	require.Equal(t, 0, loc.Element)
	assert.True(t, loc.Exact)
	assert.InDelta(t, 0., loc.Ref.Natural[0], 1.e-8)
	assert.InDelta(t, 0., loc.Ref.Natural[1], 1.e-8)

	loc = lc.Locate(r3.Vec{X: 2, Y: 2})
	assert.Equal(t, NotFound, loc.Element)
	assert.False(t, loc.Found())

	// the inversion itself runs off the element
	inv, err := lc.Invert(lc.Mesh.Elements[0], r3.Vec{X: 2, Y: 2}, nil)
	require.NoError(t, err)
	assert.False(t, inv.Converged && inv.Inside)
}

func TestFallbackToNearest(t *testing.T) {
	var buf bytes.Buffer
	lc := newLocator(t, singleElement(t, shape.Quad, 4, unitQuad))
	lc.Logger = log.New(&buf, "", 0)

	loc := lc.Locate(r3.Vec{X: 1.02, Y: 0.5})
	require.Equal(t, 0, loc.Element)
	assert.False(t, loc.Exact)
	assert.InDelta(t, 1.04, loc.Ref.Natural[0], 1.e-8)
	assert.Contains(t, buf.String(), "using element 0")

	inv, err := lc.Invert(lc.Mesh.Elements[0], r3.Vec{X: 1.02, Y: 0.5}, nil)
	require.NoError(t, err)
	assert.True(t, inv.Converged)
	assert.False(t, inv.Inside)
	assert.InDelta(t, 0.04*0.04, inv.Distance, 1.e-10)
}

func curvedQuadMesh(t *testing.T) (m *mesh.Mesh, mapping func(xi [3]float64) r3.Vec) {
	var err error
	m, err = mesh.NewMesh(2, shape.Basis{})
	require.NoError(t, err)
	mapping = func(xi [3]float64) r3.Vec {
		return r3.Vec{
			X: 0.5*(1+xi[0]) + 0.05*math.Sin(math.Pi*xi[1]),
			Y: 0.5*(1+xi[1]) + 0.05*math.Sin(math.Pi*xi[0]),
		}
	}
	_, err = m.AddCurved(shape.Quad, [3]int{10, 10}, unitQuad, mapping)
	require.NoError(t, err)
	return
}

// curvedSimplex perturbs the vertex map of a unit simplex or prism with a
// sinusoid that vanishes at the vertices.
func curvedSimplex(t *testing.T, k shape.Kind, q int, verts []r3.Vec) (m *mesh.Mesh) {
	var err error
	m, err = mesh.NewMesh(k.GetDimension(), shape.Basis{})
	require.NoError(t, err)
	mapping := func(xi [3]float64) r3.Vec {
		p := r3.Vec{
			X: 0.5*(1+xi[0]) + 0.04*math.Sin(math.Pi*xi[1]),
			Y: 0.5*(1+xi[1]) + 0.04*math.Sin(math.Pi*xi[0]),
		}
		if k.GetDimension() == 3 {
			p.Y = 0.5*(1+xi[1]) + 0.03*math.Sin(math.Pi*xi[2])
			p.Z = 0.5*(1+xi[2]) + 0.03*math.Sin(math.Pi*xi[0])
		}
		return p
	}
	_, err = m.AddCurved(k, [3]int{q, q, q}, verts, mapping)
	require.NoError(t, err)
	return
}

func TestRoundTrip(t *testing.T) {
	type roundTrip struct {
		name string
		m    *mesh.Mesh
		pts  [][3]float64
	}
	curved, _ := curvedQuadMesh(t)
	tests := []roundTrip{
		{"Quad", singleElement(t, shape.Quad, 5, unitQuad),
			[][3]float64{{0.3, -0.7}, {-0.95, 0.95}, {0, 0}}},
		{"Tri", singleElement(t, shape.Tri, 5, unitTri),
			[][3]float64{{-0.5, -0.2}, {-0.9, 0.8}, {0.3, -0.9}}},
		{"Hex", singleElement(t, shape.Hex, 4, unitHex),
			[][3]float64{{0.3, -0.7, 0.1}, {0.9, 0.9, -0.9}}},
		{"Tet", singleElement(t, shape.Tet, 4, unitTet),
			[][3]float64{{-0.5, -0.5, -0.5}, {-0.9, -0.2, 0}, {0.5, -0.8, -0.9}}},
		{"Prism", singleElement(t, shape.Prism, 4, unitPrism),
			[][3]float64{{-0.5, 0.3, -0.2}, {0.6, -0.9, -0.8}}},
		{"CurvedQuad", curved,
			[][3]float64{{0.3, -0.7}, {-0.8, 0.6}, {0.1, 0.2}}},
		{"CurvedTri", curvedSimplex(t, shape.Tri, 6, unitTri),
			[][3]float64{{-0.95, 0.9}, {-0.3, -0.4}, {0.5, -0.8}}},
		{"CurvedTet", curvedSimplex(t, shape.Tet, 6, unitTet),
			[][3]float64{{-0.9, -0.9, 0.75}, {-0.6, -0.5, -0.4}, {0.4, -0.8, -0.9}}},
		{"CurvedPrism", curvedSimplex(t, shape.Prism, 6, unitPrism),
			[][3]float64{{-0.9, 0.2, 0.85}, {0.2, -0.6, -0.5}, {-0.4, 0.9, 0.1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := newLocator(t, tt.m)
			el := tt.m.Elements[0]
			for _, xi := range tt.pts {
				p := el.Forward(xi)
				inv, err := lc.Invert(el, p, nil)
				require.NoError(t, err)
				assert.True(t, inv.Converged)
				assert.True(t, inv.Inside)
				assert.Zero(t, inv.Distance)
				for d := 0; d < el.Dim(); d++ {
					assert.InDeltaf(t, xi[d], inv.Ref.Natural[d], 1.e-7, "xi %v dir %d", xi, d)
				}
				loc := lc.Locate(p)
				assert.Equal(t, 0, loc.Element)
				assert.True(t, loc.Exact)
			}
		})
	}
}

func TestInvertWithHint(t *testing.T) {
	m, mapping := curvedQuadMesh(t)
	lc := newLocator(t, m)
	xi := [3]float64{0.4, 0.45}
	p := mapping(xi)
	hint := NewRefPoint(m.Elements[0].Ref.Shape, [3]float64{0.3, 0.4})
	inv, err := lc.Invert(m.Elements[0], p, &hint)
	require.NoError(t, err)
	assert.True(t, inv.Inside)
	assert.InDelta(t, xi[0], inv.Ref.Natural[0], 1.e-6)
	assert.InDelta(t, xi[1], inv.Ref.Natural[1], 1.e-6)
}

func TestNewtonIterationCap(t *testing.T) {
	m, _ := curvedQuadMesh(t)
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	lc, err := NewLocator(m, cfg)
	require.NoError(t, err)
	inv, err := lc.Invert(m.Elements[0], m.Elements[0].Forward([3]float64{0.33, 0.21}), nil)
	require.NoError(t, err)
	assert.False(t, inv.Converged)
	assert.Equal(t, 1, inv.Iterations)
}

// twoTriangles splits the unit square along x+y = 1
func twoTriangles(t *testing.T) (m *mesh.Mesh) {
	var err error
	m, err = mesh.NewMesh(2, shape.Basis{})
	require.NoError(t, err)
	_, err = m.AddStraight(shape.Tri, [3]int{4, 4}, unitTri)
	require.NoError(t, err)
	_, err = m.AddStraight(shape.Tri, [3]int{4, 4}, []r3.Vec{{X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}})
	require.NoError(t, err)
	return
}

func kuhnTets(t *testing.T) (m *mesh.Mesh) {
	var err error
	m, err = mesh.NewMesh(3, shape.Basis{})
	require.NoError(t, err)
	axes := []r3.Vec{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	for _, perm := range [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}} {
		v1 := axes[perm[0]]
		v2 := r3.Add(v1, axes[perm[1]])
		_, err = m.AddStraight(shape.Tet, [3]int{3, 3, 3}, []r3.Vec{{X: 0, Y: 0, Z: 0}, v1, v2, {X: 1, Y: 1, Z: 1}})
		require.NoError(t, err)
	}
	return
}

func twoHexes(t *testing.T) (m *mesh.Mesh) {
	var err error
	m, err = mesh.NewMesh(3, shape.Basis{})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		verts := make([]r3.Vec, len(unitHex))
		for n, v := range unitHex {
			verts[n] = r3.Add(v, r3.Vec{X: float64(i)})
		}
		_, err = m.AddStraight(shape.Hex, [3]int{3, 3, 3}, verts)
		require.NoError(t, err)
	}
	return
}

// twoPrisms splits the unit cube along x+z = 1
func twoPrisms(t *testing.T) (m *mesh.Mesh) {
	var err error
	m, err = mesh.NewMesh(3, shape.Basis{})
	require.NoError(t, err)
	_, err = m.AddStraight(shape.Prism, [3]int{3, 3, 3}, unitPrism)
	require.NoError(t, err)
	_, err = m.AddStraight(shape.Prism, [3]int{3, 3, 3}, []r3.Vec{
		{X: 1, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}})
	require.NoError(t, err)
	return
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		m    *mesh.Mesh
		xmax float64
	}{
		{"TwoTriangles", twoTriangles(t), 1},
		{"KuhnTets", kuhnTets(t), 1},
		{"TwoHexes", twoHexes(t), 2},
		{"TwoPrisms", twoPrisms(t), 1},
	}
	const n = 5
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := newLocator(t, tt.m)
			x := mesh.NewField("x", tt.m, func(p r3.Vec) float64 { return p.X })
			nk := 1
			if tt.m.Dim == 3 {
				nk = n
			}
			for k := 0; k < nk; k++ {
				for j := 0; j < n; j++ {
					for i := 0; i < n; i++ {
						p := r3.Vec{
							X: tt.xmax * (float64(i) + 0.3) / n,
							Y: (float64(j) + 0.6) / n,
						}
						if tt.m.Dim == 3 {
							p.Z = (float64(k) + 0.45) / n
						}
						loc := lc.Locate(p)
						require.Truef(t, loc.Found(), "point %v", p)
						assert.Truef(t, loc.Exact, "point %v", p)
						got := lc.EvaluateFields([]*mesh.Field{x}, loc)
						assert.InDelta(t, p.X, got[0], 1.e-10)
					}
				}
			}
		})
	}
}

func TestPartitionOnFaces(t *testing.T) {
	tests := []struct {
		name string
		m    *mesh.Mesh
		pts  []r3.Vec
	}{
		{"TwoTriangles", twoTriangles(t), []r3.Vec{
			{X: 0.5, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0.2, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0.3, Z: 0},
			{X: 0.5, Y: 0.5, Z: 0}, {X: 0.3, Y: 0, Z: 0}, {X: 0, Y: 0.4, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}},
		{"KuhnTets", kuhnTets(t), []r3.Vec{
			{X: 0.5, Y: 0.5, Z: 0.5}, {X: 1, Y: 1, Z: 1}, {X: 0.2, Y: 1, Z: 0.6}, {X: 0.3, Y: 0.3, Z: 1},
			{X: 1, Y: 0.2, Z: 0.9}, {X: 0.5, Y: 0.5, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0.6, Y: 0.5, Z: 0.5}}},
		{"TwoHexes", twoHexes(t), []r3.Vec{
			{X: 1, Y: 0.5, Z: 0.5}, {X: 2, Y: 1, Z: 1}, {X: 0, Y: 0, Z: 0}, {X: 1.5, Y: 1, Z: 0.3}}},
		{"TwoPrisms", twoPrisms(t), []r3.Vec{
			{X: 0.5, Y: 0.5, Z: 0.5}, {X: 0.6, Y: 0.2, Z: 1}, {X: 0.2, Y: 0.7, Z: 0}, {X: 0, Y: 0.3, Z: 1},
			{X: 1, Y: 0.5, Z: 0}, {X: 1, Y: 0.2, Z: 0.9}, {X: 0, Y: 0.8, Z: 0.4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := newLocator(t, tt.m)
			x := mesh.NewField("x", tt.m, func(p r3.Vec) float64 { return p.X })
			for _, p := range tt.pts {
				loc := lc.Locate(p)
				require.Truef(t, loc.Found(), "point %v", p)
				assert.Truef(t, loc.Exact, "point %v", p)
				got := lc.EvaluateFields([]*mesh.Field{x}, loc)
				assert.InDeltaf(t, p.X, got[0], 1.e-8, "point %v in element %d", p, loc.Element)
			}
		})
	}
}

func TestCollapsedPlaneOutside(t *testing.T) {
	// points on the line through the collapsed vertex of element 0 belong to
	// element 1
	lc := newLocator(t, twoTriangles(t))
	x := mesh.NewField("x", lc.Mesh, func(p r3.Vec) float64 { return p.X })
	for _, p := range []r3.Vec{{X: 0.5, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0.2, Y: 1, Z: 0}} {
		lc.Reset()
		inv, err := lc.Invert(lc.Mesh.Elements[0], p, nil)
		require.NoError(t, err)
		assert.True(t, inv.Converged)
		assert.False(t, inv.Inside)
		assert.InDelta(t, p.X*p.X*4, inv.Distance, 1.e-12)

		loc := lc.Locate(p)
		assert.Equal(t, 1, loc.Element)
		assert.True(t, loc.Exact)
		assert.InDelta(t, p.X, lc.EvaluateFields([]*mesh.Field{x}, loc)[0], 1.e-10)
	}

	lc = newLocator(t, singleElement(t, shape.Tet, 4, unitTet))
	inv, err := lc.Invert(lc.Mesh.Elements[0], r3.Vec{X: 0.6, Y: 0.5, Z: 0.5}, nil)
	require.NoError(t, err)
	assert.True(t, inv.Converged)
	assert.False(t, inv.Inside)
	assert.InDelta(t, 0.2, inv.Ref.Natural[0], 1.e-12)
	assert.InDelta(t, 1.2*1.2, inv.Distance, 1.e-12)
	loc := lc.Locate(r3.Vec{X: 0.6, Y: 0.5, Z: 0.5})
	assert.False(t, loc.Exact)
}

func TestLocalityCache(t *testing.T) {
	lc := newLocator(t, twoTriangles(t))
	loc := lc.Locate(r3.Vec{X: 0.8, Y: 0.7})
	require.Equal(t, 1, loc.Element)
	assert.Equal(t, 1, lc.Last())

	// a point on the shared edge is reported by the cached element first
	diag := r3.Vec{X: 0.5, Y: 0.5}
	assert.Equal(t, 1, lc.Locate(diag).Element)
	lc.Reset()
	assert.Equal(t, 0, lc.Last())
	assert.Equal(t, 0, lc.Locate(diag).Element)

	// fallback does not move the cache
	lc.Locate(r3.Vec{X: 1.01, Y: 0.5})
	assert.Equal(t, 0, lc.Last())
}

func TestLocateWithHint(t *testing.T) {
	lc := newLocator(t, twoTriangles(t))
	p := r3.Vec{X: 0.9, Y: 0.8}
	first := lc.Locate(p)
	require.Equal(t, 1, first.Element)
	lc.Reset()

	q := r3.Vec{X: 0.88, Y: 0.81}
	loc := lc.LocateWithHint(q, Hint{Element: first.Element, Ref: &first.Ref})
	assert.Equal(t, 1, loc.Element)
	assert.True(t, loc.Exact)
	assert.Equal(t, 1, lc.Last())

	// a wrong hint still finds the point
	loc = lc.LocateWithHint(r3.Vec{X: 0.1, Y: 0.2}, Hint{Element: 1})
	assert.Equal(t, 0, loc.Element)
	assert.True(t, loc.Exact)
	assert.Equal(t, 0, lc.Last())

	// a hint that ends in the fallback leaves the cache alone
	loc = lc.LocateWithHint(r3.Vec{X: 1.01, Y: 0.5}, Hint{Element: 1})
	assert.True(t, loc.Found())
	assert.False(t, loc.Exact)
	assert.Equal(t, 0, lc.Last())

	loc = lc.LocateWithHint(r3.Vec{X: 0.1, Y: 0.2}, Hint{Element: 7})
	assert.Equal(t, 0, loc.Element)
}

func TestBoxSoundness(t *testing.T) {
	curved, _ := curvedQuadMesh(t)
	for _, m := range []*mesh.Mesh{twoTriangles(t), kuhnTets(t), twoPrisms(t), curved} {
		newLocator(t, m)
		for id, el := range m.Elements {
			for idx := 0; idx < el.NumPoints(); idx++ {
				assert.True(t, m.PointInBox(el.Point(idx), id))
			}
			for _, v := range el.Vertices {
				assert.True(t, m.PointInBox(v, id))
			}
		}
	}
}

func TestIndexedSearch(t *testing.T) {
	m := kuhnTets(t)
	cfg := DefaultConfig()
	cfg.IndexThreshold = 1
	lc, err := NewLocator(m, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, m.IndexThreshold)
	for _, p := range []r3.Vec{{X: 0.7, Y: 0.2, Z: 0.1}, {X: 0.1, Y: 0.2, Z: 0.7}, {X: 0.2, Y: 0.7, Z: 0.3}} {
		loc := lc.Locate(p)
		require.True(t, loc.Found())
		assert.True(t, loc.Exact)
		back := m.Elements[loc.Element].Forward(loc.Ref.Natural)
		assert.InDelta(t, 0., r3.Norm(r3.Sub(back, p)), 1.e-10)
	}
}

func TestEvaluateFields(t *testing.T) {
	m, _ := curvedQuadMesh(t)
	lc := newLocator(t, m)
	f := mesh.NewField("xy", m, func(p r3.Vec) float64 { return p.X * p.Y })
	one := mesh.NewField("one", m, func(p r3.Vec) float64 { return 1 })

	p := m.Elements[0].Forward([3]float64{0.2, -0.3})
	loc := lc.Locate(p)
	require.True(t, loc.Exact)
	vals := lc.EvaluateFields([]*mesh.Field{f, one}, loc)
	assert.InDelta(t, p.X*p.Y, vals[0], 1.e-6)
	assert.InDelta(t, 1., vals[1], 1.e-12)

	vals = lc.EvaluateFields([]*mesh.Field{f, one}, Location{Element: NotFound})
	assert.Equal(t, []float64{-100, -100}, vals)
}

func TestProbe(t *testing.T) {
	m := twoTriangles(t)
	lc := newLocator(t, m)
	f := mesh.NewField("u", m, func(p r3.Vec) float64 { return 2*p.X - p.Y })
	pts := []r3.Vec{{X: 0.2, Y: 0.3, Z: 0}, {X: 0.9, Y: 0.9, Z: 0}, {X: 5, Y: 5, Z: 0}}
	vals, locs, err := lc.Probe(pts, []*mesh.Field{f})
	require.NoError(t, err)
	assert.Equal(t, 0, locs[0].Element)
	assert.Equal(t, 1, locs[1].Element)
	assert.Equal(t, NotFound, locs[2].Element)
	want := [][]float64{{0.1}, {0.9}, {-100}}
	assert.True(t, cmp.Equal(want, vals, cmpopts.EquateApprox(0, 1.e-10)), cmp.Diff(want, vals))

	bad := &mesh.Field{Name: "short", Values: f.Values[:1]}
	_, _, err = lc.Probe(pts, []*mesh.Field{bad})
	assert.ErrorIs(t, err, mesh.ErrInvalidElement)
}

func TestIntegrate(t *testing.T) {
	m := twoTriangles(t)
	lc := newLocator(t, m)
	f := mesh.NewField("x", m, func(p r3.Vec) float64 { return p.X })
	sum, err := lc.Integrate(f)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sum, 1.e-12)

	sum, err = lc.IntegrateElement(0, f.Values[0])
	require.NoError(t, err)
	assert.InDelta(t, 1./6., sum, 1.e-12)

	_, err = lc.IntegrateElement(3, f.Values[0])
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = lc.IntegrateElement(1, f.Values[0][:3])
	assert.ErrorIs(t, err, mesh.ErrInvalidElement)
}

func TestInterpSymmetricPoints(t *testing.T) {
	poly := func(p r3.Vec) float64 { return p.X*p.X + 2*p.Y - p.Z*p.X }
	tests := []struct {
		name string
		m    *mesh.Mesh
	}{
		{"Quad", singleElement(t, shape.Quad, 4, unitQuad)},
		{"Tri", singleElement(t, shape.Tri, 4, unitTri)},
		{"Hex", singleElement(t, shape.Hex, 4, unitHex)},
		{"Tet", singleElement(t, shape.Tet, 4, unitTet)},
		{"Prism", singleElement(t, shape.Prism, 4, unitPrism)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := newLocator(t, tt.m)
			el := tt.m.Elements[0]
			pts, err := lc.SymmetricPoints(el, 5)
			require.NoError(t, err)
			assert.Len(t, pts, len(el.Ref.Shape.SymmetricLattice(5)))
			assert.Equal(t, 1, lc.builds)

			got, err := lc.InterpSymmetricPoints(el, 5, el.Sample(poly))
			require.NoError(t, err)
			want := make([]float64, len(pts))
			for i, p := range pts {
				want[i] = poly(p)
			}
			assert.True(t, cmp.Equal(want, got, cmpopts.EquateApprox(0, 1.e-10)), cmp.Diff(want, got))
			assert.Equal(t, 1, lc.builds)

			_, err = lc.InterpSymmetricPoints(el, 3, el.Sample(poly))
			require.NoError(t, err)
			assert.Equal(t, 2, lc.builds)

			lc.Invalidate()
			_, err = lc.InterpSymmetricPoints(el, 3, el.Sample(poly))
			require.NoError(t, err)
			assert.Equal(t, 3, lc.builds)

			_, err = lc.InterpSymmetricPoints(el, 1, el.Sample(poly))
			assert.ErrorIs(t, err, polylib.ErrUnsupportedConfiguration)
			_, err = lc.InterpSymmetricPoints(el, 3, []float64{1})
			assert.ErrorIs(t, err, mesh.ErrInvalidElement)
		})
	}
}

func TestLatticeSharedAcrossElements(t *testing.T) {
	lc := newLocator(t, twoTriangles(t))
	for _, el := range lc.Mesh.Elements {
		_, err := lc.SymmetricPoints(el, 4)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lc.builds)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	m := singleElement(t, shape.Quad, 3, unitQuad)
	for _, modify := range []func(*Config){
		func(c *Config) { c.ConvergenceTol2D = 0 },
		func(c *Config) { c.DivergenceLimit = 1 },
		func(c *Config) { c.AcceptTol = -1 },
		func(c *Config) { c.MaxIterations = 0 },
		func(c *Config) { c.BoxPadding = 0.9 },
	} {
		cfg := DefaultConfig()
		modify(&cfg)
		_, err := NewLocator(m, cfg)
		assert.ErrorIs(t, err, polylib.ErrUnsupportedConfiguration)
	}
	assert.Equal(t, 1.e-9, DefaultConfig().Tolerance(3))
	assert.Equal(t, 1.e-8, DefaultConfig().Tolerance(2))
}

func TestProbeParallel(t *testing.T) {
	m := kuhnTets(t)
	lc := newLocator(t, m)
	f := mesh.NewField("u", m, func(p r3.Vec) float64 { return p.X + 2*p.Y - p.Z })
	var pts []r3.Vec
	for i := 0; i < 97; i++ {
		s := float64(i) / 97
		pts = append(pts, r3.Vec{X: 0.05 + 0.9*s, Y: 0.9 - 0.8*s, Z: 0.5 + 0.4*math.Sin(7*s)})
	}
	pts = append(pts, r3.Vec{X: 3, Y: 3, Z: 3})

	want, wantLocs, err := lc.Probe(pts, []*mesh.Field{f})
	require.NoError(t, err)
	lc.Reset()
	got, locs, err := lc.ProbeParallel(pts, []*mesh.Field{f}, 4)
	require.NoError(t, err)
	assert.True(t, cmp.Equal(want, got, cmpopts.EquateApprox(0, 1.e-10)), cmp.Diff(want, got))
	for i := range locs {
		assert.Equal(t, wantLocs[i].Found(), locs[i].Found())
		if locs[i].Found() {
			assert.True(t, locs[i].Exact)
		}
	}
	assert.Equal(t, []float64{-100}, got[len(got)-1])

	clone := lc.Clone()
	assert.Same(t, lc.Mesh, clone.Mesh)
	assert.Equal(t, 0, clone.builds)
}
