package locate

import (
	"errors"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/mesh"
)

// NotFound is the element id reported for a point outside every element
const NotFound = -1

var ErrNotFound = errors.New("point not found in mesh")

// Location is the element holding a point and the point's reference
// coordinates within it. Exact is false when the element was chosen by the
// nearest element fallback.
type Location struct {
	Element int
	Ref     RefPoint
	Exact   bool
}

func (loc Location) Found() bool { return loc.Element != NotFound }

// Hint seeds a search with a previous result, typically the location of a
// nearby point.
type Hint struct {
	Element int
	Ref     *RefPoint
}

// Locator finds points in a mesh and interpolates fields there. It owns the
// locality cache, the shape function scratch space and the resampling
// matrices; a Locator is not safe for concurrent use.
type Locator struct {
	Mesh   *mesh.Mesh
	Config Config
	Logger *log.Logger // optional, reports fallback decisions

	last       int
	hr, hs, ht []float64
	matrices   map[latticeKey]*mat.Dense
	builds     int
}

func NewLocator(m *mesh.Mesh, cfg Config) (lc *Locator, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	m.BoxPadding, m.IndexThreshold = cfg.BoxPadding, cfg.IndexThreshold
	m.ResetBoundingBoxes()
	lc = &Locator{
		Mesh:     m,
		Config:   cfg,
		matrices: make(map[latticeKey]*mat.Dense),
	}
	lc.scratch(m.MaxOrder())
	return
}

// Clone returns a Locator on the same mesh and config with its own locality
// cache, scratch space and matrix cache.
func (lc *Locator) Clone() *Locator {
	c := &Locator{
		Mesh:     lc.Mesh,
		Config:   lc.Config,
		Logger:   lc.Logger,
		last:     lc.last,
		matrices: make(map[latticeKey]*mat.Dense),
	}
	c.scratch(lc.Mesh.MaxOrder())
	return c
}

// scratch returns shape function buffers holding at least n entries
func (lc *Locator) scratch(n int) (hr, hs, ht []float64) {
	if len(lc.hr) < n {
		lc.hr, lc.hs, lc.ht = make([]float64, n), make([]float64, n), make([]float64, n)
	}
	return lc.hr, lc.hs, lc.ht
}

func (lc *Locator) logf(format string, args ...any) {
	if lc.Logger != nil {
		lc.Logger.Printf(format, args...)
	}
}

// Last is the element id the next search starts from
func (lc *Locator) Last() int { return lc.last }

// Reset restarts the search order at element 0
func (lc *Locator) Reset() { lc.last = 0 }

// Invalidate drops everything derived from the mesh geometry, needed after
// elements are moved or added.
func (lc *Locator) Invalidate() {
	lc.Mesh.ResetBoundingBoxes()
	clear(lc.matrices)
	lc.last = 0
}

// Locate returns the first element, scanning from the last successful one,
// whose inversion converges inside the element. When none does, the
// converged candidate closest to its reference element is returned with Exact
// unset, and NotFound when no candidate converged at all.
func (lc *Locator) Locate(p r3.Vec) (loc Location) {
	return lc.locateFrom(p, lc.last)
}

// locateFrom scans the candidates of p in wrapped order from element start.
// Only an exact location moves the locality cache.
func (lc *Locator) locateFrom(p r3.Vec, start int) (loc Location) {
	var (
		best     = Location{Element: NotFound}
		bestDist = math.Inf(1)
	)
	for _, id := range lc.Mesh.Candidates(p, start) {
		el := lc.Mesh.Elements[id]
		inv, err := lc.Invert(el, p, nil)
		if err != nil {
			lc.logf("element %d skipped: %v", id, err)
			continue
		}
		if inv.Inside {
			lc.last = id
			return Location{Element: id, Ref: inv.Ref, Exact: true}
		}
		if inv.Converged && inv.Distance < bestDist {
			best, bestDist = Location{Element: id, Ref: inv.Ref}, inv.Distance
		}
	}
	if best.Found() {
		lc.logf("point %v outside all elements, using element %d at distance %.3g",
			p, best.Element, math.Sqrt(bestDist))
	}
	return best
}

// LocateWithHint tries the hinted element first, seeding Newton from the
// hinted reference point when one is given, then falls back to Locate
// starting the scan at the hinted element.
func (lc *Locator) LocateWithHint(p r3.Vec, hint Hint) (loc Location) {
	if hint.Element < 0 || hint.Element >= lc.Mesh.NumElements() {
		return lc.Locate(p)
	}
	if lc.Mesh.PointInBox(p, hint.Element) {
		el := lc.Mesh.Elements[hint.Element]
		inv, err := lc.Invert(el, p, hint.Ref)
		if err == nil && inv.Inside {
			lc.last = hint.Element
			return Location{Element: hint.Element, Ref: inv.Ref, Exact: true}
		}
	}
	return lc.locateFrom(p, hint.Element)
}
