package locate

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekprobe/mesh"
	"github.com/notargets/nekprobe/utils"
)

// EvaluateFields interpolates every field at loc. Each field reads Sentinel
// when loc was not found.
func (lc *Locator) EvaluateFields(fields []*mesh.Field, loc Location) (vals []float64) {
	vals = make([]float64, len(fields))
	if !loc.Found() {
		utils.Fill(vals, lc.Config.Sentinel)
		return
	}
	var (
		ref        = lc.Mesh.Elements[loc.Element].Ref
		hr, hs, ht = lc.scratch(ref.MaxOrder())
	)
	ref.ShapeFunctions(loc.Ref.Collapsed, hr, hs, ht)
	for n, f := range fields {
		vals[n] = ref.Contract(f.Values[loc.Element], hr, hs, ht)
	}
	return
}

// Probe locates every point in turn and interpolates the fields there,
// values[i][n] is field n at points[i].
func (lc *Locator) Probe(points []r3.Vec, fields []*mesh.Field) (values [][]float64, locs []Location, err error) {
	for _, f := range fields {
		if err = f.Check(lc.Mesh); err != nil {
			return
		}
	}
	values = make([][]float64, len(points))
	locs = make([]Location, len(points))
	var missing int
	for i, p := range points {
		locs[i] = lc.Locate(p)
		if !locs[i].Found() {
			missing++
		}
		values[i] = lc.EvaluateFields(fields, locs[i])
	}
	if missing > 0 {
		lc.logf("%d of %d probe points not found", missing, len(points))
	}
	return
}

// ProbeParallel is Probe with the points split into np contiguous ranges,
// each located by its own clone of lc.
func (lc *Locator) ProbeParallel(points []r3.Vec, fields []*mesh.Field, np int) (values [][]float64, locs []Location, err error) {
	if np < 2 || len(points) < np {
		return lc.Probe(points, fields)
	}
	for _, f := range fields {
		if err = f.Check(lc.Mesh); err != nil {
			return
		}
	}
	var (
		pm = utils.NewPartitionMap(np, len(points))
		wg sync.WaitGroup
	)
	values = make([][]float64, len(points))
	locs = make([]Location, len(points))
	lc.Mesh.BuildIndex()
	for n := 0; n < np; n++ {
		wg.Add(1)
		kMin, kMax := pm.GetBucketRange(n)
		go func(worker *Locator) {
			defer wg.Done()
			for i := kMin; i < kMax; i++ {
				locs[i] = worker.Locate(points[i])
				values[i] = worker.EvaluateFields(fields, locs[i])
			}
		}(lc.Clone())
	}
	wg.Wait()
	return
}

// Integrate sums a field over the whole mesh with the element quadrature
func (lc *Locator) Integrate(f *mesh.Field) (sum float64, err error) {
	if err = f.Check(lc.Mesh); err != nil {
		return
	}
	return lc.Mesh.Integrate(f.Values), nil
}

// IntegrateElement sums grid data f over element id
func (lc *Locator) IntegrateElement(id int, f []float64) (sum float64, err error) {
	if id < 0 || id >= lc.Mesh.NumElements() {
		err = fmt.Errorf("%w: element %d", ErrNotFound, id)
		return
	}
	el := lc.Mesh.Elements[id]
	if len(f) != el.NumPoints() {
		err = fmt.Errorf("%w: element %d has %d points, have %d values",
			mesh.ErrInvalidElement, id, el.NumPoints(), len(f))
		return
	}
	return el.Integrate(f), nil
}
