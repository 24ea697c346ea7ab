package mesh

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// BoxIndex is an R-tree over the x-y footprint of element bounding boxes.
// Hits are filtered against the full box so 3D meshes are handled exactly.
type BoxIndex struct {
	tree  *rtree.Rtree
	boxes []BoundingBox
}

// indexedBox carries the footprint as a rectangle polygon so it satisfies the
// tree's geometry interface.
type indexedBox struct {
	geom.Polygon
	id int
}

func NewBoxIndex(boxes []BoundingBox) (bi *BoxIndex) {
	bi = &BoxIndex{
		tree:  rtree.NewTree(25, 50),
		boxes: boxes,
	}
	for id, bb := range boxes {
		bi.tree.Insert(&indexedBox{
			Polygon: geom.Polygon{{
				{X: bb.Min.X, Y: bb.Min.Y},
				{X: bb.Max.X, Y: bb.Min.Y},
				{X: bb.Max.X, Y: bb.Max.Y},
				{X: bb.Min.X, Y: bb.Max.Y},
			}},
			id: id,
		})
	}
	return
}

// Search returns the ids, ascending, of all boxes containing p
func (bi *BoxIndex) Search(p r3.Vec, dim int) (ids []int) {
	var (
		eps   = 1.e-12 * (1 + math.Abs(p.X) + math.Abs(p.Y))
		probe = &geom.Bounds{
			Min: geom.Point{X: p.X - eps, Y: p.Y - eps},
			Max: geom.Point{X: p.X + eps, Y: p.Y + eps},
		}
	)
	for _, item := range bi.tree.SearchIntersect(probe) {
		id := item.(*indexedBox).id
		if bi.boxes[id].Contains(p, dim) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return
}
