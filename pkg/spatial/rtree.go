package spatial

import (
	"math"

	"github.com/tidwall/rtree"

	"proximity_components/pkg/geo"
)

const windowSlack = 1e-12

// RTree is an Index backed by an R-tree of point ids. A query returns every
// point inside the axis-aligned square of half-width radius around p, which
// contains the disk of that radius.
type RTree struct {
	tr     rtree.RTreeG[uint32]
	radius float64
}

// NewRTree indexes points for window queries of the given radius.
// A radius <= 0 degenerates to a point query.
func NewRTree(points []geo.Point, radius float64) *RTree {
	r := &RTree{}
	if radius > 0 {
		r.radius = radius
	}
	for i, p := range points {
		pt := [2]float64{p.X, p.Y}
		r.tr.Insert(pt, pt, uint32(i))
	}
	return r
}

// Len returns the number of indexed points.
func (r *RTree) Len() int { return r.tr.Len() }

// Candidates appends to dst the ids inside the query window around p.
func (r *RTree) Candidates(p geo.Point, dst []uint32) []uint32 {
	// Widen the window by a few ulps so rounding in p±radius never drops a
	// point the exact distance test would accept.
	w := r.radius + windowSlack*(r.radius+math.Max(math.Abs(p.X), math.Abs(p.Y)))
	lo := [2]float64{p.X - w, p.Y - w}
	hi := [2]float64{p.X + w, p.Y + w}
	r.tr.Search(lo, hi, func(_, _ [2]float64, id uint32) bool {
		dst = append(dst, id)
		return true
	})
	return dst
}
