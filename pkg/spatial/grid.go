package spatial

import (
	"math"

	"proximity_components/pkg/geo"
)

// Index returns neighbor candidates for a query point. Candidates are a
// superset of the true neighbors; callers apply the exact distance test.
type Index interface {
	Candidates(p geo.Point, dst []uint32) []uint32
}

// Cell is an integer grid coordinate (floor(x/side), floor(y/side)).
type Cell struct {
	I, J int64
}

// Cell indices are clamped to ±maxCellIndex so huge x/side ratios stay
// representable. Clamping only merges far-away cells, so points within one
// side length still land at most one index apart.
const maxCellIndex = 1 << 62

// CellOf returns the cell containing p for the given side length.
func CellOf(p geo.Point, side float64) Cell {
	return Cell{I: cellIndex(p.X, side), J: cellIndex(p.Y, side)}
}

func cellIndex(v, side float64) int64 {
	f := math.Floor(v / side)
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxCellIndex:
		return maxCellIndex
	case f < -maxCellIndex:
		return -maxCellIndex
	}
	return int64(f)
}

// exactCell keys a point by its exact coordinates. Adding +0 folds -0 into +0
// so the two zeros share a bucket.
func exactCell(p geo.Point) Cell {
	return Cell{
		I: int64(math.Float64bits(p.X + 0)),
		J: int64(math.Float64bits(p.Y + 0)),
	}
}

// Grid buckets point ids into square cells whose side equals the distance
// threshold. Any two points within one side length fall in the same or in
// adjacent cells, so a 3×3 block search finds every neighbor. Rounding can
// put a point that sits on a cell edge two cells away from a neighbor; the
// search then grows by one cell on that side.
//
// A side <= 0 (or NaN) cannot partition the plane. The grid then buckets by
// exact coordinates and the neighborhood of a point is its own bucket, which
// holds exactly the points coincident with it.
//
// The grid is read-only after NewGrid returns and safe for concurrent queries.
type Grid struct {
	side  float64
	exact bool
	cells map[Cell][]uint32
}

// NewGrid builds a grid over points. Bucket order follows input order.
func NewGrid(points []geo.Point, side float64) *Grid {
	g := &Grid{
		side:  side,
		exact: !(side > 0),
		cells: make(map[Cell][]uint32),
	}
	for i, p := range points {
		c := g.CellOf(p)
		g.cells[c] = append(g.cells[c], uint32(i))
	}
	return g
}

// Side returns the cell side length the grid was built with.
func (g *Grid) Side() float64 { return g.side }

// Exact reports whether the grid is in exact-coordinate mode (side <= 0).
func (g *Grid) Exact() bool { return g.exact }

// NumCells returns the number of non-empty cells.
func (g *Grid) NumCells() int { return len(g.cells) }

// CellOf returns the key of the bucket p belongs to.
func (g *Grid) CellOf(p geo.Point) Cell {
	if g.exact {
		return exactCell(p)
	}
	return CellOf(p, g.side)
}

// Bucket returns the point ids in cell c, or nil if the cell is empty.
// The returned slice must not be modified.
func (g *Grid) Bucket(c Cell) []uint32 {
	return g.cells[c]
}

// Candidates appends to dst the ids in the block of cells around p's cell
// and returns the extended slice. The block is 3×3, or up to 5×5 when p lies
// within rounding distance of a cell edge. No distance filtering is done;
// the result includes p itself when p is in the grid.
func (g *Grid) Candidates(p geo.Point, dst []uint32) []uint32 {
	c := g.CellOf(p)
	if g.exact {
		return append(dst, g.cells[c]...)
	}
	w := g.side * (1 + windowSlack)
	iLo, iHi := g.span(p.X, w, c.I)
	jLo, jHi := g.span(p.Y, w, c.J)
	for i := iLo; i <= iHi; i++ {
		for j := jLo; j <= jHi; j++ {
			dst = append(dst, g.cells[Cell{I: i, J: j}]...)
		}
	}
	return dst
}

// span returns the cell range covering [v-w, v+w] on one axis, widened to at
// least ±1 around the point's own cell i and clamped to ±2. Cell assignment
// is monotone in the coordinate, so a neighbor inside the window never falls
// outside the range.
func (g *Grid) span(v, w float64, i int64) (lo, hi int64) {
	lo = min(max(cellIndex(v-w, g.side), i-2), i-1)
	hi = max(min(cellIndex(v+w, g.side), i+2), i+1)
	return lo, hi
}
