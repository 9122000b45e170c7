package geo

import "math"

// Point is a planar coordinate pair. A point's identity is its index in the
// slice it was loaded into, so two points with equal coordinates are still
// distinct vertices.
type Point struct {
	X float64
	Y float64
}

// DistanceSquared returns the squared Euclidean distance between a and b.
func DistanceSquared(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Limit returns the squared-distance bound for threshold d.
// A threshold <= 0 only admits coincident points.
func Limit(d float64) float64 {
	if d > 0 {
		return d * d
	}
	return 0
}

// Squared limits outside this range lose precision to underflow or
// overflow, so Within switches to math.Hypot there.
const (
	minSquaredLimit = 0x1p-1000
	maxSquaredLimit = 0x1p1000
)

// Within reports whether a and b are at most d apart.
// Compares squared distances; no sqrt on the hot path. A threshold <= 0 (or
// NaN) admits only equal coordinates.
func Within(a, b Point, d float64) bool {
	limit := Limit(d)
	if limit >= minSquaredLimit && limit <= maxSquaredLimit {
		return DistanceSquared(a, b) <= limit
	}
	if !(d > 0) {
		return a.X == b.X && a.Y == b.Y
	}
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= d
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Bound is an axis-aligned bounding box.
type Bound struct {
	Min, Max Point
}

// Bounds returns the bounding box of points. ok is false for an empty slice.
func Bounds(points []Point) (b Bound, ok bool) {
	if len(points) == 0 {
		return Bound{}, false
	}
	b = Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b, true
}
