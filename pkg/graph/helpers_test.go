package graph

import (
	"math/rand/v2"
	"slices"

	"proximity_components/pkg/geo"
)

// unionFind is a disjoint-set with path halving and union by rank, used as
// an independent oracle for component sizes.
type unionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

func newUnionFind(n uint32) *unionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &unionFind{parent: parent, rank: make([]byte, n), size: size}
}

func (uf *unionFind) find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y uint32) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}

// bruteForceSizes compares every pair of points and returns component sizes
// sorted descending.
func bruteForceSizes(points []geo.Point, threshold float64) []int {
	n := uint32(len(points))
	uf := newUnionFind(n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if geo.Within(points[i], points[j], threshold) {
				uf.union(i, j)
			}
		}
	}
	var sizes []int
	for i := range n {
		if uf.find(i) == i {
			sizes = append(sizes, int(uf.size[i]))
		}
	}
	slices.Sort(sizes)
	slices.Reverse(sizes)
	return sizes
}

// bruteForceNeighbors returns the sorted neighbor list of every point.
func bruteForceNeighbors(points []geo.Point, threshold float64) [][]uint32 {
	out := make([][]uint32, len(points))
	for i := range points {
		for j := range points {
			if i != j && geo.Within(points[i], points[j], threshold) {
				out[i] = append(out[i], uint32(j))
			}
		}
	}
	return out
}

// clusteredPoints scatters n points around a few centers so that the graph
// has a mix of large components and isolated points.
func clusteredPoints(rng *rand.Rand, n int) []geo.Point {
	centers := []geo.Point{{X: 0, Y: 0}, {X: 20, Y: 5}, {X: -15, Y: 30}, {X: 40, Y: -40}}
	points := make([]geo.Point, n)
	for i := range points {
		if i%7 == 0 {
			points[i] = geo.Point{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
			continue
		}
		c := centers[i%len(centers)]
		points[i] = geo.Point{X: c.X + rng.NormFloat64()*2, Y: c.Y + rng.NormFloat64()*2}
	}
	return points
}

func sortedNeighbors(adj *Adjacency, u uint32) []uint32 {
	nbrs := slices.Clone(adj.Neighbors(u))
	slices.Sort(nbrs)
	return nbrs
}
