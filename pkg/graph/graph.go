package graph

import "fmt"

// Adjacency is the proximity graph in CSR (Compressed Sparse Row) format.
// Vertex ids are indices into the point slice the graph was built from.
// Content is symmetric: v is listed under u iff u is listed under v.
type Adjacency struct {
	NumNodes uint32
	FirstOut []uint32 // len: NumNodes + 1; FirstOut[u]..FirstOut[u+1] index Head
	Head     []uint32 // neighbor ids, grouped by source vertex
}

// NumEdges returns the number of directed adjacency entries
// (twice the number of undirected edges).
func (a *Adjacency) NumEdges() int {
	return len(a.Head)
}

// Neighbors returns the vertices within threshold distance of u.
// The returned slice aliases the graph and must not be modified.
func (a *Adjacency) Neighbors(u uint32) []uint32 {
	return a.Head[a.FirstOut[u]:a.FirstOut[u+1]]
}

// Degree returns the number of neighbors of u.
func (a *Adjacency) Degree(u uint32) int {
	return int(a.FirstOut[u+1] - a.FirstOut[u])
}

// Validate checks CSR invariants.
func (a *Adjacency) Validate() error {
	if a.NumNodes == 0 && len(a.FirstOut) == 0 {
		if len(a.Head) != 0 {
			return fmt.Errorf("empty graph has %d Head entries", len(a.Head))
		}
		return nil
	}
	if uint32(len(a.FirstOut)) != a.NumNodes+1 {
		return fmt.Errorf("FirstOut length %d != NumNodes+1 %d", len(a.FirstOut), a.NumNodes+1)
	}
	if a.FirstOut[0] != 0 {
		return fmt.Errorf("FirstOut[0]=%d, want 0", a.FirstOut[0])
	}
	if uint32(len(a.Head)) != a.FirstOut[a.NumNodes] {
		return fmt.Errorf("Head length %d != FirstOut[NumNodes] %d", len(a.Head), a.FirstOut[a.NumNodes])
	}
	for i := uint32(1); i <= a.NumNodes; i++ {
		if a.FirstOut[i] < a.FirstOut[i-1] {
			return fmt.Errorf("FirstOut not monotonic at %d: %d < %d", i, a.FirstOut[i], a.FirstOut[i-1])
		}
	}
	for i, h := range a.Head {
		if h >= a.NumNodes {
			return fmt.Errorf("Head[%d]=%d >= NumNodes=%d", i, h, a.NumNodes)
		}
	}
	return nil
}
