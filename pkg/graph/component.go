package graph

import "iter"

// pendingSet holds the vertices not yet assigned to a component, as a sparse
// set: dense[:len] are the members and pos[v] is v's slot in dense. Membership
// test, removal, and picking a member are all O(1).
type pendingSet struct {
	dense []uint32
	pos   []uint32
}

func newPendingSet(n uint32) *pendingSet {
	dense := make([]uint32, n)
	pos := make([]uint32, n)
	for i := range n {
		dense[i] = i
		pos[i] = i
	}
	return &pendingSet{dense: dense, pos: pos}
}

func (s *pendingSet) Len() int { return len(s.dense) }

func (s *pendingSet) Contains(v uint32) bool {
	i := s.pos[v]
	return int(i) < len(s.dense) && s.dense[i] == v
}

// Remove deletes v and reports whether it was pending. The last member moves
// into v's slot.
func (s *pendingSet) Remove(v uint32) bool {
	if !s.Contains(v) {
		return false
	}
	i := s.pos[v]
	last := s.dense[len(s.dense)-1]
	s.dense[i] = last
	s.pos[last] = i
	s.dense = s.dense[:len(s.dense)-1]
	return true
}

// Any returns an arbitrary pending vertex. The set must be non-empty.
func (s *pendingSet) Any() uint32 {
	return s.dense[len(s.dense)-1]
}

// carve removes seed's component from pending with an explicit-stack DFS and
// calls visit once per member. A vertex is visited only at the moment it
// leaves pending, so duplicate or self entries in the adjacency are harmless.
// The stack is returned for reuse.
func carve(adj *Adjacency, pending *pendingSet, seed uint32, stack []uint32, visit func(uint32)) []uint32 {
	pending.Remove(seed)
	visit(seed)
	stack = append(stack[:0], seed)

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range adj.Neighbors(u) {
			if pending.Remove(v) {
				visit(v)
				stack = append(stack, v)
			}
		}
	}
	return stack
}

// ComponentSizes returns a lazy sequence of connected component sizes in
// discovery order. Every size is positive and the sizes sum to adj.NumNodes.
//
// The sequence consumes its pending set: it can be ranged over once, and
// a second pass yields nothing. Breaking out early leaves the remaining
// vertices pending for the next pass.
func ComponentSizes(adj *Adjacency) iter.Seq[int] {
	pending := newPendingSet(adj.NumNodes)
	return func(yield func(int) bool) {
		var stack []uint32
		for pending.Len() > 0 {
			size := 0
			stack = carve(adj, pending, pending.Any(), stack, func(uint32) { size++ })
			if !yield(size) {
				return
			}
		}
	}
}

// Components is like ComponentSizes but yields the member vertex ids of each
// component. Each yielded slice is freshly allocated.
func Components(adj *Adjacency) iter.Seq[[]uint32] {
	pending := newPendingSet(adj.NumNodes)
	return func(yield func([]uint32) bool) {
		var stack []uint32
		for pending.Len() > 0 {
			var members []uint32
			stack = carve(adj, pending, pending.Any(), stack, func(v uint32) {
				members = append(members, v)
			})
			if !yield(members) {
				return
			}
		}
	}
}

// Labels assigns each vertex the index of its component in discovery order.
func Labels(adj *Adjacency) (labels []int, numComponents int) {
	labels = make([]int, adj.NumNodes)
	for members := range Components(adj) {
		for _, v := range members {
			labels[v] = numComponents
		}
		numComponents++
	}
	return labels, numComponents
}
