package graph

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"proximity_components/pkg/geo"
	"proximity_components/pkg/spatial"
)

// ErrTooLarge is returned when the point set or the edge count does not fit
// in 32-bit vertex and edge indices.
var ErrTooLarge = errors.New("graph exceeds 32-bit index range")

// IndexKind selects the spatial index used for candidate search.
type IndexKind string

const (
	IndexGrid  IndexKind = "grid"
	IndexRTree IndexKind = "rtree"
)

// ParseIndexKind validates an index name.
func ParseIndexKind(s string) (IndexKind, error) {
	switch k := IndexKind(s); k {
	case IndexGrid, IndexRTree:
		return k, nil
	case "":
		return IndexGrid, nil
	}
	return "", fmt.Errorf("unknown index %q (want %q or %q)", s, IndexGrid, IndexRTree)
}

// defaultChunkSize is the number of points one discovery task handles.
const defaultChunkSize = 1024

type buildOptions struct {
	workers   int
	index     IndexKind
	chunkSize int
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithWorkers sets how many goroutines discover edges. n <= 1 runs in the
// calling goroutine.
func WithWorkers(n int) BuildOption {
	return func(o *buildOptions) { o.workers = n }
}

// WithIndex selects the candidate index. The default is IndexGrid.
func WithIndex(kind IndexKind) BuildOption {
	return func(o *buildOptions) { o.index = kind }
}

// withChunkSize overrides the per-task point count (tests).
func withChunkSize(n int) BuildOption {
	return func(o *buildOptions) { o.chunkSize = n }
}

// Build returns the proximity graph of points: u and v are adjacent iff
// u != v and their distance is at most threshold. A threshold <= 0 connects
// only coincident points.
//
// Build panics with ErrTooLarge if the graph cannot be indexed with uint32,
// which takes more than 2^32-1 adjacency entries. Use BuildContext to get
// that condition as an error instead.
func Build(points []geo.Point, threshold float64, opts ...BuildOption) *Adjacency {
	adj, err := BuildContext(context.Background(), points, threshold, opts...)
	if err != nil {
		panic(err)
	}
	return adj
}

// BuildContext is Build with cancellation, checked between chunks of points.
// It never panics: an oversized graph is reported as ErrTooLarge.
func BuildContext(ctx context.Context, points []geo.Point, threshold float64, opts ...BuildOption) (*Adjacency, error) {
	o := buildOptions{workers: 1, index: IndexGrid, chunkSize: defaultChunkSize}
	for _, fn := range opts {
		fn(&o)
	}
	if o.chunkSize <= 0 {
		o.chunkSize = defaultChunkSize
	}

	n := len(points)
	if n == 0 {
		return &Adjacency{}, nil
	}
	if uint64(n) >= math.MaxUint32 {
		return nil, fmt.Errorf("%d points: %w", n, ErrTooLarge)
	}

	idx := newIndex(o.index, points, threshold)

	// Each point's list is written by exactly one task; the index is read-only.
	lists := make([][]uint32, n)
	discover := func(lo, hi int) {
		var cands []uint32
		for u := lo; u < hi; u++ {
			p := points[u]
			cands = idx.Candidates(p, cands[:0])
			var nbrs []uint32
			for _, v := range cands {
				if int(v) == u {
					continue
				}
				if geo.Within(p, points[v], threshold) {
					nbrs = append(nbrs, v)
				}
			}
			lists[u] = nbrs
		}
	}

	if o.workers <= 1 {
		for lo := 0; lo < n; lo += o.chunkSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			discover(lo, min(lo+o.chunkSize, n))
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for lo := 0; lo < n; lo += o.chunkSize {
			hi := min(lo+o.chunkSize, n)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				discover(lo, hi)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return assemble(lists, math.MaxUint32)
}

func newIndex(kind IndexKind, points []geo.Point, threshold float64) spatial.Index {
	if kind == IndexRTree {
		return spatial.NewRTree(points, threshold)
	}
	return spatial.NewGrid(points, threshold)
}

// assemble flattens per-vertex lists into CSR arrays holding at most
// maxEntries adjacency entries.
func assemble(lists [][]uint32, maxEntries uint64) (*Adjacency, error) {
	numNodes := uint32(len(lists))
	firstOut := make([]uint32, numNodes+1)

	// Prefix sum over list lengths.
	var total uint64
	for u, l := range lists {
		total += uint64(len(l))
		if total > maxEntries {
			return nil, fmt.Errorf("more than %d adjacency entries: %w", maxEntries, ErrTooLarge)
		}
		firstOut[u+1] = uint32(total)
	}

	head := make([]uint32, 0, total)
	for _, l := range lists {
		head = append(head, l...)
	}

	return &Adjacency{
		NumNodes: numNodes,
		FirstOut: firstOut,
		Head:     head,
	}, nil
}
