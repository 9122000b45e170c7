package cluster

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"proximity_components/pkg/geo"
	"proximity_components/pkg/graph"
)

// ErrTooManyPoints is returned when a request exceeds the engine's point limit.
var ErrTooManyPoints = errors.New("too many points")

// Request is one clustering job.
type Request struct {
	Points    []geo.Point
	Threshold float64
	// Members asks for the vertex ids of every component, not only sizes.
	Members bool
}

// Result holds component sizes in descending order. When members were
// requested, Components[i] lists the ids of the component of size Sizes[i].
type Result struct {
	Sizes      []int
	Components [][]uint32
	NumEdges   int
}

// Clusterer is the interface for component queries.
type Clusterer interface {
	Cluster(ctx context.Context, req Request) (*Result, error)
}

// Engine implements Clusterer on top of graph.BuildContext.
type Engine struct {
	maxPoints int
	opts      []graph.BuildOption
}

// NewEngine creates an engine. maxPoints <= 0 means no limit.
func NewEngine(maxPoints int, opts ...graph.BuildOption) *Engine {
	return &Engine{maxPoints: maxPoints, opts: opts}
}

// Cluster builds the proximity graph of req.Points and partitions it.
func (e *Engine) Cluster(ctx context.Context, req Request) (*Result, error) {
	if e.maxPoints > 0 && len(req.Points) > e.maxPoints {
		return nil, fmt.Errorf("%d points, limit %d: %w", len(req.Points), e.maxPoints, ErrTooManyPoints)
	}

	adj, err := graph.BuildContext(ctx, req.Points, req.Threshold, e.opts...)
	if err != nil {
		return nil, err
	}

	res := &Result{NumEdges: adj.NumEdges() / 2}
	if !req.Members {
		res.Sizes = graph.SortedSizes(graph.ComponentSizes(adj))
		return res, nil
	}

	comps := slices.Collect(graph.Components(adj))
	slices.SortStableFunc(comps, func(a, b []uint32) int {
		return cmp.Compare(len(b), len(a))
	})
	res.Components = comps
	res.Sizes = make([]int, len(comps))
	for i, c := range comps {
		res.Sizes[i] = len(c)
	}
	return res, nil
}
