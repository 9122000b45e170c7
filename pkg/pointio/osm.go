package pointio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"proximity_components/pkg/geo"
)

// TagFilter matches nodes carrying Key. An empty Value matches any value.
type TagFilter struct {
	Key   string
	Value string
}

// OSMOptions configures ReadOSMNodes.
type OSMOptions struct {
	// BBox keeps only nodes inside the box. The zero Bound disables the filter.
	BBox orb.Bound
	// Tags keeps only nodes matching at least one filter. Empty keeps all.
	Tags []TagFilter
	// Procs is the number of PBF decoder goroutines (default 1).
	Procs int
}

// OSMNodes holds node positions as planar points (X = lon, Y = lat) and the
// OSM id of each point, index-aligned.
type OSMNodes struct {
	Points []geo.Point
	IDs    []osm.NodeID
}

// acceptNode reports whether n passes the bbox and tag filters.
func acceptNode(n *osm.Node, opt OSMOptions) bool {
	if opt.BBox != (orb.Bound{}) && !opt.BBox.Contains(n.Point()) {
		return false
	}
	if len(opt.Tags) == 0 {
		return true
	}
	for _, f := range opt.Tags {
		if !n.Tags.HasTag(f.Key) {
			continue
		}
		if f.Value == "" || n.Tags.Find(f.Key) == f.Value {
			return true
		}
	}
	return false
}

// ReadOSMNodes scans an OSM PBF stream and returns the positions of the nodes
// that pass the filters. Ways and relations are skipped.
func ReadOSMNodes(ctx context.Context, r io.Reader, opt OSMOptions) (*OSMNodes, error) {
	procs := opt.Procs
	if procs <= 0 {
		procs = 1
	}

	scanner := osmpbf.New(ctx, r, procs)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	out := &OSMNodes{}
	var scanned, filtered int

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		scanned++

		if !acceptNode(n, opt) {
			filtered++
			continue
		}

		out.Points = append(out.Points, geo.Point{X: n.Lon, Y: n.Lat})
		out.IDs = append(out.IDs, n.ID)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes: %w", err)
	}

	log.Printf("OSM scan complete: %d nodes scanned, %d kept, %d filtered", scanned, len(out.Points), filtered)

	return out, nil
}

// LoadOSM reads node positions from a .osm.pbf file and pairs them with
// threshold, which PBF files do not carry.
func LoadOSM(ctx context.Context, path string, threshold float64, opt OSMOptions) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	nodes, err := ReadOSMNodes(ctx, f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Instance{Threshold: threshold, Points: nodes.Points}, nil
}
