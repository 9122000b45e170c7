package pointio

import (
	"context"
	"errors"
	"strings"
)

// ErrNoThreshold is returned when a PBF input is loaded without a threshold.
var ErrNoThreshold = errors.New("threshold required for OSM input")

// LoadOptions configures Load.
type LoadOptions struct {
	// Threshold overrides the threshold line of .pts files and supplies the
	// threshold for .osm.pbf files. Nil keeps the file's own value.
	Threshold *float64
	OSM       OSMOptions
}

// IsOSM reports whether path names an OSM PBF file.
func IsOSM(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pbf")
}

// Load reads an instance from path, choosing the format by extension.
func Load(ctx context.Context, path string, opts LoadOptions) (*Instance, error) {
	if IsOSM(path) {
		if opts.Threshold == nil {
			return nil, ErrNoThreshold
		}
		return LoadOSM(ctx, path, *opts.Threshold, opts.OSM)
	}

	inst, err := LoadPTS(path)
	if err != nil {
		return nil, err
	}
	if opts.Threshold != nil {
		inst.Threshold = *opts.Threshold
	}
	return inst, nil
}

// ParseTagFilters parses "key" or "key=value" expressions.
func ParseTagFilters(exprs []string) []TagFilter {
	filters := make([]TagFilter, 0, len(exprs))
	for _, e := range exprs {
		k, v, _ := strings.Cut(e, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		filters = append(filters, TagFilter{Key: k, Value: strings.TrimSpace(v)})
	}
	return filters
}
