package pointio

import (
	"context"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

func TestAcceptNode(t *testing.T) {
	singapore := orb.Bound{Min: orb.Point{103.6, 1.15}, Max: orb.Point{104.1, 1.48}}

	tests := []struct {
		name string
		node osm.Node
		opt  OSMOptions
		want bool
	}{
		{
			name: "no filters",
			node: osm.Node{Lat: 51.5, Lon: -0.12},
			want: true,
		},
		{
			name: "inside bbox",
			node: osm.Node{Lat: 1.35, Lon: 103.82},
			opt:  OSMOptions{BBox: singapore},
			want: true,
		},
		{
			name: "outside bbox",
			node: osm.Node{Lat: 3.1, Lon: 101.7},
			opt:  OSMOptions{BBox: singapore},
			want: false,
		},
		{
			name: "tag key matches any value",
			node: osm.Node{Tags: osm.Tags{{Key: "amenity", Value: "cafe"}}},
			opt:  OSMOptions{Tags: []TagFilter{{Key: "amenity"}}},
			want: true,
		},
		{
			name: "tag value mismatch",
			node: osm.Node{Tags: osm.Tags{{Key: "amenity", Value: "cafe"}}},
			opt:  OSMOptions{Tags: []TagFilter{{Key: "amenity", Value: "bench"}}},
			want: false,
		},
		{
			name: "second filter matches",
			node: osm.Node{Tags: osm.Tags{{Key: "shop", Value: "bakery"}}},
			opt:  OSMOptions{Tags: []TagFilter{{Key: "amenity"}, {Key: "shop", Value: "bakery"}}},
			want: true,
		},
		{
			name: "untagged node with tag filter",
			node: osm.Node{},
			opt:  OSMOptions{Tags: []TagFilter{{Key: "amenity"}}},
			want: false,
		},
		{
			name: "bbox and tag both required",
			node: osm.Node{Lat: 3.1, Lon: 101.7, Tags: osm.Tags{{Key: "amenity", Value: "cafe"}}},
			opt:  OSMOptions{BBox: singapore, Tags: []TagFilter{{Key: "amenity"}}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acceptNode(&tt.node, tt.opt); got != tt.want {
				t.Errorf("acceptNode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTagFilters(t *testing.T) {
	got := ParseTagFilters([]string{"amenity", "shop=bakery", " highway = bus_stop ", ""})
	want := []TagFilter{
		{Key: "amenity"},
		{Key: "shop", Value: "bakery"},
		{Key: "highway", Value: "bus_stop"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d filters, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filter %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadOSMNodesInvalidData(t *testing.T) {
	_, err := ReadOSMNodes(context.Background(), strings.NewReader("definitely not a pbf"), OSMOptions{})
	if err == nil {
		t.Fatal("expected error for non-PBF input")
	}
}
