package graph

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"proximity_components/pkg/geo"
)

// SortedSizes drains sizes and returns them in descending order.
func SortedSizes(sizes iter.Seq[int]) []int {
	out := slices.Collect(sizes)
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

// FormatSizes renders sizes as a bracketed, comma-separated list,
// e.g. "[42, 17, 3, 1]". An empty list renders as "[]".
func FormatSizes(sizes []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, s := range sizes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(s))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Run builds the proximity graph of points and returns its component sizes
// sorted in descending order.
func Run(points []geo.Point, threshold float64, opts ...BuildOption) []int {
	return SortedSizes(ComponentSizes(Build(points, threshold, opts...)))
}
