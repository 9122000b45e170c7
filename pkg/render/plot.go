package render

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"proximity_components/pkg/geo"
)

// Options controls component plots.
type Options struct {
	Title string
	// MaxColored is how many of the largest components get their own color
	// and legend entry. Smaller components and singletons are drawn gray.
	MaxColored int
	Size       vg.Length
}

// DefaultOptions returns the settings the CLI uses.
func DefaultOptions() Options {
	return Options{MaxColored: 10, Size: 8 * vg.Inch}
}

var restColor = color.Gray{Y: 170}

// Components draws a scatter plot of points colored by component and saves it
// to path. The image format follows the file extension (.png, .svg, .pdf).
func Components(path string, points []geo.Point, components [][]uint32, opts Options) error {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Legend.Top = true

	// Largest first; ties keep discovery order.
	order := slices.Clone(components)
	slices.SortStableFunc(order, func(a, b []uint32) int {
		return cmp.Compare(len(b), len(a))
	})

	var rest plotter.XYs
	var colored []*plotter.Scatter
	for i, members := range order {
		xys := toXYs(points, members)
		if i >= opts.MaxColored || len(members) < 2 {
			rest = append(rest, xys...)
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(2)
		colored = append(colored, s)
		p.Legend.Add(fmt.Sprintf("#%d (%d)", i+1, len(members)), s)
	}

	// Gray points go underneath the colored components.
	if len(rest) > 0 {
		s, err := plotter.NewScatter(rest)
		if err != nil {
			return fmt.Errorf("small components: %w", err)
		}
		s.GlyphStyle.Color = restColor
		s.GlyphStyle.Radius = vg.Points(1)
		p.Add(s)
	}
	for _, s := range colored {
		p.Add(s)
	}
	if b, ok := geo.Bounds(points); ok {
		padX, padY := pad(b.Max.X-b.Min.X), pad(b.Max.Y-b.Min.Y)
		p.X.Min, p.X.Max = b.Min.X-padX, b.Max.X+padX
		p.Y.Min, p.Y.Max = b.Min.Y-padY, b.Max.Y+padY
	}

	if err := p.Save(opts.Size, opts.Size, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// pad keeps glyphs on the edge of the cloud inside the canvas and gives a
// zero-width axis a visible range.
func pad(span float64) float64 {
	if span == 0 {
		return 1
	}
	return span * 0.05
}

func toXYs(points []geo.Point, members []uint32) plotter.XYs {
	xys := make(plotter.XYs, len(members))
	for i, v := range members {
		xys[i] = plotter.XY{X: points[v].X, Y: points[v].Y}
	}
	return xys
}
