package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"proximity_components/pkg/cluster"
	"proximity_components/pkg/config"
	"proximity_components/pkg/graph"
	"proximity_components/pkg/pointio"
	"proximity_components/pkg/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	workers    int
	index      string
	threshold  float64
	plotDir    string
	osmTags    []string
	bbox       []float64
	verbose    bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "components [files...]",
		Short: "Print the connected component sizes of 2D proximity graphs",
		Long: `Reads each input file, links every pair of points whose distance does not
exceed the threshold, and prints the component sizes in descending order,
one line per file, e.g. [42, 17, 3, 1].

.pts files hold the threshold on the first line and one "x,y" point per line.
.osm.pbf files contribute node positions (x = lon, y = lat) and need --threshold.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML file with default settings")
	fl.IntVarP(&f.workers, "workers", "w", 0, "goroutines for edge discovery (default from config: NumCPU)")
	fl.StringVar(&f.index, "index", "", "candidate index: grid or rtree (default grid)")
	fl.Float64VarP(&f.threshold, "threshold", "d", 0, "distance threshold; required for .osm.pbf, overrides .pts")
	fl.StringVar(&f.plotDir, "plot", "", "write a PNG scatter plot per input into this directory")
	fl.StringSliceVar(&f.osmTags, "osm-tag", nil, `keep only OSM nodes with this tag ("key" or "key=value"); repeatable`)
	fl.Float64SliceVar(&f.bbox, "bbox", nil, "keep only OSM nodes inside min_lon,min_lat,max_lon,max_lat")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log timings")

	return cmd
}

func run(cmd *cobra.Command, f *flags, args []string) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	fl := cmd.Flags()
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("index") {
		cfg.Index = f.index
	}
	if fl.Changed("threshold") {
		cfg.Threshold = &f.threshold
	}
	if fl.Changed("plot") {
		cfg.PlotDir = f.plotDir
	}
	if fl.Changed("osm-tag") {
		cfg.OSMTags = f.osmTags
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	kind, err := graph.ParseIndexKind(cfg.Index)
	if err != nil {
		return err
	}
	bbox, err := parseBBox(f.bbox)
	if err != nil {
		return err
	}
	if cfg.PlotDir != "" {
		if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
			return fmt.Errorf("create plot dir: %w", err)
		}
	}

	p := &processor{
		out:     cmd.OutOrStdout(),
		engine:  cluster.NewEngine(0, graph.WithWorkers(cfg.Workers), graph.WithIndex(kind)),
		plotDir: cfg.PlotDir,
		verbose: f.verbose,
		load: pointio.LoadOptions{
			Threshold: cfg.Threshold,
			OSM: pointio.OSMOptions{
				BBox:  bbox,
				Tags:  pointio.ParseTagFilters(cfg.OSMTags),
				Procs: cfg.Workers,
			},
		},
	}

	failed := 0
	for _, path := range args {
		if err := p.process(cmd.Context(), path); err != nil {
			log.Printf("%s: %v", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(args))
	}
	return nil
}

func parseBBox(v []float64) (orb.Bound, error) {
	if len(v) == 0 {
		return orb.Bound{}, nil
	}
	if len(v) != 4 {
		return orb.Bound{}, fmt.Errorf("--bbox needs 4 values, got %d", len(v))
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("--bbox min exceeds max: %v", v)
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

type processor struct {
	out     io.Writer
	engine  *cluster.Engine
	load    pointio.LoadOptions
	plotDir string
	verbose bool
}

// process runs one input file and prints its sorted sizes.
func (p *processor) process(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	inst, err := pointio.Load(ctx, path, p.load)
	if err != nil {
		return err
	}
	loaded := time.Since(start)

	wantPlot := p.plotDir != "" && len(inst.Points) > 0
	res, err := p.engine.Cluster(ctx, cluster.Request{
		Points:    inst.Points,
		Threshold: inst.Threshold,
		Members:   wantPlot,
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(p.out, graph.FormatSizes(res.Sizes)); err != nil {
		return err
	}

	if p.verbose {
		log.Printf("%s: %d points, threshold %g, %d edges, %d components (load %s, total %s)",
			path, len(inst.Points), inst.Threshold, res.NumEdges, len(res.Sizes),
			loaded.Round(time.Millisecond), time.Since(start).Round(time.Millisecond))
	}

	if wantPlot {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
		opts := render.DefaultOptions()
		opts.Title = fmt.Sprintf("%s (d=%g)", filepath.Base(path), inst.Threshold)
		if err := render.Components(filepath.Join(p.plotDir, name), inst.Points, res.Components, opts); err != nil {
			return err
		}
	}
	return nil
}
