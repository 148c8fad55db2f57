// Command path-plot renders a synthetic flight path and one
// algorithm's simplification of it to a PNG, for eyeballing how much
// shape survives a given level.
package main

import (
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/paulmach/orb"

	"github.com/icetrails/pathbench/internal/subsample"
	"github.com/icetrails/pathbench/internal/synth"
)

func main() {
	points := flag.Int("points", 2000, "points in the synthetic path")
	level := flag.Float64("level", 100, "subsample level")
	algo := flag.String("algo", "rdp", "algorithm name (rdp, uniform, random, sliding_window, grid, lowess, vw)")
	noise := flag.String("noise", synth.NoiseGaussian, "noise mode: gaussian, uniform or none")
	seed := flag.Uint64("seed", 42, "rng seed")
	output := flag.String("o", "path.png", "output PNG path")
	flag.Parse()

	var simplifier subsample.Simplifier
	for _, s := range subsample.Default(*seed) {
		if s.Name() == *algo {
			simplifier = s
			break
		}
	}
	if simplifier == nil {
		log.Fatalf("unknown algorithm %q", *algo)
	}

	gen, err := synth.New(*noise, *seed)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}
	traj, err := gen.Generate(*points, 0)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	simplified, err := simplifier.Simplify(traj.Points, *level)
	if err != nil {
		log.Fatalf("simplify: %v", err)
	}
	log.Printf("%s at level %g: %d -> %d points", *algo, *level, len(traj.Points), len(simplified))

	p := plot.New()
	p.Title.Text = "pathbench: " + *algo
	p.X.Label.Text = "easting (m)"
	p.Y.Label.Text = "northing (m)"

	original, err := plotter.NewLine(toXYs(traj.Points))
	if err != nil {
		log.Fatalf("plot original: %v", err)
	}
	original.Width = vg.Points(1)
	original.Color = color.RGBA{R: 160, G: 160, B: 160, A: 255}

	reduced, err := plotter.NewLine(toXYs(simplified))
	if err != nil {
		log.Fatalf("plot simplified: %v", err)
	}
	reduced.Width = vg.Points(1)
	reduced.Color = color.RGBA{R: 220, G: 60, B: 40, A: 255}

	p.Add(original, reduced)
	p.Legend.Add("original", original)
	p.Legend.Add(*algo, reduced)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *output); err != nil {
		log.Fatalf("save %s: %v", *output, err)
	}
	log.Printf("plot written to %s", *output)
}

func toXYs(pts []orb.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i].X = p[0]
		xys[i].Y = p[1]
	}
	return xys
}
