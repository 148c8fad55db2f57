package subsample

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"
)

// Lowess replaces each northing with a locally weighted linear fit of
// northing against easting. The level maps to a smoothing fraction
// clamp(level/1000, 0.01, 0.99) of the sequence length. This is the
// one variant that relocates points instead of selecting a subset, so
// output length always equals input length.
type Lowess struct{}

// Name implements Simplifier.
func (Lowess) Name() string { return "lowess" }

// Simplify implements Simplifier.
func (Lowess) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	if level <= 0 {
		return nil, levelErr("lowess", level)
	}
	n := len(points)
	if n < 3 {
		return clonePoints(points), nil
	}

	frac := level / 1000.0
	if frac < 0.01 {
		frac = 0.01
	}
	if frac > 0.99 {
		frac = 0.99
	}
	span := int(math.Round(frac * float64(n)))
	if span < 3 {
		span = 3
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i] = p[0]
		ys[i] = p[1]
	}

	out := make([]orb.Point, n)
	weights := make([]float64, span)
	for i := 0; i < n; i++ {
		lo := i - span/2
		if lo < 0 {
			lo = 0
		}
		hi := lo + span
		if hi > n {
			hi = n
			lo = hi - span
		}

		// Tricube weights over easting distance within the window.
		dmax := math.Max(math.Abs(xs[i]-xs[lo]), math.Abs(xs[hi-1]-xs[i]))
		w := weights[:hi-lo]
		for j := range w {
			if dmax == 0 {
				w[j] = 1
				continue
			}
			d := math.Abs(xs[lo+j]-xs[i]) / dmax
			if d >= 1 {
				// Keep a nonzero floor so the boundary point still
				// contributes and tiny windows stay solvable.
				w[j] = 1e-9
				continue
			}
			c := 1 - d*d*d
			w[j] = c * c * c
		}

		alpha, beta := stat.LinearRegression(xs[lo:hi], ys[lo:hi], w, false)
		y := alpha + beta*xs[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			y = ys[i]
		}
		out[i] = orb.Point{xs[i], y}
	}
	return out, nil
}
