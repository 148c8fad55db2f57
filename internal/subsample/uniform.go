package subsample

import "github.com/paulmach/orb"

// Uniform keeps every Nth point starting from index 0, with
// N = int(level). Stride 1 is the identity.
type Uniform struct{}

// Name implements Simplifier.
func (Uniform) Name() string { return "uniform" }

// Simplify implements Simplifier.
func (Uniform) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	step, err := strideFrom("uniform", level)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return clonePoints(points), nil
	}

	out := make([]orb.Point, 0, (len(points)+step-1)/step)
	for i := 0; i < len(points); i += step {
		out = append(out, points[i])
	}
	return out, nil
}

// SlidingWindow partitions the sequence into consecutive windows of
// width W = int(level) and keeps the point at each window's middle
// index. The last window may be shorter; output length is ceil(n/W).
type SlidingWindow struct{}

// Name implements Simplifier.
func (SlidingWindow) Name() string { return "sliding_window" }

// Simplify implements Simplifier.
func (SlidingWindow) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	width, err := strideFrom("sliding_window", level)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return clonePoints(points), nil
	}

	out := make([]orb.Point, 0, (len(points)+width-1)/width)
	for i := 0; i < len(points); i += width {
		end := i + width
		if end > len(points) {
			end = len(points)
		}
		out = append(out, points[i+(end-i)/2])
	}
	return out, nil
}
