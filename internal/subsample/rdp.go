package subsample

import "github.com/paulmach/orb"

// RDP implements Ramer–Douglas–Peucker line simplification. The level
// is the perpendicular distance tolerance in projection units; points
// deviating less than the tolerance from the chord between the kept
// neighbours are discarded. Endpoints are always kept. A zero
// tolerance keeps every point that deviates at all, so rdp at level 0
// is the identity on noisy data.
type RDP struct{}

// Name implements Simplifier.
func (RDP) Name() string { return "rdp" }

// Simplify implements Simplifier.
func (RDP) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	if level < 0 {
		return nil, levelErr("rdp", level)
	}
	if len(points) < 3 {
		return clonePoints(points), nil
	}

	mask := make([]byte, len(points))
	mask[0] = 1
	mask[len(mask)-1] = 1
	kept := 2

	// Explicit segment stack instead of recursion; materially faster
	// on long paths and immune to deep-recursion stack growth.
	stack := []int{0, len(points) - 1}
	for len(stack) > 0 {
		start := stack[len(stack)-2]
		end := stack[len(stack)-1]

		maxDist := 0.0
		maxIndex := 0
		for i := start + 1; i < end; i++ {
			if d := segmentDistSquared(points[start], points[end], points[i]); d > maxDist {
				maxDist = d
				maxIndex = i
			}
		}

		if maxDist > level*level {
			mask[maxIndex] = 1
			kept++
			stack[len(stack)-1] = maxIndex
			stack = append(stack, maxIndex, end)
		} else {
			stack = stack[:len(stack)-2]
		}
	}

	out := make([]orb.Point, 0, kept)
	for i, keep := range mask {
		if keep == 1 {
			out = append(out, points[i])
		}
	}
	return out, nil
}

// segmentDistSquared returns p's squared distance from the segment
// [a, b], falling back to point distance when the segment degenerates.
func segmentDistSquared(a, b, p orb.Point) float64 {
	x := a[0]
	y := a[1]
	dx := b[0] - x
	dy := b[1] - y

	if dx != 0 || dy != 0 {
		t := ((p[0]-x)*dx + (p[1]-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x = b[0]
			y = b[1]
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx = p[0] - x
	dy = p[1] - y
	return dx*dx + dy*dy
}
