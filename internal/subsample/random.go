package subsample

import (
	"math/rand/v2"
	"sort"

	"github.com/paulmach/orb"
)

// Random keeps min(K, n) points chosen uniformly without replacement,
// with K = int(level). Chosen indices are re-sorted ascending before
// returning: downstream consumers read the output left to right as a
// line, and an unsorted sample would render as a self-intersecting
// scribble.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a sampler seeded for reproducible selection. The
// sampler is stateful and not safe for concurrent use.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed<<1|1))}
}

// Name implements Simplifier.
func (*Random) Name() string { return "random" }

// Simplify implements Simplifier.
func (r *Random) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	count, err := strideFrom("random", level)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 || count >= len(points) {
		return clonePoints(points), nil
	}

	idx := r.rng.Perm(len(points))[:count]
	sort.Ints(idx)

	out := make([]orb.Point, count)
	for i, j := range idx {
		out[i] = points[j]
	}
	return out, nil
}
