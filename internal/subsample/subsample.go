// Package subsample implements the curve-subsampling engine: seven
// interchangeable algorithms that reduce an ordered point sequence to
// a smaller representative sequence, sharing one Simplifier contract.
//
// The level parameter is overloaded at the configuration boundary; its
// meaning is algorithm-specific (distance tolerance, stride, output
// count, window width, cell size, smoothing fraction, area tolerance)
// and each implementation converts it to its own typed parameter
// before doing any work.
package subsample

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrInvalidLevel reports a subsample level outside an algorithm's
// valid range. Levels are validated before any computation.
var ErrInvalidLevel = errors.New("subsample: invalid level")

// A Simplifier reduces an ordered point sequence. Implementations
// never mutate the input and never reorder retained points: selection
// variants return a subsequence of the input, lowess returns
// repositioned points over the same eastings. Inputs of fewer than two
// points come back unchanged.
type Simplifier interface {
	Name() string
	Simplify(points []orb.Point, level float64) ([]orb.Point, error)
}

// Default returns the full algorithm set in its canonical order. The
// seed drives the one randomized variant; everything else is
// deterministic. The returned set is not safe for concurrent use
// because of the random sampler's source.
func Default(seed uint64) []Simplifier {
	return []Simplifier{
		RDP{},
		Uniform{},
		NewRandom(seed),
		SlidingWindow{},
		Grid{},
		Lowess{},
		VisvalingamWhyatt{},
	}
}

func levelErr(name string, level float64) error {
	return fmt.Errorf("%s: %w: got %v", name, ErrInvalidLevel, level)
}

// strideFrom converts a level to a positive integer parameter (stride,
// count or window width).
func strideFrom(name string, level float64) (int, error) {
	if level <= 0 {
		return 0, levelErr(name, level)
	}
	n := int(level)
	if n < 1 {
		return 0, fmt.Errorf("%s: %w: %v truncates below 1", name, ErrInvalidLevel, level)
	}
	return n, nil
}

// clonePoints copies pts so engine output never aliases caller input.
func clonePoints(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	copy(out, pts)
	return out
}
