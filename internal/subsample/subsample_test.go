package subsample

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sinePath is a noise-free sine curve, the shared fixture for
// algorithm behaviour tests.
func sinePath(n int) []orb.Point {
	pts := make([]orb.Point, n)
	for i := range pts {
		x := float64(i) * 100
		pts[i] = orb.Point{x, math.Sin(x/500) * 1000}
	}
	return pts
}

func TestAllAlgorithms_SharedContract(t *testing.T) {
	t.Parallel()

	for _, s := range Default(1) {
		t.Run(s.Name(), func(t *testing.T) {
			input := sinePath(100)
			before := make([]orb.Point, len(input))
			copy(before, input)

			out, err := s.Simplify(input, 10)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			assert.Equal(t, before, input, "input must not be mutated")

			if s.Name() == "lowess" {
				assert.Len(t, out, len(input), "lowess repositions, never drops")
			} else {
				assert.LessOrEqual(t, len(out), len(input))
			}
		})
	}
}

func TestAllAlgorithms_TrivialInputsUnchanged(t *testing.T) {
	t.Parallel()

	empty := []orb.Point{}
	single := []orb.Point{{1, 2}}
	for _, s := range Default(1) {
		t.Run(s.Name(), func(t *testing.T) {
			out, err := s.Simplify(empty, 10)
			require.NoError(t, err)
			assert.Empty(t, out)

			out, err = s.Simplify(single, 10)
			require.NoError(t, err)
			assert.Equal(t, single, out)
		})
	}
}

func TestAllAlgorithms_RejectNonPositiveLevel(t *testing.T) {
	t.Parallel()

	input := sinePath(20)
	for _, s := range Default(1) {
		t.Run(s.Name(), func(t *testing.T) {
			for _, level := range []float64{0, -1} {
				// rdp accepts a zero tolerance (identity by
				// construction); every other variant rejects it.
				if s.Name() == "rdp" && level == 0 {
					continue
				}
				_, err := s.Simplify(input, level)
				require.Error(t, err, "level %v", level)
				assert.ErrorIs(t, err, ErrInvalidLevel)
			}
		})
	}
}

func TestAllAlgorithms_EndpointBehaviourOnSine(t *testing.T) {
	t.Parallel()

	input := sinePath(100)
	first, last := input[0], input[len(input)-1]

	for _, s := range Default(1) {
		out, err := s.Simplify(input, 10)
		require.NoError(t, err, s.Name())
		require.NotEmpty(t, out, s.Name())

		switch s.Name() {
		case "rdp":
			assert.Equal(t, first, out[0], "rdp keeps the first point")
			assert.Equal(t, last, out[len(out)-1], "rdp keeps the last point")
		case "uniform", "grid":
			assert.Equal(t, first, out[0], "%s starts at the first point", s.Name())
		}
	}
}

func TestRDP_ZeroEpsilonIsIdentity(t *testing.T) {
	t.Parallel()

	input := sinePath(50)
	out, err := RDP{}.Simplify(input, 0)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestRDP_MonotonicInEpsilon(t *testing.T) {
	t.Parallel()

	input := sinePath(200)
	prevLen := len(input) + 1
	for _, eps := range []float64{0, 1, 10, 100, 1000} {
		out, err := RDP{}.Simplify(input, eps)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(out), prevLen, "epsilon %v", eps)
		prevLen = len(out)
	}
}

func TestRDP_NegativeEpsilonRejected(t *testing.T) {
	t.Parallel()

	_, err := RDP{}.Simplify(sinePath(10), -1)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestUniform_StrideOneIsIdentity(t *testing.T) {
	t.Parallel()

	input := sinePath(30)
	out, err := Uniform{}.Simplify(input, 1)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestUniform_KeepsEveryNth(t *testing.T) {
	t.Parallel()

	input := sinePath(10)
	out, err := Uniform{}.Simplify(input, 3)
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{input[0], input[3], input[6], input[9]}, out)
}

func TestSlidingWindow_OutputLength(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		n, w, want int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{9, 10, 1},
		{10, 3, 4},
	} {
		out, err := SlidingWindow{}.Simplify(sinePath(tc.n), float64(tc.w))
		require.NoError(t, err)
		assert.Len(t, out, tc.want, "n=%d w=%d", tc.n, tc.w)
	}
}

func TestSlidingWindow_KeepsMiddleOfWindow(t *testing.T) {
	t.Parallel()

	input := sinePath(10)
	out, err := SlidingWindow{}.Simplify(input, 4)
	require.NoError(t, err)
	// Windows [0..3] [4..7] [8..9]: middles 2, 6, 9.
	assert.Equal(t, []orb.Point{input[2], input[6], input[9]}, out)
}

func TestRandom_SortedByOriginalIndex(t *testing.T) {
	t.Parallel()

	input := sinePath(200) // strictly increasing eastings
	out, err := NewRandom(7).Simplify(input, 50)
	require.NoError(t, err)
	require.Len(t, out, 50)

	for i := 1; i < len(out); i++ {
		assert.Greater(t, out[i][0], out[i-1][0], "retained points must stay in input order")
	}
}

func TestRandom_DeterministicPerSeed(t *testing.T) {
	t.Parallel()

	input := sinePath(100)
	a, err := NewRandom(3).Simplify(input, 20)
	require.NoError(t, err)
	b, err := NewRandom(3).Simplify(input, 20)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRandom_CountClampedToLength(t *testing.T) {
	t.Parallel()

	input := sinePath(10)
	out, err := NewRandom(1).Simplify(input, 500)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestGrid_TinyCellApproachesIdentity(t *testing.T) {
	t.Parallel()

	input := sinePath(50)
	out, err := Grid{}.Simplify(input, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestGrid_FirstSeenWins(t *testing.T) {
	t.Parallel()

	input := []orb.Point{{0, 0}, {1, 1}, {0.2, 0.1}, {50, 50}}
	out, err := Grid{}.Simplify(input, 10)
	require.NoError(t, err)
	// {1,1} and {0.2,0.1} land in the cell {0,0} already claimed.
	assert.Equal(t, []orb.Point{{0, 0}, {50, 50}}, out)
}
