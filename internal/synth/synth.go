// Package synth generates synthetic flight paths: a fixed waveform
// over a polar-stereographic extent with configurable noise, standing
// in for real survey trajectories when benchmarking subsampling.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/icetrails/pathbench/internal/track"
)

// Noise strategy names accepted by New.
const (
	NoiseGaussian = "gaussian" // additive N(0, gaussianSigma)
	NoiseUniform  = "uniform"  // multiplicative, uniform in ±uniformBand
	NoiseNone     = "none"     // pure waveform, used by tests and plots
)

const (
	eastingMin = -3_000_000.0
	eastingMax = 3_000_000.0

	// Primary wave matches the extent; the secondary harmonic adds
	// structure at a scale the simplifiers can actually discard.
	primaryAmplitude   = 3_000_000.0
	primaryPeriod      = 100_000.0
	secondaryAmplitude = 200_000.0
	secondaryPeriod    = 23_000.0

	gaussianSigma = 100_000.0
	uniformBand   = 0.05

	// phaseShift decorrelates paths generated in one batch.
	phaseShift = math.Pi / 7
)

// Generator produces deterministic noisy flight paths. A generator is
// a pure function of its seed and arguments; reuse from multiple
// goroutines is not safe because of the shared noise source.
type Generator struct {
	mode  string
	gauss distuv.Normal
	band  distuv.Uniform
}

// New returns a generator using the named noise strategy. The seed
// fixes the noise stream so runs are reproducible.
func New(mode string, seed uint64) (*Generator, error) {
	switch mode {
	case NoiseGaussian, NoiseUniform, NoiseNone:
	default:
		return nil, fmt.Errorf("synth: unknown noise mode %q", mode)
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Generator{
		mode:  mode,
		gauss: distuv.Normal{Mu: 0, Sigma: gaussianSigma, Src: src},
		band:  distuv.Uniform{Min: 1 - uniformBand, Max: 1 + uniformBand, Src: src},
	}, nil
}

// Generate returns a path of exactly count points sampled at evenly
// spaced eastings. pathIndex selects the wave phase and the metadata
// identifiers for the path.
func (g *Generator) Generate(count, pathIndex int) (track.Trajectory, error) {
	if count <= 0 {
		return track.Trajectory{}, fmt.Errorf("synth: point count must be > 0, got %d", count)
	}

	phase := float64(pathIndex) * phaseShift
	pts := make([]orb.Point, count)
	for i := range pts {
		frac := 0.0
		if count > 1 {
			frac = float64(i) / float64(count-1)
		}
		x := eastingMin + frac*(eastingMax-eastingMin)
		y := waveform(x, phase)
		switch g.mode {
		case NoiseGaussian:
			y += g.gauss.Rand()
		case NoiseUniform:
			y *= g.band.Rand()
		}
		pts[i] = orb.Point{x, y}
	}

	return track.Trajectory{Meta: metaFor(pathIndex), Points: pts}, nil
}

// waveform is the deterministic northing for an easting: a sum of two
// sinusoids at fixed frequencies and amplitudes.
func waveform(x, phase float64) float64 {
	return math.Sin(x/primaryPeriod+phase)*primaryAmplitude +
		math.Sin(x/secondaryPeriod+phase)*secondaryAmplitude
}

func metaFor(pathIndex int) track.Meta {
	n := pathIndex + 1
	campaign := fmt.Sprintf("2023_Synthetic_Campaign_%d", n)
	granule := fmt.Sprintf("Data_20230101_%02d_001", n)
	return track.Meta{
		Institution:  "SYNTHETIC",
		Region:       "antarctic",
		Campaign:     campaign,
		Segment:      fmt.Sprintf("20230101_%02d", n),
		Granule:      granule,
		Availability: "s",
		Name:         "SYNTHETIC_" + campaign + "_" + granule,
	}
}
