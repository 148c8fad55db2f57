package subsample

import (
	"math"

	"github.com/paulmach/orb"
)

// Grid snaps each point to a cell lattice of size level and keeps only
// the first point observed per distinct cell, in input order
// (first-seen-wins, stable). As the cell size approaches zero every
// point gets its own cell and the output approaches the input.
type Grid struct{}

// Name implements Simplifier.
func (Grid) Name() string { return "grid" }

type gridCell struct {
	x, y int64
}

// Simplify implements Simplifier.
func (Grid) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	if level <= 0 {
		return nil, levelErr("grid", level)
	}
	if len(points) < 2 {
		return clonePoints(points), nil
	}

	seen := make(map[gridCell]struct{}, len(points))
	out := make([]orb.Point, 0, len(points))
	for _, p := range points {
		cell := gridCell{
			x: int64(math.Round(p[0] / level)),
			y: int64(math.Round(p[1] / level)),
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
