// Package layers builds per-algorithm geometry collections from one
// trajectory over an ordered set of zoom levels.
package layers

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/icetrails/pathbench/internal/monitoring"
	"github.com/icetrails/pathbench/internal/subsample"
	"github.com/icetrails/pathbench/internal/track"
)

// FullResolutionMethod names the untouched baseline collection that
// accompanies every aggregation pass.
const FullResolutionMethod = "full"

// Entry is one geometry of a collection, tagged with the level that
// produced it. The full-resolution baseline uses level 0.
type Entry struct {
	Level    float64
	Geometry orb.Geometry
}

// Collection groups the geometries one algorithm produced for one
// trajectory, tagged with the trajectory's coordinate reference
// system. Entries appear in the caller-supplied level order. A
// collection is immutable once handed to a writer.
type Collection struct {
	Method  string
	SRID    int
	Entries []Entry
}

// Aggregate runs every simplifier at every level over the trajectory.
// It returns one collection per simplifier in simplifier order,
// followed by the full-resolution baseline as a MultiPoint. Levels are
// processed in the given order, which fixes entry order within each
// collection. Outputs with fewer than two points cannot form a line;
// they are skipped with a warning and do not fail the pass.
func Aggregate(traj track.Trajectory, levels []float64, simplifiers []subsample.Simplifier) ([]Collection, error) {
	if err := traj.Validate(); err != nil {
		return nil, err
	}
	for _, level := range levels {
		if level <= 0 {
			return nil, fmt.Errorf("layers: %w: got %v", subsample.ErrInvalidLevel, level)
		}
	}

	out := make([]Collection, 0, len(simplifiers)+1)
	for _, s := range simplifiers {
		col := Collection{Method: s.Name(), SRID: track.SRIDPolarStereographic}
		for _, level := range levels {
			pts, err := s.Simplify(traj.Points, level)
			if err != nil {
				return nil, fmt.Errorf("layers: %s at level %v: %w", s.Name(), level, err)
			}
			if len(pts) < 2 {
				monitoring.Logf("layers: degenerate %s output at level %v (%d points) for %s, skipped",
					s.Name(), level, len(pts), traj.Meta.Segment)
				continue
			}
			col.Entries = append(col.Entries, Entry{Level: level, Geometry: orb.LineString(pts)})
		}
		out = append(out, col)
	}

	baseline := make(orb.MultiPoint, len(traj.Points))
	copy(baseline, traj.Points)
	out = append(out, Collection{
		Method:  FullResolutionMethod,
		SRID:    track.SRIDPolarStereographic,
		Entries: []Entry{{Geometry: baseline}},
	})
	return out, nil
}
