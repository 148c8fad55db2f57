// Package track defines the flight-path data model shared by the
// subsampling engine, the layer aggregator, and the GeoPackage writer.
package track

import (
	"errors"

	"github.com/paulmach/orb"
)

// SRIDPolarStereographic is the EPSG code of the fixed planar
// projection (Antarctic Polar Stereographic) all coordinates use.
// Mixing projections within one run is a configuration error.
const SRIDPolarStereographic = 3031

// ErrEmptyTrajectory reports a trajectory with no points where at
// least one is required.
var ErrEmptyTrajectory = errors.New("track: trajectory has no points")

// Meta carries the per-trajectory attributes from the source table.
// URI is nil when the trajectory has no source artifact.
type Meta struct {
	Institution  string
	Region       string
	Campaign     string
	Segment      string
	Granule      string
	Availability string
	URI          *string
	Name         string
}

// Trajectory is an ordered flight path in easting/northing metres.
// Point order encodes flight sequence and is significant. A trajectory
// is created once and read-only afterwards; consumers must not mutate
// or reorder Points.
type Trajectory struct {
	Meta   Meta
	Points []orb.Point
}

// Validate rejects trajectories that cannot be processed.
func (t *Trajectory) Validate() error {
	if len(t.Points) == 0 {
		return ErrEmptyTrajectory
	}
	return nil
}
