package track

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paulmach/orb"
)

// csvHeader is the tabular row format for trajectory interchange: one
// row per point, metadata repeated on every row, empty uri meaning nil.
var csvHeader = []string{
	"ps71_easting", "ps71_northing",
	"institution", "region", "campaign", "segment", "granule",
	"availability", "uri", "name",
}

// WriteCSV writes the trajectory to path, one row per point.
func WriteCSV(path string, t Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("track: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("track: write header: %w", err)
	}

	uri := ""
	if t.Meta.URI != nil {
		uri = *t.Meta.URI
	}
	for _, p := range t.Points {
		row := []string{
			strconv.FormatFloat(p[0], 'f', -1, 64),
			strconv.FormatFloat(p[1], 'f', -1, 64),
			t.Meta.Institution, t.Meta.Region, t.Meta.Campaign,
			t.Meta.Segment, t.Meta.Granule, t.Meta.Availability,
			uri, t.Meta.Name,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("track: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("track: flush %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV reads one trajectory from path. The trajectory boundary is
// the whole table; metadata is taken from the first data row.
func ReadCSV(path string) (Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trajectory{}, fmt.Errorf("track: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return Trajectory{}, fmt.Errorf("track: read header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return Trajectory{}, fmt.Errorf("track: expected %d columns, got %d", len(csvHeader), len(header))
	}

	var t Trajectory
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Trajectory{}, fmt.Errorf("track: read row: %w", err)
		}

		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return Trajectory{}, fmt.Errorf("track: parse easting %q: %w", row[0], err)
		}
		y, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return Trajectory{}, fmt.Errorf("track: parse northing %q: %w", row[1], err)
		}
		t.Points = append(t.Points, orb.Point{x, y})

		if first {
			first = false
			t.Meta = Meta{
				Institution:  row[2],
				Region:       row[3],
				Campaign:     row[4],
				Segment:      row[5],
				Granule:      row[6],
				Availability: row[7],
				Name:         row[9],
			}
			if row[8] != "" {
				uri := row[8]
				t.Meta.URI = &uri
			}
		}
	}

	if err := t.Validate(); err != nil {
		return Trajectory{}, err
	}
	return t, nil
}
