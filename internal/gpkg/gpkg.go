// Package gpkg persists layer collections into a GeoPackage. A
// GeoPackage is a SQLite container with a small set of registry
// tables, so the writer sits directly on database/sql with the
// modernc.org/sqlite driver and encodes features as GeoPackage binary
// blobs wrapping WKB.
package gpkg

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	_ "modernc.org/sqlite"

	"github.com/icetrails/pathbench/internal/layers"
	"github.com/icetrails/pathbench/internal/track"
)

// ErrCRSMismatch reports a collection whose SRID differs from the
// destination's. Mixed projections are a configuration error and are
// rejected before any rows are written.
var ErrCRSMismatch = errors.New("gpkg: collection SRID does not match destination")

// layerNameRE constrains layer names to identifier characters so they
// can be interpolated as quoted table names.
var layerNameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Writer appends named feature layers to one GeoPackage. The
// destination is a shared resource: Writer serializes all write
// operations with an internal mutex, so one Writer may be used from
// many trajectory pipelines concurrently.
type Writer struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	srid int
}

// Open opens or creates the GeoPackage at path, installing the
// required registry tables if missing. Existing layers are preserved;
// rewriting a layer replaces only that layer.
func Open(path string) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gpkg: open %s: %w", path, err)
	}

	w := &Writer{db: db, path: path, srid: track.SRIDPolarStereographic}
	if err := w.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

// Create removes any existing artifact at path and opens a fresh
// GeoPackage (whole-destination replacement, as opposed to the
// layer-level overwrite Open provides).
func Create(path string) (*Writer, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("gpkg: remove %s: %w", path, err)
	}
	return Open(path)
}

// Path returns the destination artifact path.
func (w *Writer) Path() string { return w.path }

// Close closes the underlying database.
func (w *Writer) Close() error { return w.db.Close() }

func (w *Writer) ensureSchema() error {
	stmts := []string{
		// 0x47504B47 ("GPKG") identifies the file as a GeoPackage.
		"PRAGMA application_id = 1196444487",
		"PRAGMA user_version = 10300",
		`CREATE TABLE IF NOT EXISTS gpkg_spatial_ref_sys (
			srs_name                 TEXT NOT NULL,
			srs_id                   INTEGER NOT NULL PRIMARY KEY,
			organization             TEXT NOT NULL,
			organization_coordsys_id INTEGER NOT NULL,
			definition               TEXT NOT NULL,
			description              TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS gpkg_contents (
			table_name  TEXT NOT NULL PRIMARY KEY,
			data_type   TEXT NOT NULL,
			identifier  TEXT UNIQUE,
			description TEXT DEFAULT '',
			last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			min_x       DOUBLE,
			min_y       DOUBLE,
			max_x       DOUBLE,
			max_y       DOUBLE,
			srs_id      INTEGER,
			CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
		)`,
		`CREATE TABLE IF NOT EXISTS gpkg_geometry_columns (
			table_name         TEXT NOT NULL,
			column_name        TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id             INTEGER NOT NULL,
			z                  TINYINT NOT NULL,
			m                  TINYINT NOT NULL,
			CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name)
		)`,
		`CREATE TABLE IF NOT EXISTS pathbench_runs (
			run_id      TEXT PRIMARY KEY,
			started     DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			noise_mode  TEXT,
			point_count INTEGER,
			path_count  INTEGER,
			levels      TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := w.db.Exec(stmt); err != nil {
			return fmt.Errorf("gpkg: init schema: %w", err)
		}
	}

	srs := []struct {
		name       string
		id         int
		org        string
		orgID      int
		definition string
	}{
		{"Undefined Cartesian SRS", -1, "NONE", -1, "undefined"},
		{"Undefined geographic SRS", 0, "NONE", 0, "undefined"},
		{"WGS 84", 4326, "EPSG", 4326,
			`GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`},
		{"WGS 84 / Antarctic Polar Stereographic", 3031, "EPSG", 3031,
			`PROJCS["WGS 84 / Antarctic Polar Stereographic",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]]],PROJECTION["Polar_Stereographic"],PARAMETER["latitude_of_origin",-71],PARAMETER["central_meridian",0],UNIT["metre",1]]`},
	}
	for _, s := range srs {
		_, err := w.db.Exec(
			`INSERT OR IGNORE INTO gpkg_spatial_ref_sys
				(srs_name, srs_id, organization, organization_coordsys_id, definition)
				VALUES (?, ?, ?, ?, ?)`,
			s.name, s.id, s.org, s.orgID, s.definition)
		if err != nil {
			return fmt.Errorf("gpkg: register srs %d: %w", s.id, err)
		}
	}
	return nil
}

// WriteLayer persists the collection as the named layer, replacing
// the layer if it already exists. Only the named layer is touched.
func (w *Writer) WriteLayer(col layers.Collection, layer string) error {
	if !layerNameRE.MatchString(layer) {
		return fmt.Errorf("gpkg: invalid layer name %q", layer)
	}
	if col.SRID != w.srid {
		return fmt.Errorf("%w: got %d, want %d", ErrCRSMismatch, col.SRID, w.srid)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("gpkg: begin: %w", err)
	}
	defer tx.Rollback()

	quoted := `"` + layer + `"`
	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + quoted); err != nil {
		return fmt.Errorf("gpkg: drop layer %s: %w", layer, err)
	}
	_, err = tx.Exec(`CREATE TABLE ` + quoted + ` (
		fid   INTEGER PRIMARY KEY AUTOINCREMENT,
		level DOUBLE NOT NULL,
		geom  BLOB
	)`)
	if err != nil {
		return fmt.Errorf("gpkg: create layer %s: %w", layer, err)
	}

	var bound *orb.Bound
	for _, e := range col.Entries {
		blob, err := gpkgBlob(e.Geometry, int32(col.SRID))
		if err != nil {
			return fmt.Errorf("gpkg: encode geometry for %s: %w", layer, err)
		}
		if _, err := tx.Exec(`INSERT INTO `+quoted+` (level, geom) VALUES (?, ?)`, e.Level, blob); err != nil {
			return fmt.Errorf("gpkg: insert into %s: %w", layer, err)
		}
		b := e.Geometry.Bound()
		if bound == nil {
			bound = &b
		} else {
			u := bound.Union(b)
			bound = &u
		}
	}

	var minX, minY, maxX, maxY any
	if bound != nil {
		minX, minY, maxX, maxY = bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]
	}
	_, err = tx.Exec(
		`INSERT OR REPLACE INTO gpkg_contents
			(table_name, data_type, identifier, description, min_x, min_y, max_x, max_y, srs_id)
			VALUES (?, 'features', ?, ?, ?, ?, ?, ?, ?)`,
		layer, layer, "pathbench "+col.Method+" layer", minX, minY, maxX, maxY, col.SRID)
	if err != nil {
		return fmt.Errorf("gpkg: register contents for %s: %w", layer, err)
	}
	_, err = tx.Exec(
		`INSERT OR REPLACE INTO gpkg_geometry_columns
			(table_name, column_name, geometry_type_name, srs_id, z, m)
			VALUES (?, 'geom', ?, ?, 0, 0)`,
		layer, geometryTypeName(col), col.SRID)
	if err != nil {
		return fmt.Errorf("gpkg: register geometry column for %s: %w", layer, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("gpkg: commit layer %s: %w", layer, err)
	}
	return nil
}

// RecordRun registers a batch run in the destination so artifacts are
// traceable back to their generating configuration.
func (w *Writer) RecordRun(runID, noiseMode string, pointCount, pathCount int, levels []float64) error {
	parts := make([]string, len(levels))
	for i, level := range levels {
		parts[i] = fmt.Sprintf("%g", level)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.db.Exec(
		`INSERT OR REPLACE INTO pathbench_runs (run_id, noise_mode, point_count, path_count, levels)
			VALUES (?, ?, ?, ?, ?)`,
		runID, noiseMode, pointCount, pathCount, strings.Join(parts, ","))
	if err != nil {
		return fmt.Errorf("gpkg: record run %s: %w", runID, err)
	}
	return nil
}

// Layers lists the feature layers currently registered in the
// destination, in name order. Used to report partial results when a
// run aborts.
func (w *Writer) Layers() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.db.Query(`SELECT table_name FROM gpkg_contents WHERE data_type = 'features' ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("gpkg: list layers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("gpkg: scan layer name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// geometryTypeName reports the layer's declared geometry type,
// falling back to GEOMETRY for mixed collections.
func geometryTypeName(col layers.Collection) string {
	name := ""
	for _, e := range col.Entries {
		var t string
		switch e.Geometry.(type) {
		case orb.LineString:
			t = "LINESTRING"
		case orb.MultiPoint:
			t = "MULTIPOINT"
		case orb.Point:
			t = "POINT"
		default:
			t = "GEOMETRY"
		}
		if name == "" {
			name = t
		} else if name != t {
			return "GEOMETRY"
		}
	}
	if name == "" {
		return "GEOMETRY"
	}
	return name
}
