package gpkg

import (
	"database/sql"
	"encoding/binary"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icetrails/pathbench/internal/layers"
	"github.com/icetrails/pathbench/internal/testutil"
	"github.com/icetrails/pathbench/internal/track"
)

func lineCollection(method string) layers.Collection {
	return layers.Collection{
		Method: method,
		SRID:   track.SRIDPolarStereographic,
		Entries: []layers.Entry{
			{Level: 10, Geometry: orb.LineString{{0, 0}, {100, 50}, {200, 0}}},
			{Level: 100, Geometry: orb.LineString{{0, 0}, {200, 0}}},
		},
	}
}

func TestWriteLayerRegistersContents(t *testing.T) {
	path := testutil.TempGeoPackage(t)
	w, err := Create(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteLayer(lineCollection("rdp"), "seg01_rdp"))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var dataType, geomType string
	var minX, minY, maxX, maxY float64
	var srsID int
	err = db.QueryRow(
		`SELECT data_type, min_x, min_y, max_x, max_y, srs_id FROM gpkg_contents WHERE table_name = 'seg01_rdp'`,
	).Scan(&dataType, &minX, &minY, &maxX, &maxY, &srsID)
	require.NoError(t, err)
	assert.Equal(t, "features", dataType)
	assert.Equal(t, track.SRIDPolarStereographic, srsID)
	assert.Equal(t, []float64{0, 0, 200, 50}, []float64{minX, minY, maxX, maxY})

	err = db.QueryRow(
		`SELECT geometry_type_name FROM gpkg_geometry_columns WHERE table_name = 'seg01_rdp'`,
	).Scan(&geomType)
	require.NoError(t, err)
	assert.Equal(t, "LINESTRING", geomType)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM seg01_rdp`).Scan(&rows))
	assert.Equal(t, 2, rows)

	var appID int64
	require.NoError(t, db.QueryRow(`PRAGMA application_id`).Scan(&appID))
	assert.Equal(t, int64(0x47504B47), appID)
}

func TestWriteLayerBlobFormat(t *testing.T) {
	path := testutil.TempGeoPackage(t)
	w, err := Create(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteLayer(lineCollection("rdp"), "blob_check"))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var blob []byte
	require.NoError(t, db.QueryRow(`SELECT geom FROM blob_check WHERE level = 10`).Scan(&blob))
	require.Greater(t, len(blob), 40)

	assert.Equal(t, byte('G'), blob[0])
	assert.Equal(t, byte('P'), blob[1])
	assert.Equal(t, byte(0), blob[2], "version")
	assert.Equal(t, byte(0x03), blob[3], "little-endian with XY envelope")
	assert.Equal(t, uint32(track.SRIDPolarStereographic), binary.LittleEndian.Uint32(blob[4:8]))

	env := make([]float64, 4)
	for i := range env {
		env[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8+8*i : 16+8*i]))
	}
	// Envelope order is minx, maxx, miny, maxy.
	assert.Equal(t, []float64{0, 200, 0, 50}, env)
}

func TestWriteLayerOverwritesOnlyThatLayer(t *testing.T) {
	w, err := Create(testutil.TempGeoPackage(t))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteLayer(lineCollection("rdp"), "a"))
	require.NoError(t, w.WriteLayer(lineCollection("grid"), "b"))

	shorter := lineCollection("rdp")
	shorter.Entries = shorter.Entries[:1]
	require.NoError(t, w.WriteLayer(shorter, "a"))

	names, err := w.Layers()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	var rows int
	require.NoError(t, w.db.QueryRow(`SELECT count(*) FROM a`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestOpenPreservesCreateReplaces(t *testing.T) {
	path := testutil.TempGeoPackage(t)

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteLayer(lineCollection("rdp"), "keepme"))
	require.NoError(t, w.Close())

	w, err = Open(path)
	require.NoError(t, err)
	names, err := w.Layers()
	require.NoError(t, err)
	assert.Equal(t, []string{"keepme"}, names)
	require.NoError(t, w.Close())

	w, err = Create(path)
	require.NoError(t, err)
	defer w.Close()
	names, err = w.Layers()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestWriteLayerRejectsBadInput(t *testing.T) {
	w, err := Create(testutil.TempGeoPackage(t))
	require.NoError(t, err)
	defer w.Close()

	err = w.WriteLayer(lineCollection("rdp"), "bad name; DROP TABLE x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layer name")

	wrong := lineCollection("rdp")
	wrong.SRID = 4326
	assert.ErrorIs(t, w.WriteLayer(wrong, "mismatch"), ErrCRSMismatch)
}

func TestRecordRun(t *testing.T) {
	w, err := Create(testutil.TempGeoPackage(t))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.RecordRun("run-1", "gaussian", 10000, 5, []float64{10, 100, 1000}))
	// Re-recording the same run replaces, not duplicates.
	require.NoError(t, w.RecordRun("run-1", "gaussian", 10000, 5, []float64{10, 100, 1000}))

	var noise, levels string
	var points, paths int
	err = w.db.QueryRow(
		`SELECT noise_mode, point_count, path_count, levels FROM pathbench_runs WHERE run_id = 'run-1'`,
	).Scan(&noise, &points, &paths, &levels)
	require.NoError(t, err)
	assert.Equal(t, "gaussian", noise)
	assert.Equal(t, 10000, points)
	assert.Equal(t, 5, paths)
	assert.Equal(t, "10,100,1000", levels)
}

func TestGeometryTypeName(t *testing.T) {
	t.Parallel()

	mixed := layers.Collection{Entries: []layers.Entry{
		{Geometry: orb.LineString{{0, 0}, {1, 1}}},
		{Geometry: orb.MultiPoint{{0, 0}}},
	}}
	assert.Equal(t, "GEOMETRY", geometryTypeName(mixed))

	points := layers.Collection{Entries: []layers.Entry{{Geometry: orb.MultiPoint{{0, 0}}}}}
	assert.Equal(t, "MULTIPOINT", geometryTypeName(points))

	assert.Equal(t, "GEOMETRY", geometryTypeName(layers.Collection{}))
}
