package gpkg

import (
	"bytes"
	"encoding/binary"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// gpkgBlob encodes a geometry as a GeoPackage binary blob: the "GP"
// magic, version 0, a flags byte (little-endian byte order, envelope
// indicator 1), the SRS id, the [minx maxx miny maxy] envelope, then
// the WKB body.
func gpkgBlob(g orb.Geometry, srid int32) ([]byte, error) {
	body, err := wkb.Marshal(g, binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	bound := g.Bound()
	buf := new(bytes.Buffer)
	buf.Grow(8 + 4*8 + len(body))
	buf.WriteString("GP")
	buf.WriteByte(0)    // version
	buf.WriteByte(0x03) // little-endian, envelope indicator 1

	if err := binary.Write(buf, binary.LittleEndian, srid); err != nil {
		return nil, err
	}
	envelope := []float64{bound.Min[0], bound.Max[0], bound.Min[1], bound.Max[1]}
	for _, v := range envelope {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	buf.Write(body)
	return buf.Bytes(), nil
}
