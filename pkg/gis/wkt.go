package gis

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// EncodeWKT serializes a point as WKT for storage.
func EncodeWKT(p *geom.Point) (string, error) {
	if p == nil {
		return "", fmt.Errorf("cannot encode a nil point")
	}
	return wkt.Marshal(p)
}

// DecodeWKT parses a stored WKT geometry back into a point. The SRID is
// not part of WKT; stored geometries are always in the model SRID.
func DecodeWKT(s string) (*geom.Point, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("cannot decode WKT %q: %w", s, err)
	}
	point, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("the WKT %q is not a point", s)
	}
	return NewPoint(point.X(), point.Y(), ModelSRID), nil
}
