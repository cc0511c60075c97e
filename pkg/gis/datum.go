// Package gis provides the datum registry and coordinate reprojection
// used by the schema geometry parser. All geometries handed to the rest
// of the system are points in the model spatial reference (EPSG:4326).
package gis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// ModelSRID is the canonical spatial reference of every persisted geometry.
const ModelSRID = 4326

// Geographic datums accepted in a Datum column or as a project default.
const (
	sridWGS84 = 4326
	sridGDA94 = 4283
	sridAGD84 = 4203
	sridAGD66 = 4202
)

var geographicDatums = map[string]int{
	"WGS84": sridWGS84,
	"GDA94": sridGDA94,
	"AGD84": sridAGD84,
	"AGD66": sridAGD66,
}

// Projected (UTM south) SRID blocks per datum. The zone number is added
// to the block base, e.g. GDA94 / MGA zone 50 -> 28350.
var zonedDatums = map[string]int{
	"WGS84": 32700, // WGS 84 / UTM south
	"GDA94": 28300, // GDA94 / MGA
	"AGD84": 20300, // AGD84 / AMG
	"AGD66": 20200, // AGD66 / AMG
}

const (
	minZone = 46
	maxZone = 59
)

// Matches e.g. "GDA94 / MGA zone 50", "AGD66/AMG Zone 51", "GDA94/Zone50".
var zonedDatumRe = regexp.MustCompile(`^([A-Z]+\d+)/(?:MGA|AMG|UTM)?ZONE(\d{1,2})$`)

func normalizeDatum(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, " ", ""))
}

// SRIDForDatum returns the SRID for a datum name, geographic or zoned.
// The match is case-insensitive and ignores spaces.
func SRIDForDatum(name string) (int, error) {
	datum := normalizeDatum(name)
	if srid, ok := geographicDatums[datum]; ok {
		return srid, nil
	}
	if m := zonedDatumRe.FindStringSubmatch(datum); m != nil {
		zone, _ := strconv.Atoi(m[2])
		return SRIDForDatumAndZone(m[1], zone)
	}
	return 0, fmt.Errorf(
		"invalid datum %q: should be one of: %s",
		name, strings.Join(SupportedDatums(), ", "),
	)
}

// SRIDForDatumAndZone returns the projected SRID for a datum name and a
// UTM/MGA zone number.
func SRIDForDatumAndZone(datum string, zone int) (int, error) {
	base, ok := zonedDatums[normalizeDatum(datum)]
	if !ok {
		return 0, fmt.Errorf(
			"invalid datum %q: should be one of: %s",
			datum, strings.Join(SupportedDatums(), ", "),
		)
	}
	if zone < minZone || zone > maxZone {
		return 0, fmt.Errorf("invalid zone %d for datum %q", zone, datum)
	}
	return base + zone, nil
}

// IsSupportedDatum reports whether a datum name resolves to an SRID.
func IsSupportedDatum(name string) bool {
	_, err := SRIDForDatum(name)
	return err == nil
}

// SupportedDatums lists the accepted geographic datum names plus the
// zoned form, for use in error messages.
func SupportedDatums() []string {
	names := make([]string, 0, len(geographicDatums)+1)
	for name := range geographicDatums {
		names = append(names, name)
	}
	sort.Strings(names)
	names = append(names, "<datum> / MGA zone <46-59>")
	return names
}

// NewPoint builds a 2D point carrying the given SRID.
func NewPoint(x, y float64, srid int) *geom.Point {
	p := geom.NewPointFlat(geom.XY, []float64{x, y})
	p.SetSRID(srid)
	return p
}
