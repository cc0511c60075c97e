package gis

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// ellipsoid holds the semi-major axis and flattening of a reference
// ellipsoid.
type ellipsoid struct {
	a float64
	f float64
}

var (
	grs80 = ellipsoid{a: 6378137.0, f: 1 / 298.257222101}  // GDA94, WGS84 (close enough)
	ans   = ellipsoid{a: 6378160.0, f: 1 / 298.25}         // AGD66, AGD84
)

// helmert holds a 7-parameter similarity transformation to GDA94/WGS84
// (position vector convention, translations in metres, rotations in
// arc-seconds, scale in ppm).
type helmert struct {
	tx, ty, tz float64
	rx, ry, rz float64
	ds         float64
}

// Parameters from the GDA technical manual.
var datumShifts = map[int]helmert{
	sridAGD66: {-117.808, -51.536, 137.784, 0.303, 0.446, 0.234, -0.290},
	sridAGD84: {-117.763, -51.510, 139.061, -0.292, -0.443, -0.277, -0.191},
}

// projection describes a projected SRID as a zone over a geographic base.
type projection struct {
	ell  ellipsoid
	zone int
	base int
}

func projectionForSRID(srid int) (projection, bool) {
	for datum, blockBase := range zonedDatums {
		zone := srid - blockBase
		if zone >= minZone && zone <= maxZone {
			geoSRID := geographicDatums[datum]
			ell := grs80
			if geoSRID == sridAGD66 || geoSRID == sridAGD84 {
				ell = ans
			}
			return projection{ell: ell, zone: zone, base: geoSRID}, true
		}
	}
	return projection{}, false
}

// ToModelSRID reprojects a point into the model spatial reference
// (EPSG:4326). Projected coordinates are unprojected from their UTM/MGA
// zone first; AGD coordinates then get a datum shift. GDA94 is treated
// as coincident with WGS84.
func ToModelSRID(p *geom.Point) (*geom.Point, error) {
	srid := p.SRID()
	x, y := p.X(), p.Y()

	if proj, ok := projectionForSRID(srid); ok {
		lon, lat := inverseTransverseMercator(proj.ell, proj.zone, x, y)
		x, y = lon, lat
		srid = proj.base
	}

	switch srid {
	case sridWGS84, sridGDA94:
		return NewPoint(x, y, ModelSRID), nil
	case sridAGD66, sridAGD84:
		lon, lat := datumShifts[srid].shift(ans, x, y)
		return NewPoint(lon, lat, ModelSRID), nil
	}
	return nil, fmt.Errorf("unsupported SRID %d", p.SRID())
}

// inverseTransverseMercator converts UTM south easting/northing to
// geographic lon/lat degrees. Standard series expansion with k0=0.9996,
// false easting 500000 m and false northing 10000000 m.
func inverseTransverseMercator(ell ellipsoid, zone int, easting, northing float64) (lon, lat float64) {
	const (
		k0 = 0.9996
		fe = 500000.0
		fn = 10000000.0
	)
	a := ell.a
	f := ell.f
	e2 := f * (2 - f)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	m := (northing - fn) / k0
	mu := m / (a * (1 - e2/4 - 3*e4/64 - 5*e6/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	// Footpoint latitude.
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1 := math.Sin(phi1)
	cos1 := math.Cos(phi1)
	tan1 := math.Tan(phi1)

	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := a / math.Sqrt(1-e2*sin1*sin1)
	r1 := a * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := (easting - fe) / (n1 * k0)

	phi := phi1 - (n1 * tan1 / r1) *
		(d*d/2 -
			(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24 +
			(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)

	lambda := (d -
		(1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120) / cos1

	lon0 := float64(zone)*6 - 183
	lat = phi * 180 / math.Pi
	lon = lon0 + lambda*180/math.Pi
	return lon, lat
}

// shift applies the 7-parameter transformation to geographic lon/lat
// degrees on the source ellipsoid, returning GDA94/WGS84 degrees.
func (h helmert) shift(src ellipsoid, lon, lat float64) (float64, float64) {
	x, y, z := geodeticToCartesian(src, lon, lat)

	const arcsec = math.Pi / (180 * 3600)
	rx := h.rx * arcsec
	ry := h.ry * arcsec
	rz := h.rz * arcsec
	s := 1 + h.ds*1e-6

	xt := h.tx + s*(x-rz*y+ry*z)
	yt := h.ty + s*(rz*x+y-rx*z)
	zt := h.tz + s*(-ry*x+rx*y+z)

	return cartesianToGeodetic(grs80, xt, yt, zt)
}

func geodeticToCartesian(ell ellipsoid, lon, lat float64) (x, y, z float64) {
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	e2 := ell.f * (2 - ell.f)
	nu := ell.a / math.Sqrt(1-e2*math.Sin(phi)*math.Sin(phi))
	x = nu * math.Cos(phi) * math.Cos(lambda)
	y = nu * math.Cos(phi) * math.Sin(lambda)
	z = nu * (1 - e2) * math.Sin(phi)
	return x, y, z
}

func cartesianToGeodetic(ell ellipsoid, x, y, z float64) (lon, lat float64) {
	e2 := ell.f * (2 - ell.f)
	p := math.Sqrt(x*x + y*y)
	phi := math.Atan2(z, p*(1-e2))
	// Iterate; converges in a handful of rounds.
	for range 10 {
		nu := ell.a / math.Sqrt(1-e2*math.Sin(phi)*math.Sin(phi))
		phi = math.Atan2(z+e2*nu*math.Sin(phi), p)
	}
	lon = math.Atan2(y, x) * 180 / math.Pi
	lat = phi * 180 / math.Pi
	return lon, lat
}
