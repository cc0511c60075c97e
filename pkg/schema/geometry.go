package schema

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/gaiaresources/biosys/pkg/gis"
)

// GeometryCapability classifies how a schema can produce a geometry.
type GeometryCapability int

const (
	GeometryNone GeometryCapability = iota
	GeometryLatLong
	GeometryEastingNorthing
	GeometrySiteCode
	GeometryLatLongAndSiteCode
)

func (c GeometryCapability) String() string {
	switch c {
	case GeometryLatLong:
		return "lat/long"
	case GeometryEastingNorthing:
		return "easting/northing"
	case GeometrySiteCode:
		return "site code"
	case GeometryLatLongAndSiteCode:
		return "lat/long and site code"
	default:
		return "none"
	}
}

// SiteResolver looks up the geometry of a site by its code. The
// returned point must already be in the model spatial reference; false
// means the site does not exist or has no geometry.
type SiteResolver interface {
	SiteGeometry(code string) (*geom.Point, bool)
}

// GeometryParser resolves a schema's geometry-bearing fields and builds
// a point from a row. A schema may carry several geometry sources; the
// row-cast precedence is easting/northing, then lat/long, then site
// code.
type GeometryParser struct {
	Latitude  *Field
	Longitude *Field
	Easting   *Field
	Northing  *Field
	Datum     *Field
	Zone      *Field
	SiteCode  *Field

	errs []error
}

// NewGeometryParser classifies the geometry capability of a schema.
// Resolution problems are collected rather than returned so that the
// inference engine can probe partially valid schemas; Validate reports
// them.
func NewGeometryParser(s *Schema) *GeometryParser {
	p := &GeometryParser{}

	p.Latitude = p.resolve(s, TagLatitude, LatitudeName, false)
	p.Longitude = p.resolve(s, TagLongitude, LongitudeName, false)
	p.Easting = p.resolve(s, TagEasting, EastingName, false)
	p.Northing = p.resolve(s, TagNorthing, NorthingName, false)
	p.Datum = p.resolve(s, TagDatum, DatumName, true)
	p.Zone = p.resolve(s, TagZone, ZoneName, true)
	p.SiteCode = p.resolveSiteCode(s)

	// A mandatory geometry role must be a required field, but only when
	// no alternative source can stand in for it.
	if p.IsLatLongOnly() {
		p.requireAll(p.Latitude, p.Longitude)
	}
	if p.IsEastingNorthingOnly() {
		p.requireAll(p.Easting, p.Northing)
	}
	if p.IsSiteCodeOnly() {
		p.requireAll(p.SiteCode)
	}
	return p
}

func (p *GeometryParser) resolve(s *Schema, tag, canonical string, icase bool) *Field {
	f, err := s.FieldByTagOrName(tag, canonical, icase)
	if err != nil {
		p.errs = append(p.errs, err)
		return nil
	}
	return f
}

// resolveSiteCode resolves the site code reference: by tag, by the
// canonical "Site Code" name, or through a foreign key declaration
// targeting Site.code.
func (p *GeometryParser) resolveSiteCode(s *Schema) *Field {
	f := p.resolve(s, TagSiteCode, SiteCodeName, true)
	if f != nil {
		return f
	}
	fk := s.ForeignKeyForModel("Site")
	if fk != nil && fk.ModelField() == "code" {
		return s.FieldByName(fk.DataField())
	}
	return nil
}

func (p *GeometryParser) requireAll(fields ...*Field) {
	for _, f := range fields {
		if err := requireRequired(f); err != nil {
			p.errs = append(p.errs, err)
		}
	}
}

// HasLatLong reports whether both latitude and longitude resolved.
func (p *GeometryParser) HasLatLong() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// HasEastingNorthing reports whether both easting and northing resolved.
func (p *GeometryParser) HasEastingNorthing() bool {
	return p.Easting != nil && p.Northing != nil
}

// HasSiteCode reports whether a site code reference resolved.
func (p *GeometryParser) HasSiteCode() bool { return p.SiteCode != nil }

// HasDatum reports whether a datum column resolved.
func (p *GeometryParser) HasDatum() bool { return p.Datum != nil }

// HasZone reports whether a zone column resolved.
func (p *GeometryParser) HasZone() bool { return p.Zone != nil }

// IsLatLongOnly reports lat/long as the sole geometry source.
func (p *GeometryParser) IsLatLongOnly() bool {
	return p.HasLatLong() && !p.HasSiteCode() && !p.HasEastingNorthing()
}

// IsEastingNorthingOnly reports easting/northing as the sole source.
func (p *GeometryParser) IsEastingNorthingOnly() bool {
	return p.HasEastingNorthing() && !p.HasSiteCode() && !p.HasLatLong()
}

// IsSiteCodeOnly reports the site reference as the sole source.
func (p *GeometryParser) IsSiteCodeOnly() bool {
	return p.HasSiteCode() && !p.HasLatLong() && !p.HasEastingNorthing()
}

// Capability returns the classified geometry capability.
func (p *GeometryParser) Capability() GeometryCapability {
	switch {
	case p.HasEastingNorthing():
		return GeometryEastingNorthing
	case p.HasLatLong() && p.HasSiteCode():
		return GeometryLatLongAndSiteCode
	case p.HasLatLong():
		return GeometryLatLong
	case p.HasSiteCode():
		return GeometrySiteCode
	default:
		return GeometryNone
	}
}

// Validate returns the classification error, if any: a resolution
// problem, or a schema with no geometry source at all.
func (p *GeometryParser) Validate() error {
	if len(p.errs) > 0 {
		return p.errs[0]
	}
	if p.Capability() == GeometryNone {
		return schemaErrorf(
			"The schema must contain some geometry fields: latitude/longitude " +
				"or easting/northing or alternatively a reference to the Site Code.",
		)
	}
	return nil
}

// ActiveFields returns every resolved geometry-bearing field, used to
// key row-level geometry errors by column.
func (p *GeometryParser) ActiveFields() []*Field {
	var fields []*Field
	for _, f := range []*Field{
		p.Latitude, p.Longitude, p.Easting, p.Northing,
		p.Datum, p.Zone, p.SiteCode,
	} {
		if f != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// CastSiteCode extracts the row's site code as a string.
func (p *GeometryParser) CastSiteCode(row map[string]any) (string, error) {
	if p.SiteCode == nil {
		return "", nil
	}
	v, err := p.SiteCode.Cast(row[p.SiteCode.Name])
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return strings.TrimSpace(fmt.Sprint(v)), nil
}

// Geometry provenance: whether a row's point came from its own data
// columns or from the referenced site.
const (
	GeometryFromData = "data"
	GeometryFromSite = "site"
)

// CastGeometry builds the row's point in the model spatial reference.
// Source precedence: easting/northing first, then lat/long, then the
// site reference; the first source with non-blank values wins.
func (p *GeometryParser) CastGeometry(
	row map[string]any, defaultSRID int, sites SiteResolver,
) (*geom.Point, error) {
	point, _, err := p.CastGeometrySource(row, defaultSRID, sites)
	return point, err
}

// CastGeometrySource is CastGeometry plus the provenance of the point:
// GeometryFromData for easting/northing and lat/long, GeometryFromSite
// for the site reference.
func (p *GeometryParser) CastGeometrySource(
	row map[string]any, defaultSRID int, sites SiteResolver,
) (*geom.Point, string, error) {
	if p.HasEastingNorthing() {
		easting, eok, err := p.castFloat(p.Easting, row)
		if err != nil {
			return nil, "", err
		}
		northing, nok, err := p.castFloat(p.Northing, row)
		if err != nil {
			return nil, "", err
		}
		if eok && nok {
			srid, err := p.projectedSRID(row, defaultSRID)
			if err != nil {
				return nil, "", err
			}
			point, err := gis.ToModelSRID(gis.NewPoint(easting, northing, srid))
			if err != nil {
				return nil, "", err
			}
			return point, GeometryFromData, nil
		}
	}
	if p.HasLatLong() {
		lat, latOK, err := p.castFloat(p.Latitude, row)
		if err != nil {
			return nil, "", err
		}
		lon, lonOK, err := p.castFloat(p.Longitude, row)
		if err != nil {
			return nil, "", err
		}
		if latOK && lonOK {
			srid, err := p.geographicSRID(row, defaultSRID)
			if err != nil {
				return nil, "", err
			}
			point, err := gis.ToModelSRID(gis.NewPoint(lon, lat, srid))
			if err != nil {
				return nil, "", err
			}
			return point, GeometryFromData, nil
		}
	}
	if p.HasSiteCode() {
		code, err := p.CastSiteCode(row)
		if err != nil {
			return nil, "", err
		}
		if code != "" {
			if sites == nil {
				return nil, "", geometryErrorf(
					"The site %s does not exist or has no geometry", code)
			}
			point, ok := sites.SiteGeometry(code)
			if !ok || point == nil {
				return nil, "", geometryErrorf(
					"The site %s does not exist or has no geometry", code)
			}
			// Copy, never alias: the record geometry has its own life.
			copied := gis.NewPoint(point.X(), point.Y(), point.SRID())
			return copied, GeometryFromSite, nil
		}
	}
	return nil, "", geometryErrorf(
		"None of the geometry fields have a value: " +
			"latitude/longitude, easting/northing or Site Code.",
	)
}

func (p *GeometryParser) castFloat(f *Field, row map[string]any) (float64, bool, error) {
	v, err := f.Cast(row[f.Name])
	if err != nil {
		return 0, false, err
	}
	if v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int64:
		return float64(n), true, nil
	default:
		return 0, false, castErrorf(f.Name, "The value %v is not a number.", v)
	}
}

// projectedSRID resolves the spatial reference for an easting/northing
// pair: datum and zone columns win, a zone alone assumes GDA94, and a
// bare datum must name a zoned system; otherwise the dataset default
// applies.
func (p *GeometryParser) projectedSRID(row map[string]any, defaultSRID int) (int, error) {
	datum, err := p.castDatum(row)
	if err != nil {
		return 0, err
	}
	zone, zoneOK, err := p.castZone(row)
	if err != nil {
		return 0, err
	}
	switch {
	case datum != "" && zoneOK:
		srid, err := gis.SRIDForDatumAndZone(datum, zone)
		if err != nil {
			return 0, p.invalidDatumError(datum)
		}
		return srid, nil
	case zoneOK:
		srid, err := gis.SRIDForDatumAndZone("GDA94", zone)
		if err != nil {
			return 0, geometryErrorf("Invalid zone %d.", zone)
		}
		return srid, nil
	case datum != "":
		srid, err := gis.SRIDForDatum(datum)
		if err != nil {
			return 0, p.invalidDatumError(datum)
		}
		return srid, nil
	default:
		return defaultSRID, nil
	}
}

// geographicSRID resolves the spatial reference for a lat/long pair:
// the datum column wins, then a geographic dataset default, then WGS84.
func (p *GeometryParser) geographicSRID(row map[string]any, defaultSRID int) (int, error) {
	datum, err := p.castDatum(row)
	if err != nil {
		return 0, err
	}
	if datum != "" {
		srid, err := gis.SRIDForDatum(datum)
		if err != nil {
			return 0, p.invalidDatumError(datum)
		}
		return srid, nil
	}
	if defaultSRID != 0 {
		return defaultSRID, nil
	}
	return gis.ModelSRID, nil
}

func (p *GeometryParser) castDatum(row map[string]any) (string, error) {
	if p.Datum == nil {
		return "", nil
	}
	v, err := p.Datum.Cast(row[p.Datum.Name])
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return strings.TrimSpace(fmt.Sprint(v)), nil
}

func (p *GeometryParser) castZone(row map[string]any) (int, bool, error) {
	if p.Zone == nil {
		return 0, false, nil
	}
	v, err := p.Zone.Cast(row[p.Zone.Name])
	if err != nil {
		return 0, false, err
	}
	if v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int64:
		return int(n), true, nil
	case float64:
		return int(n), true, nil
	default:
		return 0, false, castErrorf(p.Zone.Name, "The value %v is not a zone number.", v)
	}
}

func (p *GeometryParser) invalidDatumError(datum string) error {
	return geometryErrorf(
		"Invalid Datum '%s'. Should be one of: %s",
		datum, strings.Join(gis.SupportedDatums(), ", "),
	)
}
