// Package infer builds a schema descriptor from raw tabular data. It
// votes a type per column from sampled values, tags geometry and
// species columns, and classifies the dataset as generic, observation
// or species_observation through ordered capability probes.
package infer

import (
	"fmt"
	"strings"

	"github.com/gaiaresources/biosys/pkg/models"
	"github.com/gaiaresources/biosys/pkg/schema"
)

// Result is the outcome of schema inference: a dataset type and a
// descriptor that is always schema-valid, so it can be submitted back
// into dataset creation unchanged.
type Result struct {
	DatasetType string
	Descriptor  *schema.Descriptor
}

// Infer derives a schema from rows of cells. The first row holds the
// column headers; the rest are data samples.
func Infer(rows [][]string) (*Result, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("cannot infer a schema without a header row")
	}
	headers := rows[0]
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			return nil, fmt.Errorf("the header of column %d is blank", i+1)
		}
	}

	d := &schema.Descriptor{}
	for col, header := range headers {
		values := columnValues(rows[1:], col)
		typ, format := voteType(values)
		d.Fields = append(d.Fields, &schema.FieldDescriptor{
			Name:   strings.TrimSpace(header),
			Type:   typ,
			Format: format,
		})
	}

	tagGeometry(d)
	tagSpecies(d)
	tagObservationDate(d)

	return &Result{DatasetType: classify(d), Descriptor: d}, nil
}

func columnValues(rows [][]string, col int) []string {
	var values []string
	for _, row := range rows {
		if col < len(row) {
			values = append(values, row[col])
		}
	}
	return values
}

// Non-numeric boolean literals. 0, 1 and x are accepted by the boolean
// cast but vote integer or string here, so count columns keep their
// natural type.
var booleanVoteLiterals = map[string]struct{}{
	"true": {}, "false": {}, "yes": {}, "no": {},
	"y": {}, "n": {}, "t": {}, "f": {},
}

// voteType picks the most specific type a majority of the non-blank
// samples parses as. Boolean beats integer beats number beats date;
// anything else is a string. A column with a mix of parseable and
// unparseable values keeps the parsed type once the parsed values hold
// the majority.
func voteType(values []string) (schema.FieldType, string) {
	var nonBlank []string
	for _, v := range values {
		if !schema.IsBlank(v) {
			nonBlank = append(nonBlank, v)
		}
	}
	if len(nonBlank) == 0 {
		return schema.TypeString, ""
	}

	if majority(nonBlank, isBooleanLiteral) {
		return schema.TypeBoolean, ""
	}
	for _, probe := range []struct {
		typ    schema.FieldType
		format string
	}{
		{schema.TypeInteger, ""},
		{schema.TypeNumber, ""},
		{schema.TypeDate, "any"},
	} {
		f := probeField(probe.typ, probe.format)
		ok := func(v string) bool {
			_, err := f.Cast(v)
			return err == nil
		}
		if majority(nonBlank, ok) {
			return probe.typ, probe.format
		}
	}
	return schema.TypeString, ""
}

func majority(values []string, ok func(string) bool) bool {
	hits := 0
	for _, v := range values {
		if ok(v) {
			hits++
		}
	}
	return hits*2 > len(values)
}

func isBooleanLiteral(v string) bool {
	_, ok := booleanVoteLiterals[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

func probeField(typ schema.FieldType, format string) *schema.Field {
	f, _ := schema.NewField(&schema.FieldDescriptor{
		Name: "probe", Type: typ, Format: format,
	})
	return f
}

func fieldNamed(d *schema.Descriptor, name string) *schema.FieldDescriptor {
	for _, f := range d.Fields {
		if strings.EqualFold(strings.TrimSpace(f.Name), name) {
			return f
		}
	}
	return nil
}

// tagGeometry tags the geometry columns found by name and applies the
// mandatory-role rule: the columns of the only available source become
// required.
func tagGeometry(d *schema.Descriptor) {
	lat := fieldNamed(d, schema.LatitudeName)
	lon := fieldNamed(d, schema.LongitudeName)
	east := fieldNamed(d, schema.EastingName)
	north := fieldNamed(d, schema.NorthingName)
	datum := fieldNamed(d, schema.DatumName)
	zone := fieldNamed(d, schema.ZoneName)
	site := fieldNamed(d, schema.SiteCodeName)

	hasLatLong := lat != nil && lon != nil
	hasEastNorth := east != nil && north != nil

	if hasLatLong {
		decorate(lat, schema.TypeNumber, schema.TagLatitude)
		decorate(lon, schema.TypeNumber, schema.TagLongitude)
		if !hasEastNorth && site == nil {
			lat.SetRequired(true)
			lon.SetRequired(true)
		}
	}
	if hasEastNorth {
		decorate(east, schema.TypeNumber, schema.TagEasting)
		decorate(north, schema.TypeNumber, schema.TagNorthing)
		if !hasLatLong && site == nil {
			east.SetRequired(true)
			north.SetRequired(true)
		}
	}
	if datum != nil {
		decorate(datum, schema.TypeString, schema.TagDatum)
	}
	if zone != nil {
		decorate(zone, schema.TypeInteger, schema.TagZone)
	}
	if site != nil {
		decorate(site, schema.TypeString, schema.TagSiteCode)
		if !hasLatLong && !hasEastNorth {
			site.SetRequired(true)
		}
	}
}

// tagSpecies tags the species identity columns found by name. A Name
// Id column lifts the required constraint from the name columns.
func tagSpecies(d *schema.Descriptor) {
	nameID := fieldNamed(d, schema.NameIDName)
	if nameID != nil {
		nameID.Type = schema.TypeInteger
		nameID.Format = ""
	}

	if f := fieldNamed(d, schema.SpeciesNameName); f != nil {
		decorate(f, schema.TypeString, schema.TagSpeciesName)
		if nameID == nil {
			f.SetRequired(true)
		}
		return
	}

	genus := fieldNamed(d, schema.GenusName)
	species := fieldNamed(d, schema.SpeciesColumnName)
	if genus != nil && species != nil {
		decorate(genus, schema.TypeString, schema.TagGenus)
		decorate(species, schema.TypeString, schema.TagSpecies)
		if nameID == nil {
			genus.SetRequired(true)
			species.SetRequired(true)
		}
		if f := fieldNamed(d, schema.InfraRankName); f != nil {
			decorate(f, schema.TypeString, schema.TagInfraRank)
		}
		if f := fieldNamed(d, schema.InfraNameName); f != nil {
			decorate(f, schema.TypeString, schema.TagInfraName)
		}
	}
}

// tagObservationDate marks the observation date column: the canonical
// name wins; failing that, a single date column qualifies on its own.
func tagObservationDate(d *schema.Descriptor) {
	if f := fieldNamed(d, schema.ObservationDateName); f != nil {
		f.Type = schema.TypeDate
		f.Format = "any"
		f.SetTag(schema.TagObservationDate)
		f.SetRequired(true)
		return
	}
	var dates []*schema.FieldDescriptor
	for _, f := range d.Fields {
		if f.Type == schema.TypeDate || f.Type == schema.TypeDateTime {
			dates = append(dates, f)
		}
	}
	if len(dates) == 1 {
		dates[0].SetRequired(true)
	}
}

func decorate(f *schema.FieldDescriptor, typ schema.FieldType, tag string) {
	f.Type = typ
	f.Format = ""
	if typ == schema.TypeDate {
		f.Format = "any"
	}
	f.SetTag(tag)
}

// classify runs the capability probes from most to least demanding.
// Species observation implies observation implies generic.
func classify(d *schema.Descriptor) string {
	s, err := schema.New(d)
	if err != nil {
		return models.DatasetTypeGeneric
	}
	if _, err := schema.NewSpeciesObservationSchema(s); err == nil {
		return models.DatasetTypeSpeciesObservation
	}
	if _, err := schema.NewObservationSchema(s); err == nil {
		return models.DatasetTypeObservation
	}
	return models.DatasetTypeGeneric
}
