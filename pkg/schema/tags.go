package schema

import "strings"

// Biosys tags: the semantic roles a field can carry independently of
// its display name. At most one field per schema may carry a given tag.
const (
	TagObservationDate = "observationDate"
	TagLatitude        = "latitude"
	TagLongitude       = "longitude"
	TagEasting         = "easting"
	TagNorthing        = "northing"
	TagDatum           = "datum"
	TagZone            = "zone"
	TagSiteCode        = "siteCode"
	TagSpeciesName     = "speciesName"
	TagGenus           = "genus"
	TagSpecies         = "species"
	TagInfraRank       = "infraspecificRank"
	TagInfraName       = "infraspecificName"
)

// Canonical column names used as a fallback when no field carries the
// matching tag.
const (
	ObservationDateName = "Observation Date"
	LatitudeName        = "Latitude"
	LongitudeName       = "Longitude"
	EastingName         = "Easting"
	NorthingName        = "Northing"
	DatumName           = "Datum"
	ZoneName            = "Zone"
	SiteCodeName        = "Site Code"
	SpeciesNameName     = "Species Name"
	GenusName           = "Genus"
	SpeciesColumnName   = "Species"
	InfraRankName       = "Infraspecific Rank"
	InfraNameName       = "Infraspecific Name"
	NameIDName          = "Name Id"
)

// FieldByTag resolves the single field carrying a biosys tag. More than
// one field with the same tag is a SchemaError naming the offenders; no
// match returns nil.
func (s *Schema) FieldByTag(tag string) (*Field, error) {
	tagged := s.fieldsByTag(tag)
	if len(tagged) > 1 {
		return nil, schemaErrorf(
			"More than one Biosys type %s field found: [%s]",
			tag, joinFieldNames(tagged),
		)
	}
	if len(tagged) == 1 {
		return tagged[0], nil
	}
	return nil, nil
}

// FieldByTagOrName resolves a semantic role. A tagged field wins
// outright over any field matching the canonical name; the name lookup
// only runs when no field carries the tag. Ambiguity on either path is
// a SchemaError. A missing role resolves to nil without error.
func (s *Schema) FieldByTagOrName(tag, canonical string, icase bool) (*Field, error) {
	field, err := s.FieldByTag(tag)
	if err != nil || field != nil {
		return field, err
	}
	named := s.fieldsByName(canonical, icase)
	if len(named) > 1 {
		return nil, schemaErrorf("More than one field named %s found.", canonical)
	}
	if len(named) == 1 {
		return named[0], nil
	}
	return nil, nil
}

// requireRequired enforces the mandatory-role rule: a field selected
// for a mandatory geometry or date role must carry required=true.
func requireRequired(f *Field) error {
	if f == nil || f.Required() {
		return nil
	}
	return schemaErrorf(
		"The field named '%s' must have the 'required' constraint set to true.",
		f.Name,
	)
}

func joinFieldNames(fields []*Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
