package schema

import (
	"fmt"
	"strings"
)

// SpeciesCapability classifies how a schema can identify a species.
type SpeciesCapability int

const (
	SpeciesUnresolved SpeciesCapability = iota
	SpeciesNameOnly
	GenusSpecies
	NameIDOnly
	SpeciesNameAndNameID
	GenusSpeciesAndNameID
)

func (c SpeciesCapability) String() string {
	switch c {
	case SpeciesNameOnly:
		return "species name"
	case GenusSpecies:
		return "genus/species"
	case NameIDOnly:
		return "name id"
	case SpeciesNameAndNameID:
		return "species name and name id"
	case GenusSpeciesAndNameID:
		return "genus/species and name id"
	default:
		return "unresolved"
	}
}

// SpeciesNameParser resolves the species identity columns of a schema:
// a single "Species Name" column, a Genus+Species pair with optional
// infraspecific rank and name, and an optional "Name Id" column.
type SpeciesNameParser struct {
	SpeciesName *Field
	Genus       *Field
	Species     *Field
	InfraRank   *Field
	InfraName   *Field
	NameID      *Field

	errs []error
}

// NewSpeciesNameParser resolves the species columns. Like the geometry
// parser it collects resolution errors so inference can probe;
// Validate reports them.
func NewSpeciesNameParser(s *Schema) *SpeciesNameParser {
	p := &SpeciesNameParser{}
	p.SpeciesName = p.resolve(s, TagSpeciesName, SpeciesNameName)
	p.Genus = p.resolve(s, TagGenus, GenusName)
	p.Species = p.resolve(s, TagSpecies, SpeciesColumnName)
	p.InfraRank = p.resolve(s, TagInfraRank, InfraRankName)
	p.InfraName = p.resolve(s, TagInfraName, InfraNameName)
	p.NameID = p.resolveNameID(s)

	// The tagged Species Name field wins outright; untagged genus and
	// species columns are then plain data attributes.
	if p.SpeciesName != nil && p.SpeciesName.HasTag(TagSpeciesName) &&
		p.HasGenusAndSpecies() &&
		!p.Genus.HasTag(TagGenus) && !p.Species.HasTag(TagSpecies) {
		p.Genus = nil
		p.Species = nil
		p.InfraRank = nil
		p.InfraName = nil
	}

	if p.IsSpeciesNameOnly() {
		p.requireAll(p.SpeciesName)
	}
	if p.IsGenusAndSpeciesOnly() {
		p.requireAll(p.Genus, p.Species)
	}
	return p
}

func (p *SpeciesNameParser) resolve(s *Schema, tag, canonical string) *Field {
	f, err := s.FieldByTagOrName(tag, canonical, false)
	if err != nil {
		p.errs = append(p.errs, err)
		return nil
	}
	return f
}

// resolveNameID finds the "Name Id" column. There is no biosys tag for
// it; the canonical name match is case-insensitive since the id column
// comes straight from the naming service exports.
func (p *SpeciesNameParser) resolveNameID(s *Schema) *Field {
	named := s.fieldsByName(NameIDName, true)
	if len(named) > 1 {
		p.errs = append(p.errs, schemaErrorf(
			"More than one field named %s found.", NameIDName))
		return nil
	}
	if len(named) == 1 {
		return named[0]
	}
	return nil
}

func (p *SpeciesNameParser) requireAll(fields ...*Field) {
	// A name id column makes the name columns optional.
	if p.HasNameID() {
		return
	}
	for _, f := range fields {
		if f != nil && !f.Required() {
			p.errs = append(p.errs, schemaErrorf(
				"The field named '%s' must have the 'required' constraint set to true.",
				f.Name,
			))
		}
	}
}

// HasSpeciesName reports whether a species name column resolved.
func (p *SpeciesNameParser) HasSpeciesName() bool { return p.SpeciesName != nil }

// HasGenusAndSpecies reports whether both genus and species resolved.
func (p *SpeciesNameParser) HasGenusAndSpecies() bool {
	return p.Genus != nil && p.Species != nil
}

// HasNameID reports whether a name id column resolved.
func (p *SpeciesNameParser) HasNameID() bool { return p.NameID != nil }

// IsSpeciesNameOnly reports the species name column as the only name
// source.
func (p *SpeciesNameParser) IsSpeciesNameOnly() bool {
	return p.HasSpeciesName() && !p.HasGenusAndSpecies()
}

// IsGenusAndSpeciesOnly reports the genus/species pair as the only name
// source.
func (p *SpeciesNameParser) IsGenusAndSpeciesOnly() bool {
	return p.HasGenusAndSpecies() && !p.HasSpeciesName()
}

// Capability returns the classified species identity capability.
func (p *SpeciesNameParser) Capability() SpeciesCapability {
	switch {
	case p.HasSpeciesName() && p.HasNameID():
		return SpeciesNameAndNameID
	case p.HasGenusAndSpecies() && p.HasNameID():
		return GenusSpeciesAndNameID
	case p.HasSpeciesName():
		return SpeciesNameOnly
	case p.HasGenusAndSpecies():
		return GenusSpecies
	case p.HasNameID():
		return NameIDOnly
	default:
		return SpeciesUnresolved
	}
}

// Validate returns the classification error, if any.
func (p *SpeciesNameParser) Validate() error {
	if len(p.errs) > 0 {
		return p.errs[0]
	}
	if p.Genus != nil && p.Species == nil {
		return schemaErrorf(
			"The schema has a Genus field but no Species field.")
	}
	if p.Species != nil && p.Genus == nil {
		return schemaErrorf(
			"The schema has a Species field but no Genus field.")
	}
	if p.Capability() == SpeciesUnresolved {
		return schemaErrorf(
			"The schema doesn't include a required 'Species Name' field. "+
				"It must have a field named %s or tagged with biosys type %s, "+
				"or Genus and Species fields, or a %s field.",
			SpeciesNameName, TagSpeciesName, NameIDName,
		)
	}
	return nil
}

// ActiveFields returns every resolved species identity field.
func (p *SpeciesNameParser) ActiveFields() []*Field {
	var fields []*Field
	for _, f := range []*Field{
		p.SpeciesName, p.Genus, p.Species, p.InfraRank, p.InfraName, p.NameID,
	} {
		if f != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// CastSpeciesName extracts the row's species name. A species name
// column wins over genus/species composition; the composite form joins
// the non-blank, trimmed parts with single spaces.
func (p *SpeciesNameParser) CastSpeciesName(row map[string]any) (string, error) {
	if p.HasSpeciesName() {
		v, err := p.SpeciesName.Cast(row[p.SpeciesName.Name])
		if err != nil {
			return "", err
		}
		if v == nil {
			return "", nil
		}
		return strings.TrimSpace(fmt.Sprint(v)), nil
	}
	if p.HasGenusAndSpecies() {
		return p.castCompositeName(row)
	}
	return "", nil
}

func (p *SpeciesNameParser) castCompositeName(row map[string]any) (string, error) {
	var parts []string
	for _, f := range []*Field{p.Genus, p.Species, p.InfraRank, p.InfraName} {
		if f == nil {
			continue
		}
		v, err := f.Cast(row[f.Name])
		if err != nil {
			return "", err
		}
		if v == nil {
			continue
		}
		part := strings.TrimSpace(fmt.Sprint(v))
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " "), nil
}

// CastNameID extracts the row's name id; ok is false when the column is
// absent or blank.
func (p *SpeciesNameParser) CastNameID(row map[string]any) (int64, bool, error) {
	if !p.HasNameID() {
		return 0, false, nil
	}
	v, err := p.NameID.Cast(row[p.NameID.Name])
	if err != nil {
		return 0, false, err
	}
	if v == nil {
		return 0, false, nil
	}
	id, ok := v.(int64)
	if !ok {
		return 0, false, castErrorf(p.NameID.Name,
			"The value %v is not a name id.", v)
	}
	return id, true, nil
}

// SpeciesObservationSchema is an observation schema that can also
// resolve a species identity from each row.
type SpeciesObservationSchema struct {
	*ObservationSchema
	Species *SpeciesNameParser
}

// NewSpeciesObservationSchema validates the species observation
// contract over a generic schema.
func NewSpeciesObservationSchema(s *Schema) (*SpeciesObservationSchema, error) {
	obs, err := NewObservationSchema(s)
	if err != nil {
		return nil, err
	}
	parser := NewSpeciesNameParser(s)
	if err := parser.Validate(); err != nil {
		return nil, err
	}
	return &SpeciesObservationSchema{
		ObservationSchema: obs,
		Species:           parser,
	}, nil
}

// NewSpeciesObservationSchemaFromJSON builds a species observation
// schema straight from a JSON descriptor.
func NewSpeciesObservationSchemaFromJSON(data []byte) (*SpeciesObservationSchema, error) {
	s, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	return NewSpeciesObservationSchema(s)
}

// CastSpeciesName delegates to the species name parser.
func (s *SpeciesObservationSchema) CastSpeciesName(row map[string]any) (string, error) {
	return s.Species.CastSpeciesName(row)
}

// CastNameID delegates to the species name parser.
func (s *SpeciesObservationSchema) CastNameID(row map[string]any) (int64, bool, error) {
	return s.Species.CastNameID(row)
}
