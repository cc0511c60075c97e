package schema

import (
	"time"
)

// ObservationSchema is a schema with exactly one resolvable observation
// date and at least one geometry source. Both are resolved once, at
// construction; a schema failing either rule cannot back an observation
// dataset.
type ObservationSchema struct {
	*Schema
	ObservationDate *Field
	Geometry        *GeometryParser
}

// NewObservationSchema validates the observation contract over a
// generic schema.
func NewObservationSchema(s *Schema) (*ObservationSchema, error) {
	dateField, err := findObservationDateField(s)
	if err != nil {
		return nil, err
	}
	geometry := NewGeometryParser(s)
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	return &ObservationSchema{
		Schema:          s,
		ObservationDate: dateField,
		Geometry:        geometry,
	}, nil
}

// NewObservationSchemaFromJSON builds an observation schema straight
// from a JSON descriptor.
func NewObservationSchemaFromJSON(data []byte) (*ObservationSchema, error) {
	s, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	return NewObservationSchema(s)
}

// findObservationDateField resolves the observation date column.
// Precedence: a single required date field qualifies on its own; with
// several, the observationDate tag decides, then the canonical
// "Observation Date" name; anything else is a SchemaError.
func findObservationDateField(s *Schema) (*Field, error) {
	// Edge case first: a tagged observation date that is not required.
	for _, f := range s.fieldsByTag(TagObservationDate) {
		if !f.Required() {
			return nil, schemaErrorf(
				"A biosys observationDate with required=false detected. " +
					"It must be set required=true",
			)
		}
	}

	var requiredDates []*Field
	for _, f := range s.Fields {
		if (f.Type == TypeDate || f.Type == TypeDateTime) && f.Required() {
			requiredDates = append(requiredDates, f)
		}
	}
	switch len(requiredDates) {
	case 0:
		return nil, schemaErrorf(
			"One field must be of type 'date' with 'required': true " +
				"to be a valid Observation schema.",
		)
	case 1:
		return requiredDates[0], nil
	}

	var tagged []*Field
	for _, f := range requiredDates {
		if f.HasTag(TagObservationDate) {
			tagged = append(tagged, f)
		}
	}
	if len(tagged) == 1 {
		return tagged[0], nil
	}
	if len(tagged) > 1 {
		return nil, schemaErrorf(
			"The schema contains more than one field tagged as a " +
				"biosys type=observationDate",
		)
	}

	var named []*Field
	for _, f := range requiredDates {
		if f.Name == ObservationDateName {
			named = append(named, f)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	if len(named) > 1 {
		return nil, schemaErrorf(
			"The schema contains more than one field named Observation Date. " +
				"One should be tagged as a biosys type=observationDate",
		)
	}
	return nil, schemaErrorf(
		"The schema doesn't include a required Observation Date field. "+
			"It must have a field named %s or tagged with biosys type %s",
		ObservationDateName, TagObservationDate,
	)
}

// ObservationDateValue returns the raw row value of the date column.
func (s *ObservationSchema) ObservationDateValue(row map[string]any) any {
	return row[s.ObservationDate.Name]
}

// CastObservationDate casts the row's observation date. A blank value
// in the (required) date column fails per the field's own rules.
func (s *ObservationSchema) CastObservationDate(row map[string]any) (time.Time, error) {
	v, err := s.ObservationDate.Cast(row[s.ObservationDate.Name])
	if err != nil {
		return time.Time{}, err
	}
	if v == nil {
		return time.Time{}, nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, castErrorf(s.ObservationDate.Name,
			"The value %v is not a date.", v)
	}
	return t, nil
}
