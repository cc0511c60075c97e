package ingest

import (
	"errors"
	"fmt"

	"github.com/gaiaresources/biosys/pkg/schema"
	"github.com/gaiaresources/biosys/pkg/species"
)

// RowValidator validates one data row against a dataset's schema.
type RowValidator interface {
	ValidateRow(row map[string]any) ValidationResult
}

// GenericValidator checks every cell against its field. Cell problems
// are warnings by default; a generic dataset accepts a row with a bad
// cell and lets a curator sort it out later.
type GenericValidator struct {
	schema       *schema.Schema
	errAsWarning bool
	strict       bool
}

// NewGenericValidator builds the validator for a generic dataset.
func NewGenericValidator(s *schema.Schema, strict bool) *GenericValidator {
	return &GenericValidator{schema: s, errAsWarning: true, strict: strict}
}

func (v *GenericValidator) ValidateRow(row map[string]any) ValidationResult {
	result := NewValidationResult()
	for _, f := range v.schema.Fields {
		value, ok := row[f.Name]
		if !ok {
			value = nil
		}
		msg := f.ValidationError(value)
		if msg == "" {
			continue
		}
		if v.errAsWarning {
			result.AddWarning(f.Name, msg)
		} else {
			result.AddError(f.Name, msg)
		}
	}
	if v.strict {
		for name := range row {
			if v.schema.FieldByName(name) == nil {
				result.AddError(name, fmt.Sprintf(
					"The column %q is not declared in the schema.", name))
			}
		}
	}
	return result
}

// ObservationValidator hardens the observation date and geometry
// columns: their warnings become errors, and the cross-column casts
// (a row with no geometry source, an invalid datum, a missing site)
// are checked on top of the per-cell pass.
type ObservationValidator struct {
	*GenericValidator
	obs         *schema.ObservationSchema
	sites       schema.SiteResolver
	defaultSRID int
}

// NewObservationValidator builds the validator for an observation
// dataset.
func NewObservationValidator(
	obs *schema.ObservationSchema, sites schema.SiteResolver,
	defaultSRID int, strict bool,
) *ObservationValidator {
	return &ObservationValidator{
		GenericValidator: NewGenericValidator(obs.Schema, strict),
		obs:              obs,
		sites:            sites,
		defaultSRID:      defaultSRID,
	}
}

func (v *ObservationValidator) ValidateRow(row map[string]any) ValidationResult {
	result := v.GenericValidator.ValidateRow(row)
	v.validateObservation(row, &result)
	return result
}

func (v *ObservationValidator) validateObservation(
	row map[string]any, result *ValidationResult,
) {
	result.Promote(v.observationColumns()...)

	if _, err := v.obs.CastObservationDate(row); err != nil {
		result.AddError(errorColumn(err, v.obs.ObservationDate.Name), err.Error())
	}
	if _, _, err := v.obs.Geometry.CastGeometrySource(row, v.defaultSRID, v.sites); err != nil {
		result.AddError(errorColumn(err, v.geometryColumn()), err.Error())
	}
}

func (v *ObservationValidator) observationColumns() []string {
	cols := []string{v.obs.ObservationDate.Name}
	for _, f := range v.obs.Geometry.ActiveFields() {
		cols = append(cols, f.Name)
	}
	return cols
}

func (v *ObservationValidator) geometryColumn() string {
	fields := v.obs.Geometry.ActiveFields()
	if len(fields) == 0 {
		return "Geometry"
	}
	return fields[0].Name
}

// SpeciesObservationValidator adds the species identity checks: the
// species columns harden, a row needs a species name or a name id, and
// a name id must exist in the species list.
type SpeciesObservationValidator struct {
	*ObservationValidator
	sp    *schema.SpeciesObservationSchema
	names *species.NameMap
}

// NewSpeciesObservationValidator builds the validator for a species
// observation dataset. A nil name map skips the name id existence
// check.
func NewSpeciesObservationValidator(
	sp *schema.SpeciesObservationSchema, sites schema.SiteResolver,
	names *species.NameMap, defaultSRID int, strict bool,
) *SpeciesObservationValidator {
	return &SpeciesObservationValidator{
		ObservationValidator: NewObservationValidator(
			sp.ObservationSchema, sites, defaultSRID, strict,
		),
		sp:    sp,
		names: names,
	}
}

func (v *SpeciesObservationValidator) ValidateRow(row map[string]any) ValidationResult {
	result := v.GenericValidator.ValidateRow(row)
	v.validateObservation(row, &result)
	v.validateSpecies(row, &result)
	return result
}

func (v *SpeciesObservationValidator) validateSpecies(
	row map[string]any, result *ValidationResult,
) {
	var cols []string
	for _, f := range v.sp.Species.ActiveFields() {
		cols = append(cols, f.Name)
	}
	result.Promote(cols...)

	speciesCol := v.speciesColumn()

	id, hasID, err := v.sp.CastNameID(row)
	if err != nil {
		result.AddError(errorColumn(err, speciesCol), err.Error())
		return
	}
	if hasID {
		if v.names != nil {
			if _, known := v.names.NameByID(id); !known {
				result.AddError(v.sp.Species.NameID.Name, fmt.Sprintf(
					"The Name Id %d doesn't exist in the species list.", id))
			}
		}
		return
	}

	name, err := v.sp.CastSpeciesName(row)
	if err != nil {
		result.AddError(errorColumn(err, speciesCol), err.Error())
		return
	}
	if name == "" {
		result.AddError(speciesCol,
			"The row has no species name and no name id.")
	}
}

func (v *SpeciesObservationValidator) speciesColumn() string {
	fields := v.sp.Species.ActiveFields()
	if len(fields) == 0 {
		return "Species Name"
	}
	return fields[0].Name
}

// errorColumn keys a cross-column error: field-carrying errors go to
// their own column, anything else to the fallback.
func errorColumn(err error, fallback string) string {
	var castErr *schema.CastError
	if errors.As(err, &castErr) {
		return castErr.Field
	}
	var reqErr *schema.RequiredConstraintError
	if errors.As(err, &reqErr) {
		return reqErr.Field
	}
	return fallback
}
