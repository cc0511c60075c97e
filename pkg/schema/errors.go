package schema

import "fmt"

// SchemaError reports a structural problem with a schema: duplicate
// biosys tags, ambiguous column names, a missing mandatory role. It is
// fatal at schema registration time and never recoverable per row.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return e.Msg }

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// CastError reports a single cell value that cannot be coerced to the
// declared field type. Row-level and recoverable.
type CastError struct {
	Field string
	Msg   string
}

func (e *CastError) Error() string { return e.Msg }

func castErrorf(field, format string, args ...any) *CastError {
	return &CastError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// RequiredConstraintError reports a blank value in a required field.
// Row-level and recoverable.
type RequiredConstraintError struct {
	Field string
}

func (e *RequiredConstraintError) Error() string {
	return fmt.Sprintf("The field %q is required and the value is blank.", e.Field)
}

// GeometryError reports that no geometry source could be resolved for a
// row, or that a referenced site has no geometry. Row-level and
// recoverable.
type GeometryError struct {
	Msg string
}

func (e *GeometryError) Error() string { return e.Msg }

func geometryErrorf(format string, args ...any) *GeometryError {
	return &GeometryError{Msg: fmt.Sprintf(format, args...)}
}

// SpeciesError reports a row whose species identity columns are blank,
// ambiguous or refer to an unknown name id. Row-level and recoverable.
type SpeciesError struct {
	Msg string
}

func (e *SpeciesError) Error() string { return e.Msg }

func speciesErrorf(format string, args ...any) *SpeciesError {
	return &SpeciesError{Msg: fmt.Sprintf(format, args...)}
}
