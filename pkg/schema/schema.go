package schema

import (
	"fmt"
	"sort"
)

// Schema is an ordered collection of fields parsed from a descriptor.
// Field order is column order and is preserved for export.
type Schema struct {
	Fields      []*Field
	ForeignKeys []*ForeignKey

	descriptor *Descriptor
}

// ForeignKey is a parsed foreign key declaration.
type ForeignKey struct {
	Fields          []string
	Model           string
	ReferenceFields []string
}

// DataField returns the schema column holding the reference, or "".
func (fk *ForeignKey) DataField() string {
	if len(fk.Fields) == 0 {
		return ""
	}
	return fk.Fields[0]
}

// ModelField returns the referenced model attribute, or "".
func (fk *ForeignKey) ModelField() string {
	if len(fk.ReferenceFields) == 0 {
		return ""
	}
	return fk.ReferenceFields[0]
}

// New builds a Schema from a descriptor. Construction fails with a
// SchemaError when any field is invalid.
func New(d *Descriptor) (*Schema, error) {
	if d == nil || len(d.Fields) == 0 {
		return nil, schemaErrorf("The schema has no fields.")
	}
	fields := make([]*Field, 0, len(d.Fields))
	for _, fd := range d.Fields {
		f, err := NewField(fd)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	var fks []*ForeignKey
	for _, fkd := range d.ForeignKeys {
		fks = append(fks, &ForeignKey{
			Fields:          fkd.Fields,
			Model:           fkd.Reference.Resource,
			ReferenceFields: fkd.Reference.Fields,
		})
	}
	return &Schema{Fields: fields, ForeignKeys: fks, descriptor: d}, nil
}

// FromJSON builds a Schema from a JSON descriptor.
func FromJSON(data []byte) (*Schema, error) {
	d, err := ParseDescriptor(data)
	if err != nil {
		return nil, err
	}
	return New(d)
}

// Descriptor returns the descriptor the schema was built from.
func (s *Schema) Descriptor() *Descriptor { return s.descriptor }

// FieldNames returns the column names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Headers is an alias for FieldNames, matching spreadsheet vocabulary.
func (s *Schema) Headers() []string { return s.FieldNames() }

// RequiredFields returns the fields carrying the required constraint.
func (s *Schema) RequiredFields() []*Field {
	var req []*Field
	for _, f := range s.Fields {
		if f.Required() {
			req = append(req, f)
		}
	}
	return req
}

// FieldByName returns the field with the exact declared name, or nil.
// Duplicate names are resolved through the tag resolver, not here.
func (s *Schema) FieldByName(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (s *Schema) fieldsByTag(tag string) []*Field {
	var fields []*Field
	for _, f := range s.Fields {
		if f.HasTag(tag) {
			fields = append(fields, f)
		}
	}
	return fields
}

func (s *Schema) fieldsByName(name string, icase bool) []*Field {
	var fields []*Field
	for _, f := range s.Fields {
		if f.MatchesName(name, icase) {
			fields = append(fields, f)
		}
	}
	return fields
}

// ForeignKeyForModel returns the foreign key targeting a model, or nil.
func (s *Schema) ForeignKeyForModel(model string) *ForeignKey {
	for _, fk := range s.ForeignKeys {
		if fk.Model == model {
			return fk
		}
	}
	return nil
}

// FieldValidationError validates one cell. An unknown column name is an
// error in its own right.
func (s *Schema) FieldValidationError(name string, value any) (string, error) {
	f := s.FieldByName(name)
	if f == nil {
		return "", fmt.Errorf(
			"The field %q doesn't exist in the schema. Should be one of %v",
			name, s.FieldNames(),
		)
	}
	return f.ValidationError(value), nil
}

// ValidateRow validates every cell of a row and returns the error
// message per column. Unknown columns are reported as errors too.
func (s *Schema) ValidateRow(row map[string]any) map[string]string {
	errs := map[string]string{}
	for name, value := range row {
		msg, err := s.FieldValidationError(name, value)
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		if msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// IsRowValid reports whether a row has no validation errors.
func (s *Schema) IsRowValid(row map[string]any) bool {
	return len(s.ValidateRow(row)) == 0
}

// CastRow casts every declared column of a row, collecting all field
// errors instead of stopping at the first. In strict mode a column not
// declared in the schema fails the row; otherwise unknown columns are
// dropped silently.
func (s *Schema) CastRow(row map[string]any, strict bool) (map[string]any, map[string]string) {
	out := make(map[string]any, len(s.Fields))
	errs := map[string]string{}
	for _, f := range s.Fields {
		value, ok := row[f.Name]
		if !ok {
			value = nil
		}
		casted, err := f.Cast(value)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		out[f.Name] = casted
	}
	if strict {
		var unknown []string
		for name := range row {
			if s.FieldByName(name) == nil {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			errs[name] = fmt.Sprintf("The column %q is not declared in the schema.", name)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
