package schema

import (
	"encoding/json"
	"strings"
)

// Constraints wraps a field's constraint map with typed accessors.
// Unknown keys are carried through untouched.
type Constraints struct {
	data map[string]any
}

// NewConstraints wraps a raw constraint map; nil is an empty set.
func NewConstraints(data map[string]any) Constraints {
	return Constraints{data: data}
}

// Get returns a raw constraint value.
func (c Constraints) Get(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Required reports the required constraint, defaulting to false.
func (c Constraints) Required() bool {
	v, ok := c.data["required"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Minimum returns the minimum bound, if declared.
func (c Constraints) Minimum() (any, bool) {
	return c.Get("minimum")
}

// Maximum returns the maximum bound, if declared.
func (c Constraints) Maximum() (any, bool) {
	return c.Get("maximum")
}

// Enum returns the enum constraint as a list, or nil.
func (c Constraints) Enum() []any {
	v, ok := c.data["enum"]
	if !ok {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// Field is a schema column: it knows how to cast a raw cell value into
// a typed one and to validate it against the declared constraints.
type Field struct {
	Name        string
	Type        FieldType
	Format      string
	Constraints Constraints

	descriptor *FieldDescriptor
	tag        string
	aliases    []string
}

// NewField builds a Field from its descriptor. A descriptor without a
// name is rejected, matching the schema-registration contract.
func NewField(d *FieldDescriptor) (*Field, error) {
	if strings.TrimSpace(d.Name) == "" {
		raw, _ := json.Marshal(d)
		return nil, schemaErrorf("A field without a name: %s", string(raw))
	}
	typ := d.Type
	if typ == "" {
		typ = TypeAny
	}
	if !typ.valid() {
		return nil, schemaErrorf("The field %q has an unknown type %q.", d.Name, d.Type)
	}
	var tag string
	if d.Biosys != nil {
		tag = d.Biosys.Type
	}
	return &Field{
		Name:        d.Name,
		Type:        typ,
		Format:      d.Format,
		Constraints: NewConstraints(d.Constraints),
		descriptor:  d,
		tag:         tag,
		aliases:     d.Aliases,
	}, nil
}

// Descriptor returns the underlying field descriptor.
func (f *Field) Descriptor() *FieldDescriptor { return f.descriptor }

// Title returns the display title, if any.
func (f *Field) Title() string { return f.descriptor.Title }

// Required reports the required constraint.
func (f *Field) Required() bool { return f.Constraints.Required() }

// Tag returns the biosys type tag, or the empty string.
func (f *Field) Tag() string { return f.tag }

// HasTag reports whether the field carries the given biosys tag.
// Tag comparison is case-sensitive.
func (f *Field) HasTag(tag string) bool { return f.tag == tag }

// Aliases returns the declared alternate column names.
func (f *Field) Aliases() []string { return f.aliases }

// HasAlias reports whether name matches one of the aliases, optionally
// case-insensitively.
func (f *Field) HasAlias(name string, icase bool) bool {
	for _, alias := range f.aliases {
		if alias == name || (icase && strings.EqualFold(alias, name)) {
			return true
		}
	}
	return false
}

// MatchesName reports whether the field's declared name matches,
// optionally case-insensitively.
func (f *Field) MatchesName(name string, icase bool) bool {
	return f.Name == name || (icase && strings.EqualFold(f.Name, name))
}

// HasNameOrAlias reports whether the field is addressable by the given
// name, either directly or through an alias.
func (f *Field) HasNameOrAlias(name string, icase bool) bool {
	return f.MatchesName(name, icase) || f.HasAlias(name, icase)
}

func (f *Field) String() string { return f.Name }
