package schema

import (
	"encoding/json"
	"fmt"

	"github.com/gnames/gnfmt"
)

// FieldType is the closed set of column types a schema can declare.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypeAny      FieldType = "any"
)

func (t FieldType) valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean,
		TypeDate, TypeDateTime, TypeAny:
		return true
	}
	return false
}

// Descriptor is the JSON shape of a table schema: an ordered list of
// field descriptors plus optional foreign key declarations, following
// the JSON Table Schema convention extended with the biosys namespace.
type Descriptor struct {
	Fields      []*FieldDescriptor      `json:"fields"`
	ForeignKeys []*ForeignKeyDescriptor `json:"foreignKeys,omitempty"`
}

// FieldDescriptor describes one column: declared type, format,
// constraints and the optional biosys tag naming its semantic role.
type FieldDescriptor struct {
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Type        FieldType      `json:"type,omitempty"`
	Format      string         `json:"format,omitempty"`
	Constraints map[string]any `json:"constraints,omitempty"`
	Biosys      *BiosysTag     `json:"biosys,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
}

// BiosysTag is the biosys extension on a field descriptor:
//
//	{"biosys": {"type": "observationDate"}}
type BiosysTag struct {
	Type string `json:"type,omitempty"`
}

// ForeignKeyDescriptor declares that a schema field references another
// resource, e.g. the Site model by its code.
type ForeignKeyDescriptor struct {
	Fields    StringList          `json:"fields"`
	Reference ReferenceDescriptor `json:"reference"`
}

// ReferenceDescriptor is the target of a foreign key.
type ReferenceDescriptor struct {
	Resource string     `json:"resource"`
	Fields   StringList `json:"fields"`
}

// StringList unmarshals from either a JSON string or an array of
// strings; both spellings occur in the wild.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = StringList(many)
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(l))
}

// ParseDescriptor decodes a JSON schema descriptor.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	enc := gnfmt.GNjson{}
	var d Descriptor
	if err := enc.Decode(data, &d); err != nil {
		return nil, fmt.Errorf("cannot decode schema descriptor: %w", err)
	}
	return &d, nil
}

// JSON encodes the descriptor, pretty-printed for round-tripping back
// into dataset creation.
func (d *Descriptor) JSON() ([]byte, error) {
	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(d)
	if err != nil {
		return nil, fmt.Errorf("cannot encode schema descriptor: %w", err)
	}
	return out, nil
}

// FieldByName returns the first descriptor with the given name, or nil.
func (d *Descriptor) FieldByName(name string) *FieldDescriptor {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// SetRequired sets the required constraint on a field descriptor.
func (f *FieldDescriptor) SetRequired(required bool) {
	if f.Constraints == nil {
		f.Constraints = map[string]any{}
	}
	f.Constraints["required"] = required
}

// SetTag sets the biosys type tag on a field descriptor.
func (f *FieldDescriptor) SetTag(tag string) {
	f.Biosys = &BiosysTag{Type: tag}
}
