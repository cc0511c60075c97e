package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSchema(t *testing.T, fields ...*FieldDescriptor) *Schema {
	t.Helper()
	s, err := New(&Descriptor{Fields: fields})
	require.NoError(t, err)
	return s
}

func TestNewSchemaNoFields(t *testing.T) {
	_, err := New(&Descriptor{})
	require.Error(t, err)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestSchemaFromJSON(t *testing.T) {
	data := []byte(`{
	  "fields": [
	    {"name": "Species Name", "type": "string",
	     "constraints": {"required": true}},
	    {"name": "Count", "type": "integer"}
	  ]
	}`)
	s, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Species Name", "Count"}, s.FieldNames())
	assert.Len(t, s.RequiredFields(), 1)
}

func TestForeignKeyParsing(t *testing.T) {
	data := []byte(`{
	  "fields": [{"name": "Site", "type": "string"}],
	  "foreignKeys": [
	    {"fields": "Site",
	     "reference": {"resource": "Site", "fields": "code"}}
	  ]
	}`)
	s, err := FromJSON(data)
	require.NoError(t, err)
	fk := s.ForeignKeyForModel("Site")
	require.NotNil(t, fk)
	assert.Equal(t, "Site", fk.DataField())
	assert.Equal(t, "code", fk.ModelField())
	assert.Nil(t, s.ForeignKeyForModel("Project"))
}

func TestValidateRow(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{Name: "Count", Type: TypeInteger},
		&FieldDescriptor{
			Name: "When", Type: TypeDate,
			Constraints: map[string]any{"required": true},
		},
	)
	errs := s.ValidateRow(map[string]any{"Count": "3", "When": "2018-02-01"})
	assert.Empty(t, errs)

	errs = s.ValidateRow(map[string]any{"Count": "3.5", "When": ""})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs["Count"], "whole number")

	errs = s.ValidateRow(map[string]any{"Mystery": "x"})
	assert.Contains(t, errs["Mystery"], "doesn't exist in the schema")
}

func TestCastRowCollectsAllErrors(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{Name: "Count", Type: TypeInteger},
		&FieldDescriptor{Name: "Weight", Type: TypeNumber},
	)
	_, errs := s.CastRow(map[string]any{"Count": "abc", "Weight": "xyz"}, false)
	assert.Len(t, errs, 2)
	assert.NotEmpty(t, errs["Count"])
	assert.NotEmpty(t, errs["Weight"])
}

func TestCastRowStrictMode(t *testing.T) {
	s := mkSchema(t, &FieldDescriptor{Name: "Count", Type: TypeInteger})
	row := map[string]any{"Count": "3", "Extra": "x"}

	out, errs := s.CastRow(row, false)
	assert.Empty(t, errs)
	assert.Equal(t, int64(3), out["Count"])
	_, present := out["Extra"]
	assert.False(t, present)

	_, errs = s.CastRow(row, true)
	require.Len(t, errs, 1)
	assert.Contains(t, errs["Extra"], "not declared in the schema")
}

func TestCastRowMissingColumnIsBlank(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{Name: "Count", Type: TypeInteger},
		&FieldDescriptor{
			Name: "Name", Type: TypeString,
			Constraints: map[string]any{"required": true},
		},
	)
	_, errs := s.CastRow(map[string]any{"Count": "1"}, false)
	require.Len(t, errs, 1)
	assert.Contains(t, errs["Name"], "required")
}

func TestDescriptorRoundTrip(t *testing.T) {
	s := mkSchema(t, &FieldDescriptor{
		Name: "When", Type: TypeDate, Format: "any",
		Biosys: &BiosysTag{Type: TagObservationDate},
	})
	out, err := s.Descriptor().JSON()
	require.NoError(t, err)
	again, err := FromJSON(out)
	require.NoError(t, err)
	require.Len(t, again.Fields, 1)
	require.NotNil(t, again.Fields[0].Descriptor().Biosys)
	assert.Equal(t, TagObservationDate, again.Fields[0].Descriptor().Biosys.Type)
	assert.Equal(t, "any", again.Fields[0].Format)
}
