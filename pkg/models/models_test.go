package models_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormschema "gorm.io/gorm/schema"

	"github.com/gaiaresources/biosys/pkg/models"
)

// parseModel resolves the schema GORM AutoMigrate will create for a
// model.
func parseModel(t *testing.T, model interface{}) *gormschema.Schema {
	t.Helper()
	s, err := gormschema.Parse(model, &sync.Map{},
		gormschema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func findIndex(s *gormschema.Schema, name string) *gormschema.Index {
	for _, idx := range s.ParseIndexes() {
		if idx.Name == name {
			return idx
		}
	}
	return nil
}

func indexColumns(idx *gormschema.Index) []string {
	var cols []string
	for _, f := range idx.Fields {
		cols = append(cols, f.DBName)
	}
	return cols
}

func TestProjectSchema(t *testing.T) {
	s := parseModel(t, &models.Project{})

	assert.Equal(t, "projects", s.Table)
	assert.Contains(t, s.FieldsByDBName, "datum_srid")
	assert.Contains(t, s.FieldsByDBName, "attributes")

	idx := findIndex(s, "idx_projects_name")
	require.NotNil(t, idx, "Project name should carry a unique index")
	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, []string{"name"}, indexColumns(idx))
}

// TestSiteSchema verifies the migrated sites table carries the unique
// index the site upsert resolves its ON CONFLICT clause against.
func TestSiteSchema(t *testing.T) {
	s := parseModel(t, &models.Site{})

	assert.Equal(t, "sites", s.Table)

	idx := findIndex(s, "idx_sites_project_code")
	require.NotNil(t, idx,
		"Sites need a unique index for the upsert conflict target")
	assert.Equal(t, "UNIQUE", idx.Class,
		"ON CONFLICT (project_id, code) requires a unique index")
	assert.Equal(t, []string{"project_id", "code"}, indexColumns(idx))
}

func TestDatasetSchema(t *testing.T) {
	s := parseModel(t, &models.Dataset{})

	assert.Equal(t, "datasets", s.Table)
	assert.Contains(t, s.FieldsByDBName, "data_package")

	idx := findIndex(s, "idx_datasets_project_name")
	require.NotNil(t, idx,
		"Dataset names should be unique within a project")
	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, []string{"project_id", "name"}, indexColumns(idx))

	typeIdx := findIndex(s, "idx_datasets_type")
	require.NotNil(t, typeIdx)
	assert.NotEqual(t, "UNIQUE", typeIdx.Class)
}

func TestRecordSchema(t *testing.T) {
	s := parseModel(t, &models.Record{})

	assert.Equal(t, "records", s.Table)
	for _, col := range []string{
		"data", "datetime", "geometry", "geometry_source",
		"species_name", "name_id", "source_info", "validated", "locked",
	} {
		assert.Contains(t, s.FieldsByDBName, col)
	}

	for _, name := range []string{
		"idx_records_dataset", "idx_records_site",
		"idx_records_datetime", "idx_records_species_name",
		"idx_records_name_id",
	} {
		idx := findIndex(s, name)
		require.NotNil(t, idx, name)
		assert.NotEqual(t, "UNIQUE", idx.Class, name)
	}
}

// TestAllModelsParse verifies every migrated model resolves to its
// expected table.
func TestAllModelsParse(t *testing.T) {
	tables := make([]string, 0, 4)
	for _, model := range models.AllModels() {
		s := parseModel(t, model)
		tables = append(tables, s.Table)
	}
	assert.Equal(t,
		[]string{"projects", "sites", "datasets", "records"}, tables)
}

func TestValidDatasetType(t *testing.T) {
	for _, v := range []string{
		models.DatasetTypeGeneric,
		models.DatasetTypeObservation,
		models.DatasetTypeSpeciesObservation,
	} {
		assert.True(t, models.ValidDatasetType(v), v)
	}
	assert.False(t, models.ValidDatasetType("spreadsheet"))
	assert.False(t, models.ValidDatasetType(""))
}
