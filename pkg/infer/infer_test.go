package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaiaresources/biosys/pkg/infer"
	"github.com/gaiaresources/biosys/pkg/models"
	"github.com/gaiaresources/biosys/pkg/schema"
)

func TestInferColumnTypes(t *testing.T) {
	rows := [][]string{
		{"Name", "Age", "Weight", "Seen", "When"},
		{"Bob", "30", "65.5", "yes", "29/07/2016"},
		{"Alice", "25", "52.1", "no", "01/12/2016"},
		{"Eve", "41", "70", "yes", "13/03/2017"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)

	types := map[string]schema.FieldType{}
	formats := map[string]string{}
	for _, f := range res.Descriptor.Fields {
		types[f.Name] = f.Type
		formats[f.Name] = f.Format
	}
	assert.Equal(t, schema.TypeString, types["Name"])
	assert.Equal(t, schema.TypeInteger, types["Age"])
	assert.Equal(t, schema.TypeNumber, types["Weight"])
	assert.Equal(t, schema.TypeBoolean, types["Seen"])
	assert.Equal(t, schema.TypeDate, types["When"])
	assert.Equal(t, "any", formats["When"])
}

func TestInferMajorityWins(t *testing.T) {
	// Five integers beat two strings.
	rows := [][]string{
		{"Count"},
		{"1"}, {"2"}, {"3"}, {"4"}, {"5"}, {"lots"}, {"some"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, schema.TypeInteger, res.Descriptor.Fields[0].Type)

	// Two integers lose to five strings.
	rows = [][]string{
		{"Count"},
		{"1"}, {"2"}, {"lots"}, {"some"}, {"many"}, {"few"}, {"none at all"},
	}
	res, err = infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, schema.TypeString, res.Descriptor.Fields[0].Type)
}

func TestInferNumericBooleansStayNumeric(t *testing.T) {
	rows := [][]string{
		{"Count"},
		{"0"}, {"1"}, {"1"}, {"0"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, schema.TypeInteger, res.Descriptor.Fields[0].Type)
}

func TestInferBlankColumnIsString(t *testing.T) {
	rows := [][]string{
		{"Notes"},
		{""}, {"  "}, {},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, schema.TypeString, res.Descriptor.Fields[0].Type)
}

func TestInferGenericDataset(t *testing.T) {
	rows := [][]string{
		{"Name", "Age"},
		{"Bob", "30"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, models.DatasetTypeGeneric, res.DatasetType)
}

func TestInferObservationDataset(t *testing.T) {
	rows := [][]string{
		{"Observation Date", "Latitude", "Longitude", "Comments"},
		{"29/07/2016", "-32.0", "115.75", "short walk"},
		{"30/07/2016", "-32.01", "115.76", ""},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, models.DatasetTypeObservation, res.DatasetType)

	lat := res.Descriptor.FieldByName("Latitude")
	require.NotNil(t, lat)
	assert.Equal(t, schema.TypeNumber, lat.Type)
	require.NotNil(t, lat.Biosys)
	assert.Equal(t, schema.TagLatitude, lat.Biosys.Type)

	date := res.Descriptor.FieldByName("Observation Date")
	require.NotNil(t, date)
	assert.Equal(t, "any", date.Format)
}

func TestInferSpeciesObservationDataset(t *testing.T) {
	rows := [][]string{
		{"Observation Date", "Latitude", "Longitude", "Species Name"},
		{"29/07/2016", "-32.0", "115.75", "Canis lupus"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, models.DatasetTypeSpeciesObservation, res.DatasetType)

	name := res.Descriptor.FieldByName("Species Name")
	require.NotNil(t, name)
	require.NotNil(t, name.Biosys)
	assert.Equal(t, schema.TagSpeciesName, name.Biosys.Type)
}

func TestInferGenusSpeciesDataset(t *testing.T) {
	rows := [][]string{
		{"Observation Date", "Easting", "Northing", "Zone", "Genus", "Species"},
		{"29/07/2016", "381250", "6458175", "50", "Canis", "lupus"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)
	assert.Equal(t, models.DatasetTypeSpeciesObservation, res.DatasetType)

	zone := res.Descriptor.FieldByName("Zone")
	require.NotNil(t, zone)
	assert.Equal(t, schema.TypeInteger, zone.Type)
}

func TestInferRoundTrip(t *testing.T) {
	// The inferred descriptor is always valid input for dataset
	// creation.
	rows := [][]string{
		{"Name", "Age"},
		{"Bob", "30"},
	}
	res, err := infer.Infer(rows)
	require.NoError(t, err)

	data, err := res.Descriptor.JSON()
	require.NoError(t, err)
	s, err := schema.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, s.FieldNames())
}

func TestInferRejectsBlankHeader(t *testing.T) {
	_, err := infer.Infer([][]string{{"Name", ""}})
	require.Error(t, err)

	_, err = infer.Infer(nil)
	require.Error(t, err)
}
