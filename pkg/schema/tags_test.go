package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldByTag(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{
			Name: "Lat", Type: TypeNumber,
			Biosys: &BiosysTag{Type: TagLatitude},
		},
		&FieldDescriptor{Name: "Latitude", Type: TypeNumber},
	)
	f, err := s.FieldByTag(TagLatitude)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Lat", f.Name)

	f, err = s.FieldByTag(TagLongitude)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFieldByTagDuplicates(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{
			Name: "Lat", Type: TypeNumber,
			Biosys: &BiosysTag{Type: TagLatitude},
		},
		&FieldDescriptor{
			Name: "Y", Type: TypeNumber,
			Biosys: &BiosysTag{Type: TagLatitude},
		},
	)
	_, err := s.FieldByTag(TagLatitude)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "More than one Biosys type latitude field")
	assert.Contains(t, err.Error(), "Lat")
	assert.Contains(t, err.Error(), "Y")
}

func TestFieldByTagOrNameTagWins(t *testing.T) {
	// The tagged field beats the field named Latitude.
	s := mkSchema(t,
		&FieldDescriptor{
			Name: "The Y", Type: TypeNumber,
			Biosys: &BiosysTag{Type: TagLatitude},
		},
		&FieldDescriptor{Name: "Latitude", Type: TypeNumber},
	)
	f, err := s.FieldByTagOrName(TagLatitude, LatitudeName, false)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "The Y", f.Name)
}

func TestFieldByTagOrNameFallsBackToName(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{Name: "Latitude", Type: TypeNumber},
		&FieldDescriptor{Name: "Comments", Type: TypeString},
	)
	f, err := s.FieldByTagOrName(TagLatitude, LatitudeName, false)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Latitude", f.Name)
}

func TestFieldByTagOrNameAmbiguousName(t *testing.T) {
	s := mkSchema(t,
		&FieldDescriptor{Name: "Datum", Type: TypeString},
		&FieldDescriptor{Name: "DATUM", Type: TypeString},
	)
	_, err := s.FieldByTagOrName(TagDatum, DatumName, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "More than one field named Datum")
}

func TestFieldByTagOrNameCaseSensitivity(t *testing.T) {
	s := mkSchema(t, &FieldDescriptor{Name: "LATITUDE", Type: TypeNumber})

	// Latitude resolves case-sensitively, so LATITUDE does not match.
	f, err := s.FieldByTagOrName(TagLatitude, LatitudeName, false)
	require.NoError(t, err)
	assert.Nil(t, f)

	// Datum-style roles resolve case-insensitively.
	f, err = s.FieldByTagOrName(TagLatitude, LatitudeName, true)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "LATITUDE", f.Name)
}

func TestFieldByTagOrNameMissingIsNil(t *testing.T) {
	s := mkSchema(t, &FieldDescriptor{Name: "Comments", Type: TypeString})
	f, err := s.FieldByTagOrName(TagSiteCode, SiteCodeName, true)
	require.NoError(t, err)
	assert.Nil(t, f)
}
