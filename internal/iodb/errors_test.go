package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaiaresources/biosys/pkg/errcode"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	host := "localhost"
	port := 5432
	database := "test"
	user := "postgres"
	originalErr := errors.New("connection refused")

	err := ConnectionError(host, port, database, user,
		originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 8)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
}

// TestTableExistsCheckError_Structure verifies
// error structure.
func TestTableExistsCheckError_Structure(t *testing.T) {
	tableName := "test_table"
	originalErr := errors.New("check failed")

	err := TableExistsCheckError(tableName, originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBTableCheckError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 1)
	assert.Equal(t, tableName, gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestProjectNotFoundError_Structure verifies error structure.
func TestProjectNotFoundError_Structure(t *testing.T) {
	err := ProjectNotFoundError("Koala Count")

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.IngestProjectNotFoundError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "Koala Count", gnErr.Vars[0])
}

// TestAllErrors_ErrorWrapping verifies proper error
// wrapping.
func TestAllErrors_ErrorWrapping(t *testing.T) {
	originalErr := errors.New("root cause")

	tests := []struct {
		name  string
		error error
	}{
		{
			name: "ConnectionError",
			error: ConnectionError("host", 5432, "db", "user",
				originalErr),
		},
		{
			name:  "TableCheckError",
			error: TableCheckError(originalErr),
		},
		{
			name:  "TableExistsCheckError",
			error: TableExistsCheckError("table", originalErr),
		},
		{
			name:  "QueryError",
			error: QueryError("records", originalErr),
		},
		{
			name:  "InsertError",
			error: InsertError("records", originalErr),
		},
		{
			name:  "DropTableError",
			error: DropTableError("table", originalErr),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr := tt.error.(*gn.Error)
			assert.ErrorIs(t, gnErr.Err, originalErr,
				"Should wrap original error")
		})
	}
}
