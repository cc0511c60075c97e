package ioreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gaiaresources/biosys/pkg/errcode"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

// TestRead_CSV verifies basic CSV reading.
func TestRead_CSV(t *testing.T) {
	path := writeCSV(t,
		"Species Name,Count\nCanis lupus,3\nFelis catus,1\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Species Name", "Count"}, table.Headers)
	assert.Equal(t, [][]string{
		{"Canis lupus", "3"},
		{"Felis catus", "1"},
	}, table.Rows)
}

// TestRead_CSVHeaderTrim verifies headers are trimmed.
func TestRead_CSVHeaderTrim(t *testing.T) {
	path := writeCSV(t, " Species Name , Count \nCanis lupus,3\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Species Name", "Count"}, table.Headers)
}

// TestRead_CSVRaggedRows verifies short and long rows are padded and
// clipped to the header width.
func TestRead_CSVRaggedRows(t *testing.T) {
	path := writeCSV(t,
		"A,B,C\n1\n1,2,3,4\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"1", "", ""},
		{"1", "2", "3"},
	}, table.Rows)
}

// TestRead_CSVTrailingBlankColumns verifies empty columns on the
// right are dropped.
func TestRead_CSVTrailingBlankColumns(t *testing.T) {
	path := writeCSV(t, "A,B,,\n1,2,,\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, table.Headers)
	assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)
}

// TestRead_CSVBlankHeader verifies a blank header row is rejected.
func TestRead_CSVBlankHeader(t *testing.T) {
	path := writeCSV(t, ",,\n1,2,3\n")

	_, err := Read(path)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReaderHeaderError, gnErr.Code)
}

// TestRead_XLSX verifies basic XLSX reading.
func TestRead_XLSX(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"Species Name", "Count"},
		{"Canis lupus", 3},
		{"Felis catus", 1},
	})

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Species Name", "Count"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Canis lupus", "3"}, table.Rows[0])
}

// TestRead_UnsupportedExtension verifies format dispatch.
func TestRead_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))

	_, err := Read(path)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReaderFormatError, gnErr.Code)
}

// TestRead_MissingFile verifies open errors are reported.
func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReaderOpenError, gnErr.Code)
}

// TestTable_MapRows verifies the header-keyed row shape.
func TestTable_MapRows(t *testing.T) {
	table := &Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1", "x"}, {"2", "y"}},
	}

	rows := table.MapRows()
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"A": "1", "B": "x"}, rows[0])
	assert.Equal(t, map[string]any{"A": "2", "B": "y"}, rows[1])
}

// TestTable_Grid verifies the inference input shape.
func TestTable_Grid(t *testing.T) {
	table := &Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1", "x"}},
	}

	assert.Equal(t, [][]string{{"A", "B"}, {"1", "x"}}, table.Grid())
}
