// Package ioreader reads tabular field data from CSV and XLSX files.
// The first row holds the column headers; every other row is data.
package ioreader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a file's content after header normalization. Rows are
// padded to the header width so every cell is addressable.
type Table struct {
	// Path of the source file.
	Path string

	// Headers are the trimmed column headers.
	Headers []string

	// Rows are the data rows, header excluded.
	Rows [][]string
}

// Read loads a CSV or XLSX file. The format is decided by the file
// extension.
func Read(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		err := fmt.Errorf("unsupported extension %q", filepath.Ext(path))
		return nil, FormatError(path, err)
	}
}

// MapRows converts data rows to header-keyed maps, the shape the
// record pipeline consumes. Cells are kept as strings; the schema
// casts them later.
func (t *Table) MapRows() []map[string]any {
	rows := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]any, len(t.Headers))
		for col, header := range t.Headers {
			m[header] = row[col]
		}
		rows[i] = m
	}
	return rows
}

// Grid returns headers and data as one slice of rows, the shape
// schema inference consumes.
func (t *Table) Grid() [][]string {
	grid := make([][]string, 0, len(t.Rows)+1)
	grid = append(grid, t.Headers)
	grid = append(grid, t.Rows...)
	return grid
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Field counts vary in hand-edited files; padding happens later.
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil, HeaderError(path, err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, OpenError(path, err)
		}
		rows = append(rows, row)
	}
	return newTable(path, headers, rows)
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer f.Close()

	// Data lives on the first sheet.
	sheet := f.GetSheetName(0)
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, OpenError(path, err)
	}
	if len(all) == 0 {
		return nil, HeaderError(path, fmt.Errorf("sheet %q is empty", sheet))
	}
	return newTable(path, all[0], all[1:])
}

// newTable trims headers, drops trailing blank columns and pads every
// row to the header width.
func newTable(path string, headers []string, rows [][]string) (*Table, error) {
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	// Spreadsheets often carry empty columns to the right of the data.
	width := len(headers)
	for width > 0 && headers[width-1] == "" {
		width--
	}
	if width == 0 {
		return nil, HeaderError(path, fmt.Errorf("the header row is blank"))
	}
	headers = headers[:width]

	for i, row := range rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		case len(row) > width:
			rows[i] = row[:width]
		}
	}
	return &Table{Path: path, Headers: headers, Rows: rows}, nil
}
