package ingest

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Summary reports the outcome of one ingestion or validation run.
type Summary struct {
	// Rows is the number of data rows read from the source.
	Rows int
	// Created is the number of records written.
	Created int
	// Rejected is the number of rows that failed validation.
	Rejected int
	// Warnings is the number of rows accepted with warnings.
	Warnings int
	// RowErrors keeps the problems of rejected rows keyed by the row
	// number as it appears in the source file.
	RowErrors map[int]map[string]string
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{RowErrors: map[int]map[string]string{}}
}

// AddRow folds the outcome of one row into the summary. rowNum is the
// row's number in the source file, header included.
func (s *Summary) AddRow(rowNum int, result ValidationResult, created bool) {
	s.Rows++
	if created {
		s.Created++
	}
	if result.HasErrors() {
		s.Rejected++
		s.RowErrors[rowNum] = result.Errors
	}
	if len(result.Warnings) > 0 {
		s.Warnings++
	}
}

// String renders the summary for the command line.
func (s *Summary) String() string {
	return fmt.Sprintf(
		"%s rows processed, %s records created, %s rejected, %s with warnings",
		humanize.Comma(int64(s.Rows)),
		humanize.Comma(int64(s.Created)),
		humanize.Comma(int64(s.Rejected)),
		humanize.Comma(int64(s.Warnings)),
	)
}
