// Package ingest turns validated data rows into records. It carries the
// row validators and the record creation pipeline shared by uploads and
// validate-only runs.
package ingest

// ValidationResult collects the problems of one row, keyed by column
// name. Warnings describe values the engine can live with; errors
// reject the row.
type ValidationResult struct {
	Errors   map[string]string
	Warnings map[string]string
}

// NewValidationResult returns an empty result.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		Errors:   map[string]string{},
		Warnings: map[string]string{},
	}
}

// AddError records an error for a column. The first message per column
// wins.
func (r *ValidationResult) AddError(column, msg string) {
	if _, ok := r.Errors[column]; !ok {
		r.Errors[column] = msg
	}
}

// AddWarning records a warning for a column.
func (r *ValidationResult) AddWarning(column, msg string) {
	if _, ok := r.Warnings[column]; !ok {
		r.Warnings[column] = msg
	}
}

// Merge folds another result into this one.
func (r *ValidationResult) Merge(other ValidationResult) {
	for col, msg := range other.Errors {
		r.AddError(col, msg)
	}
	for col, msg := range other.Warnings {
		r.AddWarning(col, msg)
	}
}

// Promote turns the warnings on the given columns into errors. The
// typed schemas use it to harden the columns their contract depends on.
func (r *ValidationResult) Promote(columns ...string) {
	for _, col := range columns {
		if msg, ok := r.Warnings[col]; ok {
			delete(r.Warnings, col)
			r.AddError(col, msg)
		}
	}
}

// HasErrors reports whether the row must be rejected.
func (r ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// IsValid reports whether the row is clean: no errors and no warnings.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}
