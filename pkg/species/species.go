// Package species resolves species names against a naming service.
// Lookup is pure computation over a fetched name list; fetching the
// list is I/O and lives behind the Facade interface.
package species

import (
	"context"
	"strings"
)

// NameIDNotFound marks a species name with no match in the naming
// service. It is stored on the record rather than failing the row.
const NameIDNotFound int64 = -1

// Facade fetches the known species names and their name ids from a
// naming service. Implementations cache aggressively; the full list is
// fetched once per ingestion batch.
type Facade interface {
	// SpeciesNameIDs returns the map of species name to name id.
	SpeciesNameIDs(ctx context.Context) (map[string]int64, error)
}

// Normalize lowercases a species name and collapses its whitespace so
// lookups tolerate the usual data-entry noise.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
