package db_test

import (
	"testing"

	"github.com/gaiaresources/biosys/internal/iodb"
	"github.com/gaiaresources/biosys/pkg/db"
)

// TestPgxOperatorImplementsInterface verifies that the pgx-backed
// operator implements the db.Operator interface.
// This test ensures compile-time contract compliance.
func TestPgxOperatorImplementsInterface(t *testing.T) {
	// This will fail to compile if the returned value
	// doesn't implement db.Operator
	var _ db.Operator = iodb.NewPgxOperator()
}
