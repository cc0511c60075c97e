package ioschema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaiaresources/biosys/internal/iodb"
	"github.com/gaiaresources/biosys/pkg/biosys"
)

// TestManager_ImplementsInterface verifies manager
// implements biosys.SchemaManager interface.
func TestManager_ImplementsInterface(t *testing.T) {
	op := iodb.NewPgxOperator()
	var _ biosys.SchemaManager = NewManager(op)
}

// TestNewManager_CreatesManager verifies manager creation.
func TestNewManager_CreatesManager(t *testing.T) {
	op := iodb.NewPgxOperator()
	mgr := NewManager(op)
	require.NotNil(t, mgr)
}

// Integration tests would require:
// - Database connection
// - GORM setup
// - Schema migration testing
// These are better suited for E2E tests
