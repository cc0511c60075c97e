// Package biosys defines the high-level contracts of the BioSys data
// pipeline. Implementations live in internal/ packages; commands depend
// on these interfaces only.
package biosys

import (
	"context"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple
// times. Config is provided during construction via NewManager.
type SchemaManager interface {
	// Create creates the initial database schema using GORM AutoMigrate.
	// If tables already exist, behavior depends on user confirmation
	// via DropAllTables.
	Create(ctx context.Context) error

	// Migrate updates the database schema to the latest version using
	// GORM AutoMigrate. GORM handles schema version tracking
	// automatically.
	Migrate(ctx context.Context) error
}
