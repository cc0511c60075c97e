package iodb

import (
	"fmt"

	"github.com/gnames/gn"

	"github.com/gaiaresources/biosys/pkg/errcode"
)

// ConnectionError creates an error for database connection failures.
func ConnectionError(host string, port int, database, user string, err error) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Review connection settings:
     Host: %s, Port: %d, Database: %s, User: %s`

	vars := []any{host, port, host, user, host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted without a
// database connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError creates an error for failed table existence checks.
func TableCheckError(err error) error {
	msg := "Could not verify database state"

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// TableExistsCheckError creates an error for a failed existence check
// of one table.
func TableExistsCheckError(table string, err error) error {
	msg := "Could not check if table <em>%s</em> exists"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// EmptyDatabaseError creates an error for an unpopulated database.
func EmptyDatabaseError(host, database string) error {
	msg := `The database appears to be empty

<em>Required steps:</em>
  1. Create the database schema:
     <em>biosys create</em>

<em>Current database state:</em>
  Host: %s
  Database: %s
  Status: No tables found`

	vars := []any{host, database}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("database has no tables - run 'biosys create' first"),
	}
}

// QueryError creates an error for failed queries.
func QueryError(entity string, err error) error {
	msg := "Could not query %s"
	vars := []any{entity}

	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to query %s: %w", entity, err),
	}
}

// InsertError creates an error for failed writes.
func InsertError(table string, err error) error {
	msg := "Could not write to <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write to %s: %w", table, err),
	}
}

// DropTableError creates an error for failed table drops.
func DropTableError(table string, err error) error {
	msg := "Could not drop table <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}

// ProjectNotFoundError creates an error for an unknown project name.
func ProjectNotFoundError(name string) error {
	msg := "Project <em>%s</em> does not exist"
	vars := []any{name}

	return &gn.Error{
		Code: errcode.IngestProjectNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("project %q not found", name),
	}
}

// DatasetNotFoundError creates an error for an unknown dataset name.
func DatasetNotFoundError(name string) error {
	msg := "Dataset <em>%s</em> does not exist"
	vars := []any{name}

	return &gn.Error{
		Code: errcode.IngestDatasetNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("dataset %q not found", name),
	}
}
