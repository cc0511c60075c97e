package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBQueryError
	DBInsertError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Species service errors
	SpeciesFetchError
	SpeciesDecodeError
	SpeciesCacheOpenError
	SpeciesCacheReadError
	SpeciesCacheWriteError

	// Reader errors
	ReaderOpenError
	ReaderFormatError
	ReaderHeaderError

	// Ingest errors
	IngestProjectNotFoundError
	IngestDatasetNotFoundError
	IngestSchemaError
	IngestInferenceError
	IngestRecordsError
	IngestSitesError
)
