package biosys

import (
	"context"

	"github.com/gaiaresources/biosys/pkg/infer"
	"github.com/gaiaresources/biosys/pkg/ingest"
)

// IngestParams names the source and the destination of one upload.
type IngestParams struct {
	// Project is the unique project name.
	Project string

	// Dataset is the dataset name within the project. For an ingest run
	// against a file with no registered dataset, the dataset is created
	// from the inferred schema.
	Dataset string

	// Path is the CSV or XLSX file to read.
	Path string

	// DeleteExisting removes the dataset's previous unlocked records
	// before the new rows are written.
	DeleteExisting bool
}

// Ingestor defines the high-level operations of the upload pipeline.
type Ingestor interface {
	// Infer reads a data file and derives a schema descriptor and a
	// dataset type from its values.
	Infer(ctx context.Context, path string) (*infer.Result, error)

	// Validate runs the full validation pass over a file without
	// writing any records.
	Validate(ctx context.Context, p IngestParams) (*ingest.Summary, error)

	// Ingest validates a file and writes the accepted rows as records.
	Ingest(ctx context.Context, p IngestParams) (*ingest.Summary, error)

	// UploadSites creates or updates a project's sites from a file.
	UploadSites(ctx context.Context, project, path string) (*ingest.Summary, error)
}
