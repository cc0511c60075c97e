package biosys

import (
	"context"

	"github.com/gaiaresources/biosys/pkg/models"
)

// Store defines the persistence operations of the ingestion pipeline.
// Lookups return pgx-backed rows; bulk writes use CopyFrom internally.
type Store interface {
	// ProjectByName returns a project by its unique name.
	ProjectByName(ctx context.Context, name string) (*models.Project, error)

	// DatasetByName returns a dataset by name within a project.
	DatasetByName(ctx context.Context, projectID int64, name string) (*models.Dataset, error)

	// CreateDataset stores a new dataset and fills its ID.
	CreateDataset(ctx context.Context, ds *models.Dataset) error

	// SitesByProject returns all sites of a project, keyed by code.
	SitesByProject(ctx context.Context, projectID int64) (map[string]*models.Site, error)

	// SaveSite creates a site or updates the existing one with the same
	// project and code, and fills its ID.
	SaveSite(ctx context.Context, site *models.Site) error

	// InsertRecords bulk-inserts records of one dataset.
	InsertRecords(ctx context.Context, records []*models.Record) error

	// DeleteDatasetRecords removes all unlocked records of a dataset.
	// Used when an upload replaces previous data.
	DeleteDatasetRecords(ctx context.Context, datasetID int64) (int64, error)

	// RefreshSiteRecords updates the geometry of records that took their
	// point from the given site and reports how many changed. Records
	// that predate geometry provenance follow only while their geometry
	// still equals the site's previous point; records with their own
	// geometry are left alone.
	RefreshSiteRecords(ctx context.Context, siteID int64, oldWKT, newWKT string) (int64, error)
}
