package iodb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gaiaresources/biosys/pkg/biosys"
	"github.com/gaiaresources/biosys/pkg/db"
	"github.com/gaiaresources/biosys/pkg/models"
)

// pgxStore implements biosys.Store on top of a connected operator.
type pgxStore struct {
	operator db.Operator
}

// NewStore creates the persistence layer of the ingestion pipeline.
// The operator must be connected.
func NewStore(op db.Operator) biosys.Store {
	return &pgxStore{operator: op}
}

// ProjectByName returns a project by its unique name.
func (s *pgxStore) ProjectByName(
	ctx context.Context, name string,
) (*models.Project, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT id, uuid, name, code, description, timezone,
			datum_srid, geometry, attributes
		FROM projects
		WHERE name = $1
	`

	var p models.Project
	err := pool.QueryRow(ctx, query, name).Scan(
		&p.ID, &p.UUID, &p.Name, &p.Code, &p.Description,
		&p.Timezone, &p.DatumSRID, &p.Geometry, &p.Attributes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ProjectNotFoundError(name)
	}
	if err != nil {
		return nil, QueryError("projects", err)
	}
	return &p, nil
}

// DatasetByName returns a dataset by name within a project.
func (s *pgxStore) DatasetByName(
	ctx context.Context, projectID int64, name string,
) (*models.Dataset, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT id, uuid, project_id, name, type, description,
			data_package
		FROM datasets
		WHERE project_id = $1 AND name = $2
	`

	var ds models.Dataset
	err := pool.QueryRow(ctx, query, projectID, name).Scan(
		&ds.ID, &ds.UUID, &ds.ProjectID, &ds.Name, &ds.Type,
		&ds.Description, &ds.DataPackage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, DatasetNotFoundError(name)
	}
	if err != nil {
		return nil, QueryError("datasets", err)
	}
	return &ds, nil
}

// CreateDataset stores a new dataset and fills its ID.
func (s *pgxStore) CreateDataset(
	ctx context.Context, ds *models.Dataset,
) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	if ds.UUID == "" {
		ds.UUID = uuid.New().String()
	}

	query := `
		INSERT INTO datasets
			(uuid, project_id, name, type, description,
			 data_package, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := pool.QueryRow(ctx, query,
		ds.UUID, ds.ProjectID, ds.Name, ds.Type,
		ds.Description, ds.DataPackage, time.Now(),
	).Scan(&ds.ID)
	if err != nil {
		return InsertError("datasets", err)
	}
	return nil
}

// SitesByProject returns all sites of a project, keyed by code.
func (s *pgxStore) SitesByProject(
	ctx context.Context, projectID int64,
) (map[string]*models.Site, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT id, project_id, code, name, description,
			geometry, attributes
		FROM sites
		WHERE project_id = $1
	`

	rows, err := pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, QueryError("sites", err)
	}
	defer rows.Close()

	res := make(map[string]*models.Site)
	for rows.Next() {
		var site models.Site
		err = rows.Scan(
			&site.ID, &site.ProjectID, &site.Code, &site.Name,
			&site.Description, &site.Geometry, &site.Attributes,
		)
		if err != nil {
			return nil, QueryError("sites", err)
		}
		res[site.Code] = &site
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("sites", err)
	}
	return res, nil
}

// SaveSite creates a site or updates the existing one with the same
// project and code, and fills its ID.
func (s *pgxStore) SaveSite(
	ctx context.Context, site *models.Site,
) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	query := `
		INSERT INTO sites
			(project_id, code, name, description, geometry,
			 attributes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id, code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			geometry = EXCLUDED.geometry,
			attributes = EXCLUDED.attributes,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := pool.QueryRow(ctx, query,
		site.ProjectID, site.Code, site.Name, site.Description,
		site.Geometry, site.Attributes, time.Now(),
	).Scan(&site.ID)
	if err != nil {
		return InsertError("sites", err)
	}
	return nil
}

// InsertRecords bulk-inserts records of one dataset using CopyFrom.
func (s *pgxStore) InsertRecords(
	ctx context.Context, records []*models.Record,
) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}
	if len(records) == 0 {
		return nil
	}

	columns := []string{
		"uuid", "dataset_id", "site_id", "data", "datetime",
		"geometry", "geometry_source", "species_name", "name_id",
		"source_info", "validated", "locked", "created_at",
		"updated_at",
	}

	now := time.Now()
	values := make([][]any, len(records))
	for i, r := range records {
		if r.UUID == "" {
			r.UUID = uuid.New().String()
		}
		values[i] = []any{
			r.UUID, r.DatasetID, nullInt64(r.SiteID), r.Data,
			nullTime(r.Datetime), nullString(r.Geometry),
			r.GeometrySource, r.SpeciesName, nullInt64(r.NameID),
			r.SourceInfo, r.Validated, r.Locked, now, now,
		}
	}

	_, err := pool.CopyFrom(
		ctx,
		pgx.Identifier{"records"},
		columns,
		pgx.CopyFromRows(values),
	)
	if err != nil {
		return InsertError("records", err)
	}
	return nil
}

// DeleteDatasetRecords removes all unlocked records of a dataset.
func (s *pgxStore) DeleteDatasetRecords(
	ctx context.Context, datasetID int64,
) (int64, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	query := `
		DELETE FROM records
		WHERE dataset_id = $1 AND locked = FALSE
	`

	tag, err := pool.Exec(ctx, query, datasetID)
	if err != nil {
		return 0, QueryError("records", err)
	}
	return tag.RowsAffected(), nil
}

// RefreshSiteRecords updates the geometry of records that took their
// point from the given site. Records without a provenance marker
// follow only while their geometry still equals the site's previous
// point. Records with their own geometry and locked records are left
// alone.
func (s *pgxStore) RefreshSiteRecords(
	ctx context.Context, siteID int64, oldWKT, newWKT string,
) (int64, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	query := `
		UPDATE records
		SET geometry = $2, updated_at = $3
		WHERE site_id = $1
			AND locked = FALSE
			AND (geometry_source = $4
				OR (geometry_source = '' AND geometry = $5))
	`

	tag, err := pool.Exec(ctx, query, siteID, newWKT, time.Now(),
		models.GeometrySourceSite, oldWKT)
	if err != nil {
		return 0, QueryError("records", err)
	}
	return tag.RowsAffected(), nil
}

func nullInt64(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func nullString(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func nullTime(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time
}
