package ingest

import (
	"database/sql"
	"fmt"

	"github.com/gnames/gnfmt"
	"github.com/twpayne/go-geom"

	"github.com/gaiaresources/biosys/pkg/gis"
	"github.com/gaiaresources/biosys/pkg/models"
	"github.com/gaiaresources/biosys/pkg/schema"
	"github.com/gaiaresources/biosys/pkg/species"
)

// SiteLookup resolves a site by its code within the dataset's project.
type SiteLookup interface {
	SiteByCode(code string) (*models.Site, bool)
}

// siteGeometries adapts a SiteLookup to the geometry parser's resolver:
// only sites that exist and carry a geometry resolve.
type siteGeometries struct {
	sites SiteLookup
}

func (s siteGeometries) SiteGeometry(code string) (*geom.Point, bool) {
	if s.sites == nil {
		return nil, false
	}
	site, ok := s.sites.SiteByCode(code)
	if !ok || !site.Geometry.Valid {
		return nil, false
	}
	point, err := gis.DecodeWKT(site.Geometry.String)
	if err != nil {
		return nil, false
	}
	return point, true
}

// RecordCreator casts data rows of one dataset into records. The
// dataset type decides which contract applies: generic rows only pass
// cell validation, observation rows also produce a date and a geometry,
// species observation rows a species identity on top.
type RecordCreator struct {
	dataset   *models.Dataset
	generic   *schema.Schema
	obs       *schema.ObservationSchema
	sp        *schema.SpeciesObservationSchema
	validator RowValidator

	sites       SiteLookup
	names       *species.NameMap
	fileName    string
	strict      bool
	defaultSRID int
}

// Option configures a RecordCreator.
type Option func(*RecordCreator)

// OptSites provides the site lookup used for site references.
func OptSites(sites SiteLookup) Option {
	return func(c *RecordCreator) { c.sites = sites }
}

// OptNames provides the species name map fetched for this batch.
func OptNames(names *species.NameMap) Option {
	return func(c *RecordCreator) { c.names = names }
}

// OptFileName sets the file name recorded in each record's source info.
func OptFileName(name string) Option {
	return func(c *RecordCreator) { c.fileName = name }
}

// OptStrict rejects rows carrying columns the schema does not declare.
func OptStrict(strict bool) Option {
	return func(c *RecordCreator) { c.strict = strict }
}

// OptDefaultSRID sets the spatial reference assumed when a row names no
// datum.
func OptDefaultSRID(srid int) Option {
	return func(c *RecordCreator) { c.defaultSRID = srid }
}

// NewRecordCreator builds the pipeline for a dataset from its stored
// schema descriptor.
func NewRecordCreator(dataset *models.Dataset, opts ...Option) (*RecordCreator, error) {
	c := &RecordCreator{dataset: dataset}
	for _, opt := range opts {
		opt(c)
	}

	s, err := schema.FromJSON([]byte(dataset.DataPackage))
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", dataset.Name, err)
	}
	c.generic = s

	resolver := siteGeometries{sites: c.sites}
	switch dataset.Type {
	case models.DatasetTypeGeneric:
		c.validator = NewGenericValidator(s, c.strict)
	case models.DatasetTypeObservation:
		obs, err := schema.NewObservationSchema(s)
		if err != nil {
			return nil, err
		}
		c.obs = obs
		c.validator = NewObservationValidator(obs, resolver, c.defaultSRID, c.strict)
	case models.DatasetTypeSpeciesObservation:
		sp, err := schema.NewSpeciesObservationSchema(s)
		if err != nil {
			return nil, err
		}
		c.sp = sp
		c.obs = sp.ObservationSchema
		c.validator = NewSpeciesObservationValidator(
			sp, resolver, c.names, c.defaultSRID, c.strict,
		)
	default:
		return nil, fmt.Errorf("unknown dataset type %q", dataset.Type)
	}
	return c, nil
}

// Schema returns the dataset's parsed generic schema.
func (c *RecordCreator) Schema() *schema.Schema { return c.generic }

// Validator returns the row validator for validate-only runs.
func (c *RecordCreator) Validator() RowValidator { return c.validator }

// CreateRecord casts one data row into a record. rowIdx is the
// zero-based index of the row among the data rows; the stored row
// number counts the header as row 1, so the first data row is row 2.
// A row with validation errors yields no record.
func (c *RecordCreator) CreateRecord(
	row map[string]any, rowIdx int,
) (*models.Record, ValidationResult) {
	result := c.validator.ValidateRow(row)
	if result.HasErrors() {
		return nil, result
	}

	record := &models.Record{DatasetID: c.dataset.ID}
	enc := gnfmt.GNjson{}

	data, err := enc.Encode(row)
	if err != nil {
		result.AddError("row", fmt.Sprintf("cannot encode the row: %s", err))
		return nil, result
	}
	record.Data = string(data)

	sourceInfo, err := enc.Encode(models.SourceInfo{
		FileName: c.fileName,
		Row:      rowIdx + 2,
	})
	if err == nil {
		record.SourceInfo = string(sourceInfo)
	}

	if c.obs != nil {
		if !c.fillObservation(row, record, &result) {
			return nil, result
		}
	}
	if c.sp != nil {
		if !c.fillSpecies(row, record, &result) {
			return nil, result
		}
	}
	return record, result
}

func (c *RecordCreator) fillObservation(
	row map[string]any, record *models.Record, result *ValidationResult,
) bool {
	date, err := c.obs.CastObservationDate(row)
	if err != nil {
		result.AddError(errorColumn(err, c.obs.ObservationDate.Name), err.Error())
		return false
	}
	record.Datetime = sql.NullTime{Time: date, Valid: true}

	resolver := siteGeometries{sites: c.sites}
	point, source, err := c.obs.Geometry.CastGeometrySource(row, c.defaultSRID, resolver)
	if err != nil {
		result.AddError(errorColumn(err, geometryErrorColumn(c.obs)), err.Error())
		return false
	}
	wktStr, err := gis.EncodeWKT(point)
	if err != nil {
		result.AddError(geometryErrorColumn(c.obs), err.Error())
		return false
	}
	record.Geometry = sql.NullString{String: wktStr, Valid: true}
	record.GeometrySource = source

	// A site reference links the record to the site even when the
	// geometry came from the row's own columns.
	if code, err := c.obs.Geometry.CastSiteCode(row); err == nil && code != "" {
		if c.sites != nil {
			if site, ok := c.sites.SiteByCode(code); ok {
				record.SiteID = sql.NullInt64{Int64: site.ID, Valid: true}
			}
		}
	}
	return true
}

func (c *RecordCreator) fillSpecies(
	row map[string]any, record *models.Record, result *ValidationResult,
) bool {
	speciesCol := speciesErrorColumn(c.sp)

	// The name id is authoritative: when present it decides the species
	// and the name columns are informational.
	id, hasID, err := c.sp.CastNameID(row)
	if err != nil {
		result.AddError(errorColumn(err, speciesCol), err.Error())
		return false
	}
	if hasID {
		record.NameID = sql.NullInt64{Int64: id, Valid: true}
		if c.names != nil {
			name, known := c.names.NameByID(id)
			if !known {
				result.AddError(c.sp.Species.NameID.Name, fmt.Sprintf(
					"The Name Id %d doesn't exist in the species list.", id))
				return false
			}
			record.SpeciesName = name
		}
		return true
	}

	name, err := c.sp.CastSpeciesName(row)
	if err != nil {
		result.AddError(errorColumn(err, speciesCol), err.Error())
		return false
	}
	if name == "" {
		result.AddError(speciesCol, "The row has no species name and no name id.")
		return false
	}
	record.SpeciesName = name
	// An unknown name does not fail the row; the record keeps the
	// not-found marker so curators can fix the name later.
	if c.names != nil {
		record.NameID = sql.NullInt64{
			Int64: c.names.LookupOrNotFound(name), Valid: true,
		}
	}
	return true
}

func geometryErrorColumn(obs *schema.ObservationSchema) string {
	fields := obs.Geometry.ActiveFields()
	if len(fields) == 0 {
		return "Geometry"
	}
	return fields[0].Name
}

func speciesErrorColumn(sp *schema.SpeciesObservationSchema) string {
	fields := sp.Species.ActiveFields()
	if len(fields) == 0 {
		return "Species Name"
	}
	return fields[0].Name
}
