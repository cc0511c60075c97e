// Package models provides database models for BioSys projects, sites,
// datasets and records.
package models

import (
	"database/sql"
	"time"
)

// Dataset types. The type decides which schema contract applies to the
// dataset's records.
const (
	DatasetTypeGeneric            = "generic"
	DatasetTypeObservation        = "observation"
	DatasetTypeSpeciesObservation = "species_observation"
)

// ValidDatasetType reports whether t is one of the known dataset types.
func ValidDatasetType(t string) bool {
	switch t {
	case DatasetTypeGeneric, DatasetTypeObservation, DatasetTypeSpeciesObservation:
		return true
	}
	return false
}

// Geometry provenance for a record: where its point came from.
const (
	GeometrySourceData = "data"
	GeometrySourceSite = "site"
)

// NameIDNotFound marks a record whose species name had no match in the
// species name service.
const NameIDNotFound = -1

// Project groups sites and datasets under one program of work.
type Project struct {
	// ID is the surrogate primary key.
	ID int64 `db:"id" gorm:"column:id;primaryKey"`

	// UUID is a unique identifier assigned on creation.
	UUID string `db:"uuid" gorm:"column:uuid;type:uuid"`

	// Name is the project title, unique across the instance.
	Name string `db:"name" gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_projects_name"`

	// Code is a short unique code used in data files and URLs.
	Code string `db:"code" gorm:"column:code;type:varchar(50);index:idx_projects_code"`

	// Description summarizes the project's purpose.
	Description string `db:"description" gorm:"column:description;type:text"`

	// Timezone is the IANA timezone the project's dates are read in.
	Timezone string `db:"timezone" gorm:"column:timezone;type:varchar(50)"`

	// DatumSRID is the default spatial reference for the project's data.
	DatumSRID int `db:"datum_srid" gorm:"column:datum_srid"`

	// Geometry is the project extent as WKT, in the model SRID.
	Geometry sql.NullString `db:"geometry" gorm:"column:geometry;type:text"`

	// Attributes holds free-form project metadata as JSON.
	Attributes string `db:"attributes" gorm:"column:attributes;type:jsonb"`

	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at"`
}

// Site is a named location records can reference by code.
type Site struct {
	// ID is the surrogate primary key.
	ID int64 `db:"id" gorm:"column:id;primaryKey"`

	// ProjectID is the owning project. Together with Code it forms the
	// unique key the site upsert resolves conflicts on.
	ProjectID int64 `db:"project_id" gorm:"column:project_id;not null;uniqueIndex:idx_sites_project_code"`

	// Code identifies the site within its project, e.g. COT-VP-M1.
	Code string `db:"code" gorm:"column:code;type:varchar(150);not null;uniqueIndex:idx_sites_project_code"`

	// Name is an optional display name.
	Name string `db:"name" gorm:"column:name;type:varchar(150)"`

	// Description of the site.
	Description string `db:"description" gorm:"column:description;type:text"`

	// Geometry is the site point or extent as WKT, in the model SRID.
	Geometry sql.NullString `db:"geometry" gorm:"column:geometry;type:text"`

	// Attributes holds extra site columns from the upload as JSON.
	Attributes string `db:"attributes" gorm:"column:attributes;type:jsonb"`

	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at"`
}

// Dataset binds a project to a schema and a type.
type Dataset struct {
	// ID is the surrogate primary key.
	ID int64 `db:"id" gorm:"column:id;primaryKey"`

	// UUID is a unique identifier assigned on creation.
	UUID string `db:"uuid" gorm:"column:uuid;type:uuid"`

	// ProjectID is the owning project.
	ProjectID int64 `db:"project_id" gorm:"column:project_id;not null;uniqueIndex:idx_datasets_project_name"`

	// Name of the dataset, unique within the project.
	Name string `db:"name" gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_datasets_project_name"`

	// Type is one of generic, observation or species_observation.
	Type string `db:"type" gorm:"column:type;type:varchar(100);not null;index:idx_datasets_type"`

	// Description of the dataset.
	Description string `db:"description" gorm:"column:description;type:text"`

	// DataPackage is the JSON schema descriptor for the records.
	DataPackage string `db:"data_package" gorm:"column:data_package;type:jsonb;not null"`

	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at"`
}

// Record is one ingested data row.
type Record struct {
	// ID is the surrogate primary key.
	ID int64 `db:"id" gorm:"column:id;primaryKey"`

	// UUID is a unique identifier assigned on creation.
	UUID string `db:"uuid" gorm:"column:uuid;type:uuid"`

	// DatasetID is the owning dataset.
	DatasetID int64 `db:"dataset_id" gorm:"column:dataset_id;not null;index:idx_records_dataset"`

	// SiteID links the record to a site when the row referenced one.
	SiteID sql.NullInt64 `db:"site_id" gorm:"column:site_id;index:idx_records_site"`

	// Data is the raw row as JSON, keyed by column name.
	Data string `db:"data" gorm:"column:data;type:jsonb;not null"`

	// Datetime is the casted observation date; null for generic records.
	Datetime sql.NullTime `db:"datetime" gorm:"column:datetime;type:timestamptz;index:idx_records_datetime"`

	// Geometry is the record point as WKT, in the model SRID.
	Geometry sql.NullString `db:"geometry" gorm:"column:geometry;type:text"`

	// GeometrySource records where the geometry came from: data columns
	// or the referenced site.
	GeometrySource string `db:"geometry_source" gorm:"column:geometry_source;type:varchar(10)"`

	// SpeciesName is the casted species name; empty for non-species
	// records.
	SpeciesName string `db:"species_name" gorm:"column:species_name;type:varchar(500);index:idx_records_species_name"`

	// NameID is the species name service id, or NameIDNotFound when the
	// species name had no match.
	NameID sql.NullInt64 `db:"name_id" gorm:"column:name_id;index:idx_records_name_id"`

	// SourceInfo describes where the record came from (file, row) as
	// JSON.
	SourceInfo string `db:"source_info" gorm:"column:source_info;type:jsonb"`

	// Validated is true once a curator has accepted the record.
	Validated bool `db:"validated" gorm:"column:validated;not null;default:false"`

	// Locked records cannot be modified through uploads.
	Locked bool `db:"locked" gorm:"column:locked;not null;default:false"`

	CreatedAt time.Time `db:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at"`
}

// SourceInfo is the provenance block stored on each uploaded record.
type SourceInfo struct {
	FileName string `json:"file_name"`
	Row      int    `json:"row"`
}
