package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllModels returns all domain models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Project{},
		&Site{},
		&Dataset{},
		&Record{},
	}
}

// Migrate runs GORM AutoMigrate to create or update the schema. The
// gorm struct tags are the single source of truth for columns and
// indexes, including the unique indexes the upsert queries rely on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func (p Project) TableName() string { return "projects" }

func (s Site) TableName() string { return "sites" }

func (d Dataset) TableName() string { return "datasets" }

func (r Record) TableName() string { return "records" }

// BeforeCreate assigns the project UUID.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// BeforeCreate assigns the dataset UUID.
func (d *Dataset) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == "" {
		d.UUID = uuid.New().String()
	}
	return nil
}

// BeforeCreate assigns the record UUID.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}
