// Package config provides configuration management for BioSys.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Species: service_url, page_size, cache_ttl_hours
//   - Ingest: default_srid
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Ingest.Strict (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use BIOSYS_ prefix with underscores for nesting:
//
//	BIOSYS_DATABASE_HOST=localhost
//	BIOSYS_DATABASE_PORT=5432
//	BIOSYS_SPECIES_SERVICE_URL=https://...
//	BIOSYS_LOG_LEVEL=info
//	BIOSYS_JOBS_NUMBER=8
//
// See .envrc.example for complete list with defaults.
package config

import (
	"runtime"
)

// Config represents the complete BioSys configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Species contains settings for the species name service.
	Species SpeciesConfig `mapstructure:"species" yaml:"species"`

	// Ingest contains settings specific to the ingest and validate commands.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records to insert per batch during
	// ingestion. Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// SpeciesConfig contains settings for the species name service that
// provides the authoritative species name to name id list.
type SpeciesConfig struct {
	// ServiceURL is the WFS endpoint of the species name service.
	ServiceURL string `mapstructure:"service_url" yaml:"service_url"`

	// PageSize is the number of species features requested per page.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// CacheTTLHours is how long the local species cache stays fresh
	// before the list is fetched again.
	CacheTTLHours int `mapstructure:"cache_ttl_hours" yaml:"cache_ttl_hours"`
}

// IngestConfig contains settings specific to the ingest and validate
// commands.
type IngestConfig struct {
	// DefaultSRID is the spatial reference assumed for easting/northing
	// rows that name neither a datum nor a zone.
	DefaultSRID int `mapstructure:"default_srid" yaml:"default_srid"`

	// Strict rejects rows carrying columns the schema does not declare.
	// Runtime-only, set by CLI flag per command.
	Strict bool
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "biosys",
			SSLMode:   "disable",
			BatchSize: 1_000,
		},
		Species: SpeciesConfig{
			ServiceURL:    DefaultSpeciesServiceURL,
			PageSize:      5_000,
			CacheTTLHours: 24,
		},
		Ingest: IngestConfig{
			DefaultSRID: 4326,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
