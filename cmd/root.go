package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaiaresources/biosys/internal/iofs"
	"github.com/gaiaresources/biosys/internal/iologger"
	app "github.com/gaiaresources/biosys/pkg/biosys"
	"github.com/gaiaresources/biosys/pkg/config"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "biosys",
		Short:   "BioSys manages biodiversity field data lifecycle",
		Long: `BioSys is a CLI tool for managing biodiversity field data in a
PostgreSQL database: projects, sites, datasets and their records.

Dataset schemas follow the JSON Table Schema convention extended with
the biosys namespace. The main phases are:
  - Schema Management: create and migrate the database schema
  - Schema Inference: derive a dataset schema from a CSV or XLSX file
  - Data Validation: run the upload pipeline without writing records
  - Data Ingestion: cast rows into records with geometry, date and
    species name resolution

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (BIOSYS_*)
  3. Config file (~/.config/biosys/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → BIOSYS_DATABASE_HOST).

  Examples:
    BIOSYS_DATABASE_HOST            PostgreSQL host
    BIOSYS_DATABASE_PORT            PostgreSQL port
    BIOSYS_DATABASE_USER            PostgreSQL user
    BIOSYS_DATABASE_PASSWORD        PostgreSQL password
    BIOSYS_DATABASE_DATABASE        Database name
    BIOSYS_SPECIES_SERVICE_URL      Species name service WFS endpoint
    BIOSYS_INGEST_DEFAULT_SRID      Default spatial reference
    BIOSYS_LOG_LEVEL                Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "biosys version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for biosys")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getInferCmd(),
		getValidateCmd(),
		getIngestCmd(),
		getSitesCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, appending to the file
	// the default logger started
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("BIOSYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.database", "DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "DATABASE_BATCH_SIZE")

	// Species name service configuration
	v.BindEnv("species.service_url", "SPECIES_SERVICE_URL")
	v.BindEnv("species.page_size", "SPECIES_PAGE_SIZE")
	v.BindEnv("species.cache_ttl_hours", "SPECIES_CACHE_TTL_HOURS")

	// Ingestion configuration
	v.BindEnv("ingest.default_srid", "INGEST_DEFAULT_SRID")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}
