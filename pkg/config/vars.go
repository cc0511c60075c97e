package config

import (
	"path/filepath"
)

var (
	// DefaultSpeciesServiceURL is the WFS endpoint of the Herbie species
	// name service maintained by the WA Department of Biodiversity,
	// Conservation and Attractions.
	DefaultSpeciesServiceURL = "https://kmi.dbca.wa.gov.au/geoserver/ows?" +
		"service=wfs&version=1.1.0&request=GetFeature&" +
		"typeNames=public:herbie_hbvspecies_public&" +
		"outputFormat=application/json"

	// AppName is used in generating file system paths.
	AppName = "biosys"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/biosys by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/biosys by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/biosys/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/biosys/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SpeciesCachePath returns the full path to the species list cache.
// Returns ~/.cache/biosys/species.db by default.
func SpeciesCachePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "species.db")
}
