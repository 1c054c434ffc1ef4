package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "geofab"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/geofab by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/geofab/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/geofab/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatasetsFilePath returns the full path to the datasets.yaml file with
// the dataset locator table.
// Returns ~/.config/geofab/datasets.yaml by default.
func DatasetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "datasets.yaml")
}

// OutputPath returns the path of an output file named
// <prefix>_<name> in the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, c.OutputPrefix+"_"+name)
}
