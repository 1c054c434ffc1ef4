// Package config provides configuration management for geofab.
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
//   - DataDir, OutputDir, OutputPrefix, Region
//   - Filter, Overwrite, Plot, GeoPackage
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Extract.StreamLayer, Extract.CatchmentLayer (per-command)
//   - Progress
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GEOFAB_ prefix with underscores for nesting:
//
//	GEOFAB_DATA_DIR=/data/geofabric
//	GEOFAB_OUTPUT_DIR=./output
//	GEOFAB_REGION=Goulburn
//	GEOFAB_LOG_LEVEL=info
//	GEOFAB_JOBS_NUMBER=2
package config

// Config represents the complete geofab configuration.
type Config struct {
	// DataDir is the root directory of the Geofabric data. Candidate
	// dataset paths are resolved relative to it.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// OutputDir receives exported layers, statistics and the overview
	// image. Created if missing.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// OutputPrefix starts every output file name, e.g.
	// goulburn_streams.geojson.
	OutputPrefix string `mapstructure:"output_prefix" yaml:"output_prefix"`

	// Region is the keyword searched in name columns by the regional
	// filter (case-insensitive substring).
	Region string `mapstructure:"region" yaml:"region"`

	// Filter toggles the regional filter. When false all features are
	// exported.
	Filter bool `mapstructure:"filter" yaml:"filter"`

	// Overwrite allows replacing existing output files. When false an
	// existing output makes the export step fail.
	Overwrite bool `mapstructure:"overwrite" yaml:"overwrite"`

	// Plot toggles rendering of the overview image.
	Plot bool `mapstructure:"plot" yaml:"plot"`

	// GeoPackage adds a single-layer .gpkg to the shapefile and GeoJSON
	// outputs of each dataset.
	GeoPackage bool `mapstructure:"geopackage" yaml:"geopackage"`

	// Progress shows progress bars while writing outputs.
	Progress bool `mapstructure:"-" yaml:"-"`

	// Extract contains settings specific to the extract command.
	Extract ExtractConfig `mapstructure:"-" yaml:"-"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of dataset pipelines that run at the same
	// time. The stream and catchment pipelines are independent, so any
	// value above 1 runs them in parallel.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// ExtractConfig contains settings specific to the extract command.
type ExtractConfig struct {
	// StreamLayer names the container layer to read for streams,
	// bypassing keyword resolution.
	StreamLayer string

	// CatchmentLayer names the container layer to read for catchments,
	// bypassing keyword resolution.
	CatchmentLayer string
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
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
		DataDir:      "data",
		OutputDir:    "output",
		OutputPrefix: "goulburn",
		Region:       "Goulburn",
		Filter:       true,
		Overwrite:    true,
		Plot:         true,
		Progress:     true,
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: 1,
	}

	return res
}
