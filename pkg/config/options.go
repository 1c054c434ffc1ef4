package config

import (
	"path/filepath"
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDataDir sets the root directory of the Geofabric data.
func OptDataDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Data Directory", s) {
			c.DataDir = filepath.Clean(s)
		}
	}
}

// OptOutputDir sets the directory for exported files.
func OptOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Directory", s) {
			c.OutputDir = filepath.Clean(s)
		}
	}
}

// OptOutputPrefix sets the prefix of output file names.
// Path separators are not allowed.
func OptOutputPrefix(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Prefix", s) && isValidFileName("Output Prefix", s) {
			c.OutputPrefix = s
		}
	}
}

// OptRegion sets the keyword used by the regional filter.
func OptRegion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Region", s) {
			c.Region = s
		}
	}
}

// OptFilter toggles the regional filter.
func OptFilter(b bool) Option {
	return func(c *Config) {
		c.Filter = b
	}
}

// OptOverwrite toggles replacing existing output files.
func OptOverwrite(b bool) Option {
	return func(c *Config) {
		c.Overwrite = b
	}
}

// OptPlot toggles rendering of the overview image.
func OptPlot(b bool) Option {
	return func(c *Config) {
		c.Plot = b
	}
}

// OptGeoPackage toggles the additional GeoPackage output.
func OptGeoPackage(b bool) Option {
	return func(c *Config) {
		c.GeoPackage = b
	}
}

// OptProgress toggles progress bars.
// Runtime-only field - not in ToOptions().
func OptProgress(b bool) Option {
	return func(c *Config) {
		c.Progress = b
	}
}

// OptExtractStreamLayer sets the container layer to read for streams.
// Runtime-only field - not in ToOptions().
func OptExtractStreamLayer(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Stream Layer", s) {
			c.Extract.StreamLayer = s
		}
	}
}

// OptExtractCatchmentLayer sets the container layer to read for
// catchments.
// Runtime-only field - not in ToOptions().
func OptExtractCatchmentLayer(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catchment Layer", s) {
			c.Extract.CatchmentLayer = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets how many dataset pipelines run at the same time.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
