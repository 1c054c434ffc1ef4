// Package geofab holds the version of the Goulburn Geofabric extractor.
package geofab

var (
	// Version of the application, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
