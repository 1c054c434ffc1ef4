// Package iovector reads and writes vector layers: ESRI shapefiles,
// GeoPackage containers and GeoJSON files.
package iovector

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// Format is a supported on-disk vector format.
type Format int

const (
	UnknownFormat Format = iota
	Shapefile
	GeoPackage
	GeoJSON
	FileGDB
)

func (f Format) String() string {
	switch f {
	case Shapefile:
		return "ESRI Shapefile"
	case GeoPackage:
		return "GeoPackage"
	case GeoJSON:
		return "GeoJSON"
	case FileGDB:
		return "File Geodatabase"
	default:
		return "unknown"
	}
}

// FormatOf detects the format from the path extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return Shapefile
	case ".gpkg":
		return GeoPackage
	case ".geojson", ".json":
		return GeoJSON
	case ".gdb":
		return FileGDB
	default:
		return UnknownFormat
	}
}

// Layers lists the feature layers of the source in enumeration order.
// Single-layer files have one layer named after the file.
func Layers(path string) ([]string, error) {
	switch FormatOf(path) {
	case GeoPackage:
		return gpkgLayers(path)
	case Shapefile, GeoJSON:
		base := filepath.Base(path)
		return []string{strings.TrimSuffix(base, filepath.Ext(base))}, nil
	default:
		return nil, UnsupportedFormatError(path)
	}
}

// Resolve picks the layer to read from the located path. A non-empty
// hint names the layer directly and skips keyword matching. For
// single-layer files the hint is ignored.
func Resolve(path, keyword, hint string) (*dataset.ResolvedSource, error) {
	res := &dataset.ResolvedSource{Path: path}

	if !dataset.IsContainer(path) {
		if hint != "" {
			slog.Debug("Layer hint ignored for single-layer file",
				"path", path, "layer", hint)
		}
		return res, nil
	}

	layers, err := Layers(path)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, NoLayersError(path)
	}

	if hint != "" {
		for _, l := range layers {
			if l == hint {
				res.Layer = l
				res.LayerHint = true
				return res, nil
			}
		}
		return nil, LayerNotFoundError(path, hint, layers)
	}

	choice := dataset.ChooseLayer(layers, keyword)
	res.Layer = choice.Name
	res.LayerFallback = choice.Fallback
	if choice.Fallback {
		slog.Warn("No layer matches keyword, using first layer",
			"path", path, "keyword", keyword, "layer", choice.Name,
			"layers", layers)
	}
	return res, nil
}

// Load reads the features of the source. The layer is required for
// containers and ignored otherwise.
func Load(path, layer string) (*feature.Collection, error) {
	switch FormatOf(path) {
	case Shapefile:
		return readShapefile(path)
	case GeoPackage:
		return readGeoPackage(path, layer)
	case GeoJSON:
		return readGeoJSON(path)
	default:
		return nil, UnsupportedFormatError(path)
	}
}

// LoadSource reads a resolved source.
func LoadSource(src *dataset.ResolvedSource) (*feature.Collection, error) {
	return Load(src.Path, src.Layer)
}
