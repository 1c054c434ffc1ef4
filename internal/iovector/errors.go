package iovector

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// UnsupportedFormatError creates an error for a source that is not a
// shapefile, GeoPackage or GeoJSON file.
func UnsupportedFormatError(path string) error {
	msg := `Unsupported data format

<em>Path:</em> %s

<em>Supported formats:</em> .shp, .gpkg, .geojson
%s`

	hint := ""
	if FormatOf(path) == FileGDB {
		hint = `
<em>How to fix:</em>
  File Geodatabases cannot be read directly. Convert it to GeoPackage:
  <em>ogr2ogr -f GPKG ` + strings.TrimSuffix(path, ".gdb") + `.gpkg ` + path + `</em>`
	}

	vars := []any{path, hint}

	return &gn.Error{
		Code: errcode.LoadUnsupportedFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported format: %s", path),
	}
}

// MalformedSourceError creates an error for a source that cannot be
// parsed.
func MalformedSourceError(path string, err error) error {
	msg := `Cannot read vector data

<em>Path:</em> %s

<em>Possible causes:</em>
  - File is corrupted or truncated
  - Sidecar files (.shx, .dbf) are missing
  - Not a valid GeoPackage or GeoJSON file

<em>How to fix:</em>
  1. Check the file with <em>geofab inspect %s</em>
  2. Re-download the dataset`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.LoadMalformedSourceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("malformed source %s: %w", path, err),
	}
}

// NoLayersError creates an error for a container without feature layers.
func NoLayersError(path string) error {
	msg := `Container has no feature layers

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check the file with <em>geofab inspect %s</em>
  2. Re-download the dataset`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.LoadNoLayersError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no feature layers in %s", path),
	}
}

// LayerNotFoundError creates an error for a layer hint that does not
// name a layer of the container.
func LayerNotFoundError(path, layer string, layers []string) error {
	msg := `Layer <em>%s</em> not found

<em>Path:</em> %s
<em>Available layers:</em> %s

<em>How to fix:</em>
  Manually specify one of the available layers with
  <em>--stream-layer</em> or <em>--catchment-layer</em>`

	vars := []any{layer, path, strings.Join(layers, ", ")}

	return &gn.Error{
		Code: errcode.LoadLayerNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("layer %q not found in %s", layer, path),
	}
}

// OutputExistsError creates an error for an output file that exists
// while overwriting is disabled.
func OutputExistsError(path string) error {
	msg := `Output file already exists

<em>Path:</em> %s

<em>How to fix:</em>
  1. Remove the file or choose another <em>--output-dir</em>
  2. Allow overwriting (drop <em>--no-overwrite</em>)`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ExportOutputExistsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("output exists: %s", path),
	}
}

// WriteError creates an error for an output that could not be written.
func WriteError(path string, err error) error {
	msg := `Cannot write output file

<em>Path:</em> %s

<em>Possible causes:</em>
  - Output directory is not writable
  - Disk is full
  - Attribute values do not fit the dBASE format

<em>How to fix:</em>
  1. Check permissions of the output directory
  2. Choose another <em>--output-dir</em>`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write %s: %w", path, err),
	}
}

// GeometryError creates an error for geometries the output format cannot
// hold.
func GeometryError(path string, err error) error {
	msg := `Cannot export geometries

<em>Path:</em> %s

<em>Possible causes:</em>
  - Layer mixes points, lines and polygons
  - Geometry collections are not supported by shapefiles`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ExportGeometryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported geometries for %s: %w", path, err),
	}
}
