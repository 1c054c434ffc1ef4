package iovector

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// ExportOptions control how outputs are written.
type ExportOptions struct {
	// Overwrite allows replacing existing files. Without it an existing
	// output fails the export before anything is written.
	Overwrite bool
	// Progress shows a progress bar on the terminal.
	Progress bool
	// GeoPackage also writes base.gpkg with one layer named after base.
	GeoPackage bool
}

// Export writes the collection to base.shp (with sidecars) and
// base.geojson, and to base.gpkg when asked. All files carry the same
// features and attributes. It returns the paths of the main files
// written.
func Export(c *feature.Collection, base string, opts ExportOptions) ([]string, error) {
	shpPath := base + ".shp"
	jsonPath := base + ".geojson"
	gpkgPath := base + ".gpkg"

	targets := append(shapefileSidecars(shpPath), jsonPath)
	steps := 2
	if opts.GeoPackage {
		targets = append(targets, gpkgPath)
		steps++
	}

	if !opts.Overwrite {
		for _, p := range targets {
			if _, err := os.Stat(p); err == nil {
				return nil, OutputExistsError(p)
			} else if !errors.Is(err, os.ErrNotExist) {
				return nil, WriteError(p, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return nil, WriteError(base, err)
	}

	var step func()
	if opts.Progress && c.Len() > 0 {
		bar := newProgressBar(steps*c.Len(), "Exporting "+filepath.Base(base)+": ")
		defer bar.Finish()
		step = func() { bar.Increment() }
	}

	var res []string
	if err := writeShapefile(shpPath, c, step); err != nil {
		return res, err
	}
	res = append(res, shpPath)
	slog.Info("Shapefile written", "path", shpPath, "features", c.Len())

	if err := writeGeoJSON(jsonPath, c, step); err != nil {
		return res, err
	}
	res = append(res, jsonPath)
	slog.Info("GeoJSON written", "path", jsonPath, "features", c.Len())

	if opts.GeoPackage {
		layer := *c
		layer.Name = filepath.Base(base)
		if err := writeGeoPackage(gpkgPath, step, &layer); err != nil {
			return res, err
		}
		res = append(res, gpkgPath)
		slog.Info("GeoPackage written", "path", gpkgPath,
			"layer", layer.Name, "features", c.Len())
	}

	return res, nil
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(
	total int,
	prefix string,
) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
