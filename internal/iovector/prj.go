package iovector

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

const gda94 = `GEOGCS["GDA94",DATUM["Geocentric_Datum_of_Australia_1994",SPHEROID["GRS 1980",6378137,298.257222101,AUTHORITY["EPSG","7019"]],TOWGS84[0,0,0,0,0,0,0],AUTHORITY["EPSG","6283"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4283"]]`

// knownWKT holds definitions of the systems Geofabric data is published
// in, for sources that carry only an EPSG code.
var knownWKT = map[string]string{
	"EPSG:4283":  gda94,
	"EPSG:4326":  `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`,
	"EPSG:7844":  `GEOGCS["GDA2020",DATUM["Geocentric_Datum_of_Australia_2020",SPHEROID["GRS 1980",6378137,298.257222101,AUTHORITY["EPSG","7019"]],AUTHORITY["EPSG","1168"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","7844"]]`,
	"EPSG:3577":  `PROJCS["GDA94 / Australian Albers",` + gda94 + `,PROJECTION["Albers_Conic_Equal_Area"],PARAMETER["latitude_of_center",0],PARAMETER["longitude_of_center",132],PARAMETER["standard_parallel_1",-18],PARAMETER["standard_parallel_2",-36],PARAMETER["false_easting",0],PARAMETER["false_northing",0],UNIT["metre",1,AUTHORITY["EPSG","9001"]],AXIS["Easting",EAST],AXIS["Northing",NORTH],AUTHORITY["EPSG","3577"]]`,
	"EPSG:28355": `PROJCS["GDA94 / MGA zone 55",` + gda94 + `,PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",147],PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],PARAMETER["false_northing",10000000],UNIT["metre",1,AUTHORITY["EPSG","9001"]],AXIS["Easting",EAST],AXIS["Northing",NORTH],AUTHORITY["EPSG","28355"]]`,
}

func prjPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
}

// readPrj reads the .prj sidecar. A missing sidecar gives an undefined
// CRS.
func readPrj(path string) (feature.CRS, error) {
	data, err := os.ReadFile(prjPath(path))
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Shapefile has no .prj, CRS is undefined", "path", path)
		return feature.CRS{}, nil
	}
	if err != nil {
		return feature.CRS{}, err
	}
	return feature.CRSFromWKT(string(data)), nil
}

// writePrj writes the CRS definition next to the shapefile. Without a
// known definition no .prj is written and a stale one is removed.
func writePrj(path string, crs feature.CRS) error {
	p := prjPath(path)
	wkt := crs.WKT
	if wkt == "" {
		wkt = knownWKT[crs.ID]
	}
	if wkt == "" {
		if crs.ID != "" {
			slog.Warn("No WKT definition for CRS, .prj not written",
				"path", path, "crs", crs.ID)
		}
		return removeStale(p)
	}
	return os.WriteFile(p, []byte(wkt), 0644)
}
