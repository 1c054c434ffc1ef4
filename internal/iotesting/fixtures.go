// Package iotesting provides shared fixtures for tests that read and
// write Geofabric-like data on disk.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iovector"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// GDA94 is the CRS Geofabric data is distributed in.
var GDA94 = feature.CRSFromID("EPSG:4283")

// MGA55 is a projected CRS in metres covering the Goulburn basin.
var MGA55 = feature.CRSFromID("EPSG:28355")

// Streams returns a line collection in MGA55 with one feature per name.
// Feature i is a 1000 m long east-west segment starting at y = i*100.
func Streams(names ...string) *feature.Collection {
	res := &feature.Collection{
		Name:    "HR_Streams",
		Columns: []string{"HydroID", "Name", "Shape_Leng"},
		CRS:     MGA55,
	}
	for i, n := range names {
		x, y := 300000.0, 5950000.0+float64(i)*100
		var name any
		if n != "" {
			name = n
		}
		res.Features = append(res.Features, &feature.Feature{
			Geometry: orb.LineString{{x, y}, {x + 1000, y}},
			Attributes: map[string]any{
				"HydroID":    int64(i + 1),
				"Name":       name,
				"Shape_Leng": 1000.0,
			},
		})
	}
	return res
}

// Catchments returns a polygon collection in MGA55 with one feature per
// name. Feature i is a 1 km by 1 km square, an area of 1 km².
func Catchments(names ...string) *feature.Collection {
	res := &feature.Collection{
		Name:    "HR_Catchments",
		Columns: []string{"HydroID", "RivRegName"},
		CRS:     MGA55,
	}
	for i, n := range names {
		x, y := 300000.0+float64(i)*1000, 5950000.0
		ring := orb.Ring{{x, y}, {x + 1000, y}, {x + 1000, y + 1000}, {x, y + 1000}, {x, y}}
		var name any
		if n != "" {
			name = n
		}
		res.Features = append(res.Features, &feature.Feature{
			Geometry: orb.Polygon{ring},
			Attributes: map[string]any{
				"HydroID":    int64(i + 1),
				"RivRegName": name,
			},
		})
	}
	return res
}

// GoulburnNames returns n names where the first k mention the Goulburn
// River and the rest other rivers.
func GoulburnNames(n, k int) []string {
	res := make([]string, n)
	for i := range res {
		if i < k {
			res[i] = "Goulburn River"
			continue
		}
		res[i] = fmt.Sprintf("Broken Creek %d", i)
	}
	return res
}

// WriteShapefile writes the collection to dir/rel (.shp) with sidecars.
func WriteShapefile(t *testing.T, dir, rel string, c *feature.Collection) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	base := path[:len(path)-len(filepath.Ext(path))]
	_, err := iovector.Export(c, base, iovector.ExportOptions{Overwrite: true})
	require.NoError(t, err)
	require.NoError(t, os.Remove(base+".geojson"))
	return path
}

// WriteGeoPackage writes the collections as layers of dir/rel.
func WriteGeoPackage(
	t *testing.T,
	dir, rel string,
	layers ...*feature.Collection,
) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, iovector.WriteGeoPackage(path, layers...))
	return path
}

// WriteFile writes raw content to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
