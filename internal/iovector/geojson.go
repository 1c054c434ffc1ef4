package iovector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// defaultGeoJSONCRS applies to files without a "crs" member.
const defaultGeoJSONCRS = "EPSG:4326"

func readGeoJSON(path string) (*feature.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}

	base := filepath.Base(path)
	res := &feature.Collection{
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		CRS:  geojsonCRS(fc.ExtraMembers),
	}

	seen := make(map[string]struct{})
	var nulls int
	for _, f := range fc.Features {
		if f.Geometry == nil {
			nulls++
			continue
		}
		attrs := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			attrs[k] = jsonValue(v)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				res.Columns = append(res.Columns, k)
			}
		}
		res.Features = append(res.Features,
			&feature.Feature{Geometry: f.Geometry, Attributes: attrs})
	}
	slices.Sort(res.Columns)

	if nulls > 0 {
		slog.Warn("Skipped features without geometry", "path", path, "features", nulls)
	}
	slog.Debug("GeoJSON loaded", "path", path, "features", res.Len(),
		"crs", res.CRS.String())
	return res, nil
}

// geojsonCRS reads the named "crs" member of a feature collection.
func geojsonCRS(members geojson.Properties) feature.CRS {
	if crs, ok := members["crs"].(map[string]any); ok {
		if props, ok := crs["properties"].(map[string]any); ok {
			if name, ok := props["name"].(string); ok && name != "" {
				return feature.CRSFromID(name)
			}
		}
	}
	return feature.CRSFromID(defaultGeoJSONCRS)
}

// jsonValue keeps scalars and turns nested objects and arrays into JSON
// text.
func jsonValue(v any) any {
	switch t := v.(type) {
	case nil, string, float64, bool:
		return t
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// writeGeoJSON writes the collection as a FeatureCollection. The CRS is
// stored in a named "crs" member unless it is the GeoJSON default.
func writeGeoJSON(path string, c *feature.Collection, step func()) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range c.Features {
		gf := geojson.NewFeature(f.Geometry)
		for _, col := range c.Columns {
			gf.Properties[col] = f.Value(col)
		}
		fc.Append(gf)
		if step != nil {
			step()
		}
	}

	if c.CRS.ID != "" && c.CRS.ID != defaultGeoJSONCRS && c.CRS.ID != "OGC:CRS84" {
		if c.CRS.EPSG() == "" {
			slog.Warn("CRS has no EPSG code, GeoJSON readers may not resolve it",
				"path", path, "crs", c.CRS.ID)
		}
		fc.ExtraMembers = geojson.Properties{
			"crs": map[string]any{
				"type":       "name",
				"properties": map[string]any{"name": c.CRS.URN()},
			},
		}
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return WriteError(path, err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return WriteError(path, err)
	}
	return nil
}
