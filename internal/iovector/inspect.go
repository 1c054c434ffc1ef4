package iovector

import (
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// LayerInfo describes one layer of a source.
type LayerInfo struct {
	Name     string
	Geometry feature.GeometryKind
	Features int
	Columns  []string
	CRS      feature.CRS
}

// Info describes a vector source.
type Info struct {
	Path   string
	Format Format
	Layers []LayerInfo
}

// Inspect reads every layer of the source and reports its schema, CRS
// and feature count.
func Inspect(path string) (*Info, error) {
	layers, err := Layers(path)
	if err != nil {
		return nil, err
	}

	res := &Info{Path: path, Format: FormatOf(path)}
	for _, l := range layers {
		c, err := Load(path, l)
		if err != nil {
			return nil, err
		}
		res.Layers = append(res.Layers, LayerInfo{
			Name:     l,
			Geometry: c.GeometryKind(),
			Features: c.Len(),
			Columns:  c.Columns,
			CRS:      c.CRS,
		})
	}
	return res, nil
}
