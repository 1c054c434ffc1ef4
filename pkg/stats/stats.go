// Package stats computes descriptive statistics of feature collections
// and the fixed statistics table of an extraction run.
package stats

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// Summary describes a collection. Extents are lengths for line
// collections and areas for polygon collections, in metres (square
// metres) for geographic CRSs and in native CRS units otherwise.
type Summary struct {
	Geometry     feature.GeometryKind
	FeatureCount int

	// TotalExtent is the sum of per-feature extents.
	TotalExtent float64
	// MeanExtent is TotalExtent / FeatureCount, 0 for empty collections.
	MeanExtent float64
	// MaxExtent is the largest per-feature extent.
	MaxExtent float64

	// CRS is the identifier of the collection's CRS, as is.
	CRS string

	// BBox is the box enclosing all geometries in native coordinates.
	// It is nil when the collection has no geometry, never a zero box.
	BBox *orb.Bound
}

// HasBBox reports whether the bounding box is defined.
func (s Summary) HasBBox() bool {
	return s.BBox != nil
}

// Summarize computes the summary of the collection. It does not modify
// the collection.
func Summarize(c *feature.Collection) Summary {
	res := Summary{
		Geometry:     c.GeometryKind(),
		FeatureCount: c.Len(),
	}
	if c == nil {
		return res
	}
	res.CRS = c.CRS.ID

	for _, f := range c.Features {
		e := Extent(f.Geometry, res.Geometry, c.CRS.Geographic)
		res.TotalExtent += e
		res.MaxExtent = math.Max(res.MaxExtent, e)
	}
	if res.FeatureCount > 0 {
		res.MeanExtent = res.TotalExtent / float64(res.FeatureCount)
	}

	if b, ok := c.Bound(); ok {
		res.BBox = &b
	}
	return res
}

// Extent is the length of line geometries and the area of polygon
// geometries, measured as kind dictates. Geographic coordinates are
// measured on the sphere in metres.
func Extent(g orb.Geometry, kind feature.GeometryKind, geographic bool) float64 {
	if g == nil {
		return 0
	}
	switch kind {
	case feature.LineGeometry:
		if geographic {
			return geo.Length(g)
		}
		return planar.Length(g)
	case feature.PolygonGeometry:
		if feature.KindOf(g) != feature.PolygonGeometry {
			return 0
		}
		if geographic {
			return math.Abs(geo.Area(g))
		}
		return math.Abs(planar.Area(g))
	}
	return 0
}
