// Package feature provides the in-memory model of a vector layer: an
// ordered list of geometry and attribute records with a schema and a
// coordinate reference system.
//
// The package is pure. Reading and writing of vector formats lives in
// internal/iovector.
package feature

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/paulmach/orb"
)

// GeometryKind is the broad class of geometry carried by a feature.
type GeometryKind int

const (
	UnknownGeometry GeometryKind = iota
	PointGeometry
	LineGeometry
	PolygonGeometry
)

func (k GeometryKind) String() string {
	switch k {
	case PointGeometry:
		return "point"
	case LineGeometry:
		return "line"
	case PolygonGeometry:
		return "polygon"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of the geometry. Nil geometries are unknown.
func KindOf(g orb.Geometry) GeometryKind {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return PointGeometry
	case orb.LineString, orb.MultiLineString:
		return LineGeometry
	case orb.Ring, orb.Polygon, orb.MultiPolygon:
		return PolygonGeometry
	default:
		return UnknownGeometry
	}
}

// Feature is a single geometry with its attribute values.
// Attribute values are one of nil, string, int64, float64, bool.
type Feature struct {
	Geometry   orb.Geometry
	Attributes map[string]any
}

// Value returns the attribute value for the column, nil if absent.
func (f *Feature) Value(column string) any {
	if f.Attributes == nil {
		return nil
	}
	return f.Attributes[column]
}

// Collection is an ordered set of features that share a schema and a CRS.
// Features are held by pointer; a subset produced by filtering refers to
// the very same records as its source.
type Collection struct {
	// Name is the layer or file name the features were read from.
	Name string
	// Columns is the ordered attribute schema.
	Columns []string
	// CRS of all feature coordinates.
	CRS CRS
	// Features in source order.
	Features []*Feature
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// HasColumn reports whether the column is part of the schema.
func (c *Collection) HasColumn(name string) bool {
	return slices.Contains(c.Columns, name)
}

// GeometryKind returns the kind of the first feature with a known
// geometry kind.
func (c *Collection) GeometryKind() GeometryKind {
	if c == nil {
		return UnknownGeometry
	}
	for _, f := range c.Features {
		if k := KindOf(f.Geometry); k != UnknownGeometry {
			return k
		}
	}
	return UnknownGeometry
}

// Bound returns the minimal box enclosing every geometry. The second
// value is false when the collection has no geometries at all.
func (c *Collection) Bound() (orb.Bound, bool) {
	var res orb.Bound
	var found bool
	if c == nil {
		return res, false
	}
	for _, f := range c.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			res = b
			found = true
			continue
		}
		res = res.Union(b)
	}
	return res, found
}

// Subset returns a new collection with the same name, schema and CRS
// holding the given features. The receiver is not modified.
func (c *Collection) Subset(features []*Feature) *Collection {
	return &Collection{
		Name:     c.Name,
		Columns:  slices.Clone(c.Columns),
		CRS:      c.CRS,
		Features: features,
	}
}

// Text coerces an attribute value to text. The second value is false for
// nil values, which never take part in text matching.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}
