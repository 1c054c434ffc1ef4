package iovector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

const (
	// dbfNameLen is the longest dBASE field name.
	dbfNameLen = 10
	// dbfMaxSize is the widest dBASE field go-shp can describe.
	dbfMaxSize = 254
	// dbfDecimals is the precision used for floating point fields.
	dbfDecimals = 8
)

// shpFileCode opens every .shp main file header.
const shpFileCode = 9994

// dbfEncoding is the .dbf text encoding, declared in the .cpg sidecar.
const dbfEncoding = "UTF-8"

func readShapefile(path string) (*feature.Collection, error) {
	if err := checkShpHeader(path); err != nil {
		return nil, MalformedSourceError(path, err)
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}
	defer r.Close()

	crs, err := readPrj(path)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}

	fields := r.Fields()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.String()
	}

	base := filepath.Base(path)
	res := &feature.Collection{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Columns: columns,
		CRS:     crs,
	}

	var nulls int
	for r.Next() {
		row, s := r.Shape()
		geom, err := shapeGeometry(s)
		if err != nil {
			return nil, MalformedSourceError(path, err)
		}
		if geom == nil {
			nulls++
			continue
		}

		attrs := make(map[string]any, len(fields))
		for i, f := range fields {
			attrs[columns[i]] = dbfValue(f, r.ReadAttribute(row, i))
		}
		res.Features = append(res.Features,
			&feature.Feature{Geometry: geom, Attributes: attrs})
	}
	if err = r.Err(); err != nil {
		return nil, MalformedSourceError(path, err)
	}

	if nulls > 0 {
		slog.Warn("Skipped records without geometry", "path", path, "records", nulls)
	}
	slog.Debug("Shapefile loaded", "path", path, "features", res.Len(),
		"crs", crs.String())
	return res, nil
}

func checkShpHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 100)
	if _, err = io.ReadFull(f, head); err != nil {
		return fmt.Errorf("short shapefile header: %w", err)
	}
	if code := binary.BigEndian.Uint32(head); code != shpFileCode {
		return fmt.Errorf("bad shapefile file code %d", code)
	}
	return nil
}

// dbfValue converts a raw dBASE value to nil, string, int64, float64 or
// bool according to the field type.
func dbfValue(f shp.Field, raw string) any {
	raw = strings.Trim(raw, " \x00")
	if raw == "" {
		return nil
	}
	switch f.Fieldtype {
	case 'N':
		if f.Precision == 0 {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return i
			}
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return nil
	case 'F':
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return nil
	case 'L':
		switch raw {
		case "T", "t", "Y", "y":
			return true
		case "F", "f", "N", "n":
			return false
		}
		return nil
	default:
		return raw
	}
}

// shapeGeometry converts a shapefile record. Null shapes give nil.
func shapeGeometry(s shp.Shape) (orb.Geometry, error) {
	switch v := s.(type) {
	case nil, *shp.Null:
		return nil, nil
	case *shp.Point:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointM:
		return orb.Point{v.X, v.Y}, nil
	case *shp.MultiPoint:
		return multiPoint(v.Points), nil
	case *shp.MultiPointZ:
		return multiPoint(v.Points), nil
	case *shp.MultiPointM:
		return multiPoint(v.Points), nil
	case *shp.PolyLine:
		return lineGeometry(v.Parts, v.Points), nil
	case *shp.PolyLineZ:
		return lineGeometry(v.Parts, v.Points), nil
	case *shp.PolyLineM:
		return lineGeometry(v.Parts, v.Points), nil
	case *shp.Polygon:
		return polygonGeometry(v.Parts, v.Points), nil
	case *shp.PolygonZ:
		return polygonGeometry(v.Parts, v.Points), nil
	case *shp.PolygonM:
		return polygonGeometry(v.Parts, v.Points), nil
	default:
		return nil, fmt.Errorf("unsupported shape type %T", s)
	}
}

func multiPoint(pts []shp.Point) orb.Geometry {
	if len(pts) == 0 {
		return nil
	}
	res := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		res[i] = orb.Point{p.X, p.Y}
	}
	return res
}

// splitParts cuts the point list at the part start indices.
func splitParts(parts []int32, pts []shp.Point) [][]orb.Point {
	var res [][]orb.Point
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(pts) {
			continue
		}
		part := make([]orb.Point, 0, end-start)
		for _, p := range pts[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		res = append(res, part)
	}
	return res
}

func lineGeometry(parts []int32, pts []shp.Point) orb.Geometry {
	split := splitParts(parts, pts)
	switch len(split) {
	case 0:
		return nil
	case 1:
		return orb.LineString(split[0])
	}
	res := make(orb.MultiLineString, len(split))
	for i, p := range split {
		res[i] = orb.LineString(p)
	}
	return res
}

// polygonGeometry groups shapefile rings into polygons. A clockwise ring
// starts a new polygon, counter-clockwise rings are holes of the
// preceding one. Rings are turned to the GeoJSON winding (outer
// counter-clockwise).
func polygonGeometry(parts []int32, pts []shp.Point) orb.Geometry {
	var res orb.MultiPolygon
	for _, p := range splitParts(parts, pts) {
		ring := orb.Ring(p)
		if len(res) == 0 || ring.Orientation() != orb.CCW {
			if ring.Orientation() == orb.CW {
				ring.Reverse()
			}
			res = append(res, orb.Polygon{ring})
			continue
		}
		ring.Reverse()
		last := len(res) - 1
		res[last] = append(res[last], ring)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	}
	return res
}

// writeShapefile writes the collection to path (.shp) with .shx, .dbf,
// .prj and .cpg sidecars. step is called after each feature.
func writeShapefile(path string, c *feature.Collection, step func()) error {
	shapeType, err := shapeTypeOf(c)
	if err != nil {
		return GeometryError(path, err)
	}

	shapes := make([]shp.Shape, len(c.Features))
	for i, f := range c.Features {
		if shapes[i], err = toShape(f.Geometry, shapeType); err != nil {
			return GeometryError(path, err)
		}
	}

	cols := dbfColumns(c)

	w, err := shp.Create(path, shapeType)
	if err != nil {
		return WriteError(path, err)
	}

	fields := make([]shp.Field, len(cols))
	for i, col := range cols {
		fields[i] = col.field
	}
	if err = w.SetFields(fields); err != nil {
		w.Close()
		return WriteError(path, err)
	}

	for i, f := range c.Features {
		row := int(w.Write(shapes[i]))
		for j, col := range cols {
			if err = w.WriteAttribute(row, j, col.value(f, i)); err != nil {
				w.Close()
				return WriteError(path, fmt.Errorf("column %s: %w", col.name, err))
			}
		}
		if step != nil {
			step()
		}
	}
	w.Close()

	if err = writePrj(path, c.CRS); err != nil {
		return WriteError(prjPath(path), err)
	}
	if err = os.WriteFile(cpgPath(path), []byte(dbfEncoding), 0644); err != nil {
		return WriteError(cpgPath(path), err)
	}
	return nil
}

func cpgPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".cpg"
}

func shapeTypeOf(c *feature.Collection) (shp.ShapeType, error) {
	kind := c.GeometryKind()
	var multiPoint bool
	for _, f := range c.Features {
		if k := feature.KindOf(f.Geometry); k != kind {
			return shp.NULL, fmt.Errorf("mixed geometry kinds %s and %s", kind, k)
		}
		if _, ok := f.Geometry.(orb.MultiPoint); ok {
			multiPoint = true
		}
	}
	switch kind {
	case feature.LineGeometry:
		return shp.POLYLINE, nil
	case feature.PolygonGeometry:
		return shp.POLYGON, nil
	case feature.PointGeometry:
		if multiPoint {
			return shp.MULTIPOINT, nil
		}
		return shp.POINT, nil
	default:
		if c.Len() == 0 {
			return shp.NULL, nil
		}
		return shp.NULL, errors.New("unknown geometry kind")
	}
}

func toShape(g orb.Geometry, t shp.ShapeType) (shp.Shape, error) {
	switch v := g.(type) {
	case orb.Point:
		if t == shp.MULTIPOINT {
			return toMultiPoint(orb.MultiPoint{v}), nil
		}
		return &shp.Point{X: v[0], Y: v[1]}, nil
	case orb.MultiPoint:
		return toMultiPoint(v), nil
	case orb.LineString:
		return shp.NewPolyLine([][]shp.Point{shpPoints(v)}), nil
	case orb.MultiLineString:
		parts := make([][]shp.Point, len(v))
		for i, ls := range v {
			parts[i] = shpPoints(ls)
		}
		return shp.NewPolyLine(parts), nil
	case orb.Ring:
		return toPolygon(orb.MultiPolygon{{v}}), nil
	case orb.Polygon:
		return toPolygon(orb.MultiPolygon{v}), nil
	case orb.MultiPolygon:
		return toPolygon(v), nil
	default:
		return nil, fmt.Errorf("geometry %T cannot be stored in a shapefile", g)
	}
}

func toMultiPoint(mp orb.MultiPoint) shp.Shape {
	pts := shpPoints(mp)
	return &shp.MultiPoint{
		Box:       shp.BBoxFromPoints(pts),
		NumPoints: int32(len(pts)),
		Points:    pts,
	}
}

// toPolygon writes outer rings clockwise and holes counter-clockwise.
// The source rings are not modified.
func toPolygon(mp orb.MultiPolygon) shp.Shape {
	var parts [][]shp.Point
	for _, poly := range mp {
		for i, r := range poly {
			r = closeRing(r.Clone())
			o := r.Orientation()
			if (i == 0 && o == orb.CCW) || (i > 0 && o == orb.CW) {
				r.Reverse()
			}
			parts = append(parts, shpPoints(r))
		}
	}
	pl := shp.NewPolyLine(parts)
	res := shp.Polygon(*pl)
	return &res
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

func shpPoints[T ~[]orb.Point](pts T) []shp.Point {
	res := make([]shp.Point, len(pts))
	for i, p := range pts {
		res[i] = shp.Point{X: p[0], Y: p[1]}
	}
	return res
}

// dbfColumn maps a collection column to a dBASE field.
type dbfColumn struct {
	name  string
	field shp.Field
	kind  byte
}

// value returns what WriteAttribute accepts for the field: int, float64
// or string. Missing values are empty strings.
func (d dbfColumn) value(f *feature.Feature, row int) any {
	if d.name == "" {
		return row
	}
	v := f.Value(d.name)
	if v == nil {
		return ""
	}
	switch d.kind {
	case 'N':
		switch t := v.(type) {
		case int64:
			return int(t)
		case int:
			return t
		}
	case 'F':
		switch t := v.(type) {
		case float64:
			return t
		case int64:
			return float64(t)
		case int:
			return float64(t)
		}
	case 'L':
		if b, ok := v.(bool); ok && b {
			return "T"
		}
		return "F"
	}
	s, _ := feature.Text(v)
	return truncateUTF8(s, int(d.field.Size))
}

// dbfColumns derives dBASE fields from the collection schema and values.
// Names are cut to 10 bytes and made unique. A collection without
// columns gets an FID column, since the .dbf must have at least one
// field.
func dbfColumns(c *feature.Collection) []dbfColumn {
	if len(c.Columns) == 0 {
		return []dbfColumn{{
			field: shp.NumberField("FID", uint8(len(strconv.Itoa(c.Len()))+1)),
			kind:  'N',
		}}
	}

	used := make(map[string]struct{})
	res := make([]dbfColumn, len(c.Columns))
	for i, col := range c.Columns {
		name := dbfName(col, used)
		kind, size := columnType(c, col)
		var field shp.Field
		switch kind {
		case 'N':
			field = shp.NumberField(name, size)
		case 'F':
			field = shp.FloatField(name, size, dbfDecimals)
		case 'L':
			field = shp.StringField(name, 1)
			field.Fieldtype = 'L'
		default:
			field = shp.StringField(name, size)
		}
		res[i] = dbfColumn{name: col, field: field, kind: kind}
	}
	return res
}

func dbfName(col string, used map[string]struct{}) string {
	name := truncateUTF8(col, dbfNameLen)
	if name == "" {
		name = "FIELD"
	}
	base := name
	for i := 1; ; i++ {
		if _, ok := used[strings.ToUpper(name)]; !ok {
			break
		}
		suffix := strconv.Itoa(i)
		name = truncateUTF8(base, dbfNameLen-len(suffix)) + suffix
	}
	used[strings.ToUpper(name)] = struct{}{}
	return name
}

// columnType picks the dBASE type that holds every value of the column
// and the field width.
func columnType(c *feature.Collection, col string) (byte, uint8) {
	var ints, floats, bools, texts int
	var intWidth, floatWidth, textWidth int
	for _, f := range c.Features {
		v := f.Value(col)
		s, _ := feature.Text(v)
		switch t := v.(type) {
		case nil:
		case int64, int:
			ints++
			intWidth = max(intWidth, len(s))
		case float64:
			floats++
			floatWidth = max(floatWidth,
				len(strconv.FormatFloat(t, 'f', dbfDecimals, 64)))
		case bool:
			bools++
		default:
			texts++
			textWidth = max(textWidth, len(s))
		}
	}

	switch {
	case texts == 0 && floats == 0 && bools == 0 && ints > 0:
		return 'N', fieldSize(intWidth)
	case texts == 0 && bools == 0 && floats > 0:
		if ints > 0 {
			floatWidth = max(floatWidth, intWidth+1+dbfDecimals)
		}
		return 'F', fieldSize(floatWidth)
	case texts == 0 && ints == 0 && floats == 0 && bools > 0:
		return 'L', 1
	}
	// Mixed columns are stored as text.
	width := max(textWidth, intWidth, floatWidth, 5)
	return 'C', fieldSize(width)
}

func fieldSize(width int) uint8 {
	return uint8(min(max(width, 1), dbfMaxSize))
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// shapefileSidecars lists the files written for a shapefile.
func shapefileSidecars(path string) []string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return []string{
		base + ".shp", base + ".shx", base + ".dbf", base + ".prj", base + ".cpg",
	}
}

func removeStale(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
