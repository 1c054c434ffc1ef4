package iovector

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// openGeoPackage opens the container for reading.
func openGeoPackage(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}
	return db, nil
}

func gpkgLayers(path string) ([]string, error) {
	db, err := openGeoPackage(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT table_name FROM gpkg_contents
		WHERE data_type = 'features' ORDER BY rowid`)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, MalformedSourceError(path, err)
		}
		res = append(res, name)
	}
	if err = rows.Err(); err != nil {
		return nil, MalformedSourceError(path, err)
	}
	return res, nil
}

type gpkgColumn struct {
	name     string
	declType string
}

func readGeoPackage(path, layer string) (*feature.Collection, error) {
	if layer == "" {
		return nil, MalformedSourceError(path,
			errors.New("no layer given for GeoPackage container"))
	}

	db, err := openGeoPackage(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var geomCol string
	var srsID int64
	err = db.QueryRow(`SELECT column_name, srs_id FROM gpkg_geometry_columns
		WHERE table_name = ?`, layer).Scan(&geomCol, &srsID)
	if errors.Is(err, sql.ErrNoRows) {
		layers, _ := gpkgLayers(path)
		return nil, LayerNotFoundError(path, layer, layers)
	}
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}

	crs, err := gpkgCRS(db, srsID)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}

	cols, err := gpkgColumns(db, layer, geomCol)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}

	res := &feature.Collection{Name: layer, CRS: crs}
	sel := []string{quoteIdent(geomCol)}
	for _, c := range cols {
		res.Columns = append(res.Columns, c.name)
		sel = append(sel, quoteIdent(c.name))
	}

	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid",
		strings.Join(sel, ", "), quoteIdent(layer))
	rows, err := db.Query(q)
	if err != nil {
		return nil, MalformedSourceError(path, err)
	}
	defer rows.Close()

	var nulls int
	vals := make([]any, len(sel))
	ptrs := make([]any, len(sel))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return nil, MalformedSourceError(path, err)
		}

		blob, _ := vals[0].([]byte)
		geom, err := decodeGeometry(blob)
		if err != nil {
			return nil, MalformedSourceError(path, err)
		}
		if geom == nil {
			nulls++
			continue
		}

		attrs := make(map[string]any, len(cols))
		for i, c := range cols {
			attrs[c.name] = sqlValue(vals[i+1], c.declType)
		}
		res.Features = append(res.Features,
			&feature.Feature{Geometry: geom, Attributes: attrs})
	}
	if err = rows.Err(); err != nil {
		return nil, MalformedSourceError(path, err)
	}

	if nulls > 0 {
		slog.Warn("Skipped records without geometry",
			"path", path, "layer", layer, "records", nulls)
	}
	slog.Debug("GeoPackage layer loaded", "path", path, "layer", layer,
		"features", res.Len(), "crs", crs.String())
	return res, nil
}

// gpkgCRS reads the spatial reference system. Identifiers 0 and -1 are
// the undefined geographic and cartesian systems.
func gpkgCRS(db *sql.DB, srsID int64) (feature.CRS, error) {
	if srsID <= 0 {
		return feature.CRS{}, nil
	}

	var org, def sql.NullString
	var code sql.NullInt64
	err := db.QueryRow(`SELECT organization, organization_coordsys_id, definition
		FROM gpkg_spatial_ref_sys WHERE srs_id = ?`, srsID).Scan(&org, &code, &def)
	if errors.Is(err, sql.ErrNoRows) {
		return feature.CRS{}, fmt.Errorf("srs_id %d is not in gpkg_spatial_ref_sys", srsID)
	}
	if err != nil {
		return feature.CRS{}, err
	}

	var res feature.CRS
	if def.Valid && !strings.EqualFold(strings.TrimSpace(def.String), "undefined") {
		res = feature.CRSFromWKT(def.String)
	}
	if org.Valid && org.String != "" && code.Valid && code.Int64 > 0 {
		id := feature.CRSFromID(
			strings.ToUpper(org.String) + ":" + strconv.FormatInt(code.Int64, 10))
		res.ID = id.ID
		if res.WKT == "" {
			res.Geographic = id.Geographic
		}
	}
	return res, nil
}

// gpkgColumns returns attribute columns of the table in declaration
// order, leaving out the primary key and the geometry column.
func gpkgColumns(db *sql.DB, table, geomCol string) ([]gpkgColumn, error) {
	rows, err := db.Query("PRAGMA table_info(" + quoteIdent(table) + ")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []gpkgColumn
	for rows.Next() {
		var cid, notNull, pk int
		var name, declType string
		var dflt sql.NullString
		if err = rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		if pk > 0 || strings.EqualFold(name, geomCol) {
			continue
		}
		res = append(res, gpkgColumn{name: name, declType: strings.ToUpper(declType)})
	}
	return res, rows.Err()
}

// sqlValue normalises a scanned SQLite value to the attribute types of
// feature.Feature.
func sqlValue(v any, declType string) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int64:
		if declType == "BOOLEAN" {
			return t != 0
		}
		return t
	case float64, string, bool:
		return t
	case []byte:
		return string(t)
	default:
		s, _ := feature.Text(t)
		return s
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// decodeGeometry parses a GeoPackage geometry blob: a "GP" header with
// version, flags, srs_id and an optional envelope, followed by WKB.
// Empty and NULL geometries give nil.
func decodeGeometry(blob []byte) (orb.Geometry, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob) < 8 || blob[0] != 'G' || blob[1] != 'P' {
		return nil, errors.New("invalid GeoPackage geometry header")
	}
	flags := blob[3]
	if flags&0x10 != 0 {
		return nil, nil
	}

	var envelope int
	switch (flags >> 1) & 0x07 {
	case 0:
	case 1:
		envelope = 32
	case 2, 3:
		envelope = 48
	case 4:
		envelope = 64
	default:
		return nil, fmt.Errorf("invalid envelope code in flags 0x%02x", flags)
	}

	start := 8 + envelope
	if len(blob) <= start {
		return nil, errors.New("truncated GeoPackage geometry")
	}
	data, err := flattenWKB(blob[start:])
	if err != nil {
		return nil, err
	}
	return wkb.Unmarshal(data)
}

// encodeGeometry builds a GeoPackage geometry blob without envelope.
func encodeGeometry(g orb.Geometry, srsID int32) ([]byte, error) {
	data, err := wkb.Marshal(g, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	head := make([]byte, 8, 8+len(data))
	head[0], head[1] = 'G', 'P'
	head[2] = 0
	head[3] = 0x01
	binary.LittleEndian.PutUint32(head[4:], uint32(srsID))
	return append(head, data...), nil
}

const gpkgSchema = `
PRAGMA application_id = 1196444487;
PRAGMA user_version = 10300;
CREATE TABLE gpkg_spatial_ref_sys (
  srs_name TEXT NOT NULL,
  srs_id INTEGER PRIMARY KEY,
  organization TEXT NOT NULL,
  organization_coordsys_id INTEGER NOT NULL,
  definition TEXT NOT NULL,
  description TEXT
);
CREATE TABLE gpkg_contents (
  table_name TEXT NOT NULL PRIMARY KEY,
  data_type TEXT NOT NULL,
  identifier TEXT UNIQUE,
  description TEXT DEFAULT '',
  last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
  min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE,
  srs_id INTEGER
);
CREATE TABLE gpkg_geometry_columns (
  table_name TEXT NOT NULL,
  column_name TEXT NOT NULL,
  geometry_type_name TEXT NOT NULL,
  srs_id INTEGER NOT NULL,
  z TINYINT NOT NULL,
  m TINYINT NOT NULL,
  CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name)
);
INSERT INTO gpkg_spatial_ref_sys VALUES
  ('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', NULL),
  ('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', NULL);
`

// WriteGeoPackage writes the collections as feature layers of a new
// GeoPackage, in the given order. An existing file is replaced.
func WriteGeoPackage(path string, layers ...*feature.Collection) error {
	return writeGeoPackage(path, nil, layers...)
}

// writeGeoPackage is WriteGeoPackage calling step after each feature.
func writeGeoPackage(
	path string,
	step func(),
	layers ...*feature.Collection,
) error {
	if err := removeStale(path); err != nil {
		return WriteError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return WriteError(path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return WriteError(path, err)
	}
	defer tx.Rollback()

	for _, q := range strings.Split(gpkgSchema, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err = tx.Exec(q); err != nil {
			return WriteError(path, err)
		}
	}
	for _, c := range layers {
		if err = writeGpkgLayer(tx, c, step); err != nil {
			return WriteError(path, fmt.Errorf("layer %s: %w", c.Name, err))
		}
	}
	if err = tx.Commit(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func writeGpkgLayer(tx *sql.Tx, c *feature.Collection, step func()) error {
	srsID, err := gpkgSRS(tx, c.CRS)
	if err != nil {
		return err
	}

	defs := []string{`"fid" INTEGER PRIMARY KEY AUTOINCREMENT`, `"geom" GEOMETRY`}
	kinds := make([]byte, len(c.Columns))
	for i, col := range c.Columns {
		kinds[i], _ = columnType(c, col)
		defs = append(defs, quoteIdent(col)+" "+sqlType(kinds[i]))
	}
	_, err = tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)",
		quoteIdent(c.Name), strings.Join(defs, ", ")))
	if err != nil {
		return err
	}

	var minX, minY, maxX, maxY any
	if b, ok := c.Bound(); ok {
		minX, minY, maxX, maxY = b.Min[0], b.Min[1], b.Max[0], b.Max[1]
	}
	_, err = tx.Exec(`INSERT INTO gpkg_contents
		(table_name, data_type, identifier, min_x, min_y, max_x, max_y, srs_id)
		VALUES (?, 'features', ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Name, minX, minY, maxX, maxY, srsID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO gpkg_geometry_columns
		VALUES (?, 'geom', 'GEOMETRY', ?, 0, 0)`, c.Name, srsID)
	if err != nil {
		return err
	}

	cols := []string{`"geom"`}
	marks := []string{"?"}
	for _, col := range c.Columns {
		cols = append(cols, quoteIdent(col))
		marks = append(marks, "?")
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(c.Name), strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range c.Features {
		blob, err := encodeGeometry(f.Geometry, int32(srsID))
		if err != nil {
			return err
		}
		args := []any{blob}
		for _, col := range c.Columns {
			args = append(args, f.Value(col))
		}
		if _, err = stmt.Exec(args...); err != nil {
			return err
		}
		if step != nil {
			step()
		}
	}
	return nil
}

// gpkgSRS registers the CRS and returns its srs_id. Non-EPSG systems map
// to the undefined cartesian system.
func gpkgSRS(tx *sql.Tx, crs feature.CRS) (int64, error) {
	code, err := strconv.ParseInt(crs.EPSG(), 10, 64)
	if err != nil || code <= 0 {
		return -1, nil
	}

	def := crs.WKT
	if def == "" {
		def = knownWKT[crs.ID]
	}
	if def == "" {
		def = "undefined"
	}
	_, err = tx.Exec(`INSERT OR IGNORE INTO gpkg_spatial_ref_sys
		(srs_name, srs_id, organization, organization_coordsys_id, definition)
		VALUES (?, ?, 'EPSG', ?, ?)`, crs.ID, code, code, def)
	return code, err
}

func sqlType(kind byte) string {
	switch kind {
	case 'N':
		return "INTEGER"
	case 'F':
		return "REAL"
	case 'L':
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
