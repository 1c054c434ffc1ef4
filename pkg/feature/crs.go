package feature

import (
	"regexp"
	"strings"
)

// CRS identifies the coordinate reference system of a collection.
type CRS struct {
	// ID is a short identifier such as "EPSG:4283", or the WKT name when
	// no authority code is known. Empty means undefined.
	ID string
	// WKT is the full definition, when the source provided one.
	WKT string
	// Geographic is true for longitude/latitude systems, where lengths
	// and areas have to be measured on the ellipsoid.
	Geographic bool
}

// String returns the ID, or "undefined".
func (c CRS) String() string {
	if c.ID == "" {
		return "undefined"
	}
	return c.ID
}

// EPSG returns the numeric EPSG code part of the ID, or empty string.
func (c CRS) EPSG() string {
	code, ok := strings.CutPrefix(strings.ToUpper(c.ID), "EPSG:")
	if !ok {
		return ""
	}
	return code
}

var (
	wktAuthority = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)
	wktID        = regexp.MustCompile(`ID\[\s*"EPSG"\s*,\s*(\d+)\s*\]`)
	wktHead      = regexp.MustCompile(`^\s*([A-Z0-9_]+)\[\s*"([^"]*)"`)
)

// geographicEPSG lists common longitude/latitude systems, used when only an
// identifier is known.
var geographicEPSG = map[string]struct{}{
	"4326": {}, // WGS 84
	"4283": {}, // GDA94
	"7844": {}, // GDA2020
	"4269": {}, // NAD83
	"4258": {}, // ETRS89
	"4202": {}, // AGD66
	"4203": {}, // AGD84
}

// esriEPSG maps names used by Esri .prj files, which carry no
// authority, to EPSG codes.
var esriEPSG = map[string]string{
	"GCS_WGS_1984":              "4326",
	"GCS_GDA_1994":              "4283",
	"GCS_GDA2020":               "7844",
	"GDA_1994_MGA_Zone_54":      "28354",
	"GDA_1994_MGA_Zone_55":      "28355",
	"GDA_1994_MGA_Zone_56":      "28356",
	"GDA2020_MGA_Zone_54":       "7854",
	"GDA2020_MGA_Zone_55":       "7855",
	"GDA2020_MGA_Zone_56":       "7856",
	"GDA_1994_Australia_Albers": "3577",
	"GDA2020_Australian_Albers": "9473",
}

// epsgFromName returns the EPSG identifier of a well-known Esri name.
func epsgFromName(name string) (string, bool) {
	code, ok := esriEPSG[name]
	if !ok {
		return "", false
	}
	return "EPSG:" + code, true
}

// CRSFromWKT builds a CRS from a WKT definition. The top-level EPSG
// authority becomes the ID; without it a well-known Esri name is
// converted to its EPSG code, otherwise the WKT name is used.
func CRSFromWKT(wkt string) CRS {
	wkt = strings.TrimSpace(wkt)
	res := CRS{WKT: wkt}
	if wkt == "" {
		return res
	}

	head := wktHead.FindStringSubmatch(wkt)
	if len(head) == 3 {
		switch head[1] {
		case "GEOGCS", "GEOGCRS", "GEODCRS":
			res.Geographic = true
		}
		res.ID = head[2]
	}

	// Only an authority closing the outermost definition names the CRS
	// itself; inner ones belong to datums and base systems.
	for _, re := range []*regexp.Regexp{wktAuthority, wktID} {
		m := re.FindAllStringSubmatchIndex(wkt, -1)
		if len(m) == 0 {
			continue
		}
		last := m[len(m)-1]
		if strings.Trim(wkt[last[1]:], "] \t\r\n") != "" {
			continue
		}
		res.ID = "EPSG:" + wkt[last[2]:last[3]]
		break
	}

	if id, ok := epsgFromName(res.ID); ok {
		res.ID = id
	}
	return res
}

// CRSFromID builds a CRS from an identifier such as "EPSG:4283",
// "urn:ogc:def:crs:EPSG::28355", "OGC:CRS84" or an Esri name like
// "GCS_GDA_1994".
func CRSFromID(id string) CRS {
	id = strings.TrimSpace(id)
	if id == "" {
		return CRS{}
	}
	if epsg, ok := epsgFromName(id); ok {
		id = epsg
	}
	up := strings.ToUpper(id)
	if strings.HasSuffix(up, "CRS84") {
		return CRS{ID: "OGC:CRS84", Geographic: true}
	}
	if strings.HasPrefix(up, "URN:OGC:DEF:CRS:EPSG:") {
		parts := strings.Split(id, ":")
		id = "EPSG:" + parts[len(parts)-1]
		up = strings.ToUpper(id)
	}
	res := CRS{ID: id}
	if code, ok := strings.CutPrefix(up, "EPSG:"); ok {
		res.ID = "EPSG:" + code
		_, res.Geographic = geographicEPSG[code]
	}
	return res
}

// URN returns the OGC URN form of an EPSG identifier, used by the
// GeoJSON "crs" member. Non-EPSG identifiers are returned as is.
func (c CRS) URN() string {
	if c.ID == "OGC:CRS84" {
		return "urn:ogc:def:crs:OGC:1.3:CRS84"
	}
	if code := c.EPSG(); code != "" {
		return "urn:ogc:def:crs:EPSG::" + code
	}
	return c.ID
}
