package filter_test

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/filter"
)

func streams(names ...any) *feature.Collection {
	res := &feature.Collection{
		Name:    "HR_Streams",
		Columns: []string{"HydroID", "Name", "AltName"},
		CRS:     feature.CRSFromID("EPSG:4283"),
	}
	for i, n := range names {
		x := float64(i)
		res.Features = append(res.Features, &feature.Feature{
			Geometry: orb.LineString{{x, 0}, {x, 1}},
			Attributes: map[string]any{
				"HydroID": int64(i),
				"Name":    n,
				"AltName": nil,
			},
		})
	}
	return res
}

func TestColumns(t *testing.T) {
	c := streams()
	res := filter.Columns(c, []string{"NAME", "AltName", "Name", "RiverName", "Name"})
	assert.Equal(t, []string{"AltName", "Name"}, res,
		"keeps candidate order, drops absent and duplicate columns")
}

func TestByRegionKeepsMatches(t *testing.T) {
	c := streams(
		"Goulburn River", "Broken River", nil, "GOULBURN RIVER",
		"Sunday Creek", "lower goulburn", "Seven Creeks",
	)

	res := filter.ByRegion(c, []string{"RiverName", "Name"}, "Goulburn")
	require.True(t, res.Matched)
	assert.Empty(t, res.Note)
	assert.Equal(t, []string{"Name"}, res.MatchedColumns)
	assert.Equal(t, 7, res.Total)
	require.Equal(t, 3, res.Kept.Len())

	// Kept records are the originals, in input order.
	assert.Same(t, c.Features[0], res.Kept.Features[0])
	assert.Same(t, c.Features[3], res.Kept.Features[1])
	assert.Same(t, c.Features[5], res.Kept.Features[2])

	assert.Equal(t, 7, c.Len(), "input collection is not modified")
	assert.Equal(t, c.CRS, res.Kept.CRS)
}

func TestByRegionAnyColumn(t *testing.T) {
	c := streams("Goulburn River", "Unnamed", "Unnamed")
	c.Features[2].Attributes["AltName"] = "Goulburn Weir channel"

	res := filter.ByRegion(c, []string{"Name", "AltName"}, "goulburn")
	require.True(t, res.Matched)
	assert.Equal(t, []string{"Name", "AltName"}, res.MatchedColumns)
	require.Equal(t, 2, res.Kept.Len())
	assert.Same(t, c.Features[0], res.Kept.Features[0])
	assert.Same(t, c.Features[2], res.Kept.Features[1])
}

func TestByRegionNumericColumn(t *testing.T) {
	c := streams("a", "b")
	res := filter.ByRegion(c, []string{"HydroID"}, "1")
	require.True(t, res.Matched)
	require.Equal(t, 1, res.Kept.Len())
	assert.Same(t, c.Features[1], res.Kept.Features[0])
}

func TestByRegionNoColumn(t *testing.T) {
	c := streams("Goulburn River", "Broken River")

	res := filter.ByRegion(c, []string{"RiverName", "GNIS_NAME"}, "Goulburn")
	assert.False(t, res.Matched)
	assert.Empty(t, res.MatchedColumns)
	assert.Same(t, c, res.Kept, "fallback keeps the original collection")
	assert.Contains(t, res.Note, "keeping all 2 features")
}

func TestByRegionNoMatch(t *testing.T) {
	c := streams("Murray River", "Broken River", nil)

	res := filter.ByRegion(c, []string{"Name"}, "Goulburn")
	assert.False(t, res.Matched)
	assert.Equal(t, []string{"Name"}, res.MatchedColumns)
	assert.Same(t, c, res.Kept)
	assert.Contains(t, res.Note, `"Goulburn"`)
}

func TestByRegionEmptyKeyword(t *testing.T) {
	c := streams("Murray River", nil, "")
	res := filter.ByRegion(c, []string{"Name"}, "")
	require.True(t, res.Matched)
	assert.Equal(t, []*feature.Feature{c.Features[0], c.Features[2]},
		res.Kept.Features, "empty keyword matches every non-null name")
}

func TestByRegionKeywordNotTrimmed(t *testing.T) {
	c := streams("Murray River", "Riverina Canal")
	res := filter.ByRegion(c, []string{"Name"}, " River")
	require.True(t, res.Matched)
	assert.Equal(t, []*feature.Feature{c.Features[0]}, res.Kept.Features)
}

func TestByRegionEmptyCollection(t *testing.T) {
	c := streams()
	res := filter.ByRegion(c, []string{"Name"}, "Goulburn")
	assert.False(t, res.Matched)
	assert.Equal(t, 0, res.Kept.Len())

	res = filter.ByRegion(nil, []string{"Name"}, "Goulburn")
	assert.False(t, res.Matched)
	assert.Nil(t, res.Kept)
}

func TestByRegionNeverIncreases(t *testing.T) {
	for n := 0; n < 12; n++ {
		var names []any
		for i := 0; i < n; i++ {
			if i%3 == 0 {
				names = append(names, fmt.Sprintf("Goulburn %d", i))
			} else {
				names = append(names, fmt.Sprintf("Other %d", i))
			}
		}
		c := streams(names...)
		res := filter.ByRegion(c, []string{"Name"}, "goulburn")
		assert.LessOrEqual(t, res.Kept.Len(), c.Len())
		if !res.Matched {
			assert.Same(t, c, res.Kept)
		}
	}
}

func TestByRegionIdempotent(t *testing.T) {
	c := streams("Goulburn River", "Broken River", "Goulburn Weir")
	cols := []string{"Name"}

	first := filter.ByRegion(c, cols, "Goulburn")
	second := filter.ByRegion(first.Kept, cols, "Goulburn")

	require.True(t, second.Matched)
	assert.Equal(t, first.Kept.Features, second.Kept.Features)
}
