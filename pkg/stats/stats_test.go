package stats_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/stats"
)

func TestSummarizeLines(t *testing.T) {
	c := &feature.Collection{
		CRS: feature.CRSFromID("EPSG:28355"),
		Features: []*feature.Feature{
			{Geometry: orb.LineString{{0, 0}, {300, 400}}},       // 500
			{Geometry: orb.LineString{{1000, 0}, {1000, 1500}}},  // 1500
			{Geometry: orb.MultiLineString{{{0, 0}, {0, 1000}}}}, // 1000
		},
	}

	res := stats.Summarize(c)
	assert.Equal(t, feature.LineGeometry, res.Geometry)
	assert.Equal(t, 3, res.FeatureCount)
	assert.InDelta(t, 3000, res.TotalExtent, 1e-9)
	assert.InDelta(t, 1000, res.MeanExtent, 1e-9)
	assert.InDelta(t, 1500, res.MaxExtent, 1e-9)
	assert.Equal(t, "EPSG:28355", res.CRS)

	require.True(t, res.HasBBox())
	assert.Equal(t, orb.Point{0, 0}, res.BBox.Min)
	assert.Equal(t, orb.Point{1000, 1500}, res.BBox.Max)
}

func TestSummarizePolygons(t *testing.T) {
	square := func(x, size float64) orb.Polygon {
		return orb.Polygon{{
			{x, 0}, {x, size}, {x + size, size}, {x + size, 0}, {x, 0},
		}}
	}
	c := &feature.Collection{
		CRS: feature.CRSFromID("EPSG:28355"),
		Features: []*feature.Feature{
			{Geometry: square(0, 1000)},
			{Geometry: square(5000, 2000)},
		},
	}

	res := stats.Summarize(c)
	assert.Equal(t, feature.PolygonGeometry, res.Geometry)
	assert.InDelta(t, 5_000_000, res.TotalExtent, 1e-6)
	assert.InDelta(t, 2_500_000, res.MeanExtent, 1e-6)
	require.True(t, res.HasBBox())
	assert.Equal(t, orb.Point{7000, 2000}, res.BBox.Max)
}

func TestSummarizeGeographic(t *testing.T) {
	// One degree of latitude is about 111 km.
	c := &feature.Collection{
		CRS: feature.CRSFromID("EPSG:4283"),
		Features: []*feature.Feature{
			{Geometry: orb.LineString{{145, -37}, {145, -36}}},
		},
	}
	res := stats.Summarize(c)
	assert.InDelta(t, 111_000, res.TotalExtent, 1_000)
}

func TestSummarizeEmpty(t *testing.T) {
	c := &feature.Collection{CRS: feature.CRSFromID("EPSG:4283")}
	res := stats.Summarize(c)
	assert.Equal(t, 0, res.FeatureCount)
	assert.Zero(t, res.TotalExtent)
	assert.Zero(t, res.MeanExtent)
	assert.False(t, res.HasBBox())
	assert.Nil(t, res.BBox, "empty collection must not report a zero box")
	assert.Equal(t, "EPSG:4283", res.CRS)

	res = stats.Summarize(nil)
	assert.Equal(t, 0, res.FeatureCount)
	assert.Nil(t, res.BBox)
}

func TestSummarizeDoesNotMutate(t *testing.T) {
	line := orb.LineString{{0, 0}, {3, 4}}
	c := &feature.Collection{
		Features: []*feature.Feature{{Geometry: line}},
	}
	_ = stats.Summarize(c)
	assert.Equal(t, orb.LineString{{0, 0}, {3, 4}}, c.Features[0].Geometry)
}

func TestTable(t *testing.T) {
	streams := &stats.Summary{
		FeatureCount: 4,
		TotalExtent:  20_000,
		MeanExtent:   5_000,
	}
	catchments := &stats.Summary{
		FeatureCount: 2,
		TotalExtent:  10_000_000,
		MeanExtent:   5_000_000,
	}

	res := stats.Table(streams, catchments)
	require.Len(t, res, 7)

	want := []struct {
		name  string
		value float64
	}{
		{stats.TotalStreamLength, 20},
		{stats.TotalCatchmentArea, 10},
		{stats.StreamSegmentCount, 4},
		{stats.SubCatchmentCount, 2},
		{stats.StreamDensity, 2},
		{stats.MeanSegmentLength, 5000},
		{stats.MeanSubCatchmentArea, 5},
	}
	for i, w := range want {
		assert.Equal(t, w.name, res[i].Name)
		assert.True(t, res[i].Available, w.name)
		assert.InDelta(t, w.value, res[i].Value, 1e-9, w.name)
	}
	assert.True(t, res[2].Count)
	assert.True(t, res[3].Count)
}

func TestTableMissingDataset(t *testing.T) {
	streams := &stats.Summary{FeatureCount: 1, TotalExtent: 1000, MeanExtent: 1000}

	res := stats.Table(streams, nil)
	assert.True(t, res[0].Available)
	assert.False(t, res[1].Available)
	assert.True(t, res[2].Available)
	assert.False(t, res[3].Available)
	assert.False(t, res[4].Available, "density needs both datasets")
	assert.True(t, res[5].Available)
	assert.False(t, res[6].Available)

	res = stats.Table(streams, &stats.Summary{})
	assert.False(t, res[4].Available, "density is undefined for zero area")
}
