package stats

// Metric is one row of the statistics table.
type Metric struct {
	Name  string
	Value float64
	// Count is true for integer metrics.
	Count bool
	// Available is false when an input dataset is missing or the value
	// is undefined (division by zero).
	Available bool
}

// Metric names of the statistics table, in table order.
const (
	TotalStreamLength    = "Total stream length (km)"
	TotalCatchmentArea   = "Total catchment area (km²)"
	StreamSegmentCount   = "Stream segment count"
	SubCatchmentCount    = "Sub-catchment count"
	StreamDensity        = "Stream density (km/km²)"
	MeanSegmentLength    = "Mean segment length (m)"
	MeanSubCatchmentArea = "Mean sub-catchment area (km²)"
)

// Table builds the fixed seven-row statistics table. Either summary may
// be nil when its dataset failed; dependent rows are then unavailable.
// Extents are taken to be in metres.
func Table(streams, catchments *Summary) []Metric {
	res := []Metric{
		{Name: TotalStreamLength},
		{Name: TotalCatchmentArea},
		{Name: StreamSegmentCount, Count: true},
		{Name: SubCatchmentCount, Count: true},
		{Name: StreamDensity},
		{Name: MeanSegmentLength},
		{Name: MeanSubCatchmentArea},
	}

	set := func(i int, v float64) {
		res[i].Value = v
		res[i].Available = true
	}

	if streams != nil {
		set(0, streams.TotalExtent/1_000)
		set(2, float64(streams.FeatureCount))
		set(5, streams.MeanExtent)
	}
	if catchments != nil {
		set(1, catchments.TotalExtent/1_000_000)
		set(3, float64(catchments.FeatureCount))
		set(6, catchments.MeanExtent/1_000_000)
	}
	if streams != nil && catchments != nil && catchments.TotalExtent > 0 {
		set(4, res[0].Value/res[1].Value)
	}
	return res
}
