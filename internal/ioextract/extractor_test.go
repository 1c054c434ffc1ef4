package ioextract_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iodatasets"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/ioextract"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iotesting"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iovector"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/geofab"
)

func newExtractor(t *testing.T, dataDir string, opts ...config.Option) (
	geofab.Extractor,
	*config.Config,
) {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDataDir(dataDir),
		config.OptOutputDir(filepath.Join(t.TempDir(), "output")),
		config.OptProgress(false),
	})
	cfg.Update(opts)
	return ioextract.New(cfg, iodatasets.New(cfg)), cfg
}

func requireCode(t *testing.T, err error, code gn.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error, got %T", err)
	assert.Equal(t, code, gnErr.Code)
}

func TestExtract_StreamsEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping filesystem test")
	}

	dataDir := t.TempDir()
	iotesting.WriteShapefile(t, dataDir, "SH_Network/HR_Streams.shp",
		iotesting.Streams(iotesting.GoulburnNames(10, 3)...))

	ex, cfg := newExtractor(t, dataDir)
	results, err := ex.Extract(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	streams := results[0]
	assert.Equal(t, dataset.Stream, streams.Kind)
	require.True(t, streams.OK())
	assert.NoError(t, streams.ExportErr)
	assert.Equal(t, filepath.Join(dataDir, "SH_Network/HR_Streams.shp"),
		streams.Source.Path)
	assert.True(t, streams.Filter.Matched)
	assert.Equal(t, []string{"Name"}, streams.Filter.MatchedColumns)
	assert.Equal(t, 3, streams.Summary.FeatureCount)
	assert.InDelta(t, 3000, streams.Summary.TotalExtent, 1e-6)
	assert.Equal(t, "EPSG:28355", streams.Summary.CRS)

	for _, ext := range []string{".shp", ".geojson"} {
		path := cfg.OutputPath("streams" + ext)
		assert.Contains(t, streams.Outputs, path)
		c, err := iovector.Load(path, "")
		require.NoError(t, err, ext)
		assert.Equal(t, 3, c.Len(), ext)
		for _, f := range c.Features {
			assert.Equal(t, "Goulburn River", f.Value("Name"), ext)
		}
	}

	catchments := results[1]
	assert.Equal(t, dataset.Catchment, catchments.Kind)
	assert.False(t, catchments.OK())
	requireCode(t, catchments.Err, errcode.LocateNotFoundError)
	assert.Nil(t, catchments.Summary)

	report, err := ex.Report(results)
	require.NoError(t, err)
	require.Len(t, report.Metrics, 7)
	assert.Equal(t, 3.0, report.Metrics[2].Value)
	assert.False(t, report.Metrics[1].Available)
	assert.Equal(t, []string{
		cfg.OutputPath("statistics.csv"),
		cfg.OutputPath("overview.png"),
	}, report.Outputs)

	f, err := os.Open(cfg.OutputPath("statistics.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 8)
	assert.Equal(t, "3", records[3][1])
	assert.Equal(t, "n/a", records[2][1])
}

func TestExtract_ContainerParallel(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping filesystem test")
	}

	dataDir := t.TempDir()
	iotesting.WriteShapefile(t, dataDir, "SH_Network.shp",
		iotesting.Streams(iotesting.GoulburnNames(4, 2)...))
	water := iotesting.Catchments("Lake Eildon")
	water.Name = "Waterbody"
	iotesting.WriteGeoPackage(t, dataDir, "SH_Catchments_GDB/SH_Catchments.gpkg",
		water, iotesting.Catchments(iotesting.GoulburnNames(5, 2)...))

	ex, cfg := newExtractor(t, dataDir, config.OptJobsNumber(2))
	results, err := ex.Extract(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, dataset.Stream, results[0].Kind)
	assert.Equal(t, 2, results[0].Summary.FeatureCount)

	catchments := results[1]
	require.True(t, catchments.OK())
	assert.Equal(t, "HR_Catchments", catchments.Source.Layer)
	assert.False(t, catchments.Source.LayerFallback)
	assert.Equal(t, 2, catchments.Summary.FeatureCount)
	assert.InDelta(t, 2_000_000, catchments.Summary.TotalExtent, 1e-3)

	report, err := ex.Report(results)
	require.NoError(t, err)
	// 2 km of streams over 2 km² of catchments
	assert.InDelta(t, 1.0, report.Metrics[4].Value, 1e-9)
	assert.True(t, report.Metrics[4].Available)
	assert.FileExists(t, cfg.OutputPath("overview.png"))
}

func TestExtract_LayerHint(t *testing.T) {
	dataDir := t.TempDir()
	water := iotesting.Catchments("Goulburn Weir")
	water.Name = "Waterbody"
	iotesting.WriteGeoPackage(t, dataDir, "SH_Catchments.gpkg",
		water, iotesting.Catchments("Goulburn", "Goulburn"))

	ex, _ := newExtractor(t, dataDir, config.OptExtractCatchmentLayer("Waterbody"))
	results, err := ex.Extract(context.Background(), []dataset.Kind{dataset.Catchment})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Waterbody", results[0].Source.Layer)
	assert.True(t, results[0].Source.LayerHint)
	assert.Equal(t, 1, results[0].Summary.FeatureCount)
}

func TestExtract_FilterDisabled(t *testing.T) {
	dataDir := t.TempDir()
	iotesting.WriteShapefile(t, dataDir, "SH_Network/HR_Streams.shp",
		iotesting.Streams(iotesting.GoulburnNames(10, 3)...))

	ex, _ := newExtractor(t, dataDir, config.OptFilter(false))
	results, err := ex.Extract(context.Background(), []dataset.Kind{dataset.Stream})
	require.NoError(t, err)
	assert.False(t, results[0].Filter.Matched)
	assert.Equal(t, 10, results[0].Summary.FeatureCount)
}

func TestExtract_NoMatchKeepsAll(t *testing.T) {
	dataDir := t.TempDir()
	iotesting.WriteShapefile(t, dataDir, "SH_Network/HR_Streams.shp",
		iotesting.Streams(iotesting.GoulburnNames(5, 0)...))

	ex, _ := newExtractor(t, dataDir)
	results, err := ex.Extract(context.Background(), []dataset.Kind{dataset.Stream})
	require.NoError(t, err)
	assert.False(t, results[0].Filter.Matched)
	assert.NotEmpty(t, results[0].Filter.Note)
	assert.Equal(t, 5, results[0].Summary.FeatureCount)
}

func TestExtract_ExportFailureKeepsStatistics(t *testing.T) {
	dataDir := t.TempDir()
	iotesting.WriteShapefile(t, dataDir, "SH_Network/HR_Streams.shp",
		iotesting.Streams(iotesting.GoulburnNames(10, 3)...))

	ex, cfg := newExtractor(t, dataDir, config.OptOverwrite(false))
	iotesting.WriteFile(t, cfg.OutputDir, "goulburn_streams.geojson", "{}")

	results, err := ex.Extract(context.Background(), []dataset.Kind{dataset.Stream})
	require.NoError(t, err)

	streams := results[0]
	assert.True(t, streams.OK())
	requireCode(t, streams.ExportErr, errcode.ExportOutputExistsError)
	require.NotNil(t, streams.Summary)
	assert.Equal(t, 3, streams.Summary.FeatureCount)
}

func TestExtract_MalformedSource(t *testing.T) {
	dataDir := t.TempDir()
	iotesting.WriteFile(t, dataDir, "SH_Network/HR_Streams.shp", "garbage")
	iotesting.WriteShapefile(t, dataDir, "SH_Catchments.shp",
		iotesting.Catchments("Goulburn"))

	ex, _ := newExtractor(t, dataDir)
	results, err := ex.Extract(context.Background(), nil)
	require.NoError(t, err)
	requireCode(t, results[0].Err, errcode.LoadMalformedSourceError)
	assert.True(t, results[1].OK())
}

func TestExtract_AllFailed(t *testing.T) {
	ex, _ := newExtractor(t, t.TempDir())
	results, err := ex.Extract(context.Background(), nil)
	requireCode(t, err, errcode.ExtractAllDatasetsFailedError)
	assert.Len(t, results, 2)

	report, err := ex.Report(results)
	require.NoError(t, err)
	assert.Empty(t, report.Outputs)
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex, _ := newExtractor(t, t.TempDir())
	_, err := ex.Extract(ctx, nil)
	requireCode(t, err, errcode.ExtractCancelledError)
}
