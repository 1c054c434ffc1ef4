package iodatasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iofs"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

func writeDatasets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDatasetsFile_Embedded(t *testing.T) {
	path := writeDatasets(t, iofs.DatasetsYAML)

	specs, err := loadDatasetsFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	// The embedded file mirrors the built-in table.
	assert.Equal(t, dataset.DefaultSpecs()[0].CandidatePaths, specs[0].CandidatePaths)
	assert.Equal(t, dataset.DefaultSpecs()[1].NameColumns, specs[1].NameColumns)
	assert.Equal(t, dataset.Catchment, specs[1].Kind)
}

func TestLoadDatasetsFile_PartialUsesDefaults(t *testing.T) {
	path := writeDatasets(t, `
datasets:
  - kind: Streams
    candidate_paths:
      - custom/streams.gpkg
    layer_keyword: Flowline
    name_columns: [GNIS_NAME]
`)

	specs, err := loadDatasetsFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, dataset.Stream, specs[0].Kind)
	assert.Equal(t, []string{"custom/streams.gpkg"}, specs[0].CandidatePaths)
	assert.Equal(t, "Flowline", specs[0].LayerKeyword)

	catch, ok := dataset.Find(specs, dataset.Catchment)
	require.True(t, ok)
	assert.Equal(t, "Catchment", catch.LayerKeyword)
}

func TestLoadDatasetsFile_Invalid(t *testing.T) {
	tests := []struct {
		msg     string
		content string
		errMsg  string
	}{
		{
			msg:     "bad yaml",
			content: "datasets: [",
			errMsg:  "failed to parse datasets file",
		},
		{
			msg: "unknown kind",
			content: `
datasets:
  - kind: lake
    candidate_paths: [lakes.shp]
    layer_keyword: Lake
`,
			errMsg: "unknown dataset kind",
		},
		{
			msg: "duplicate kind",
			content: `
datasets:
  - kind: stream
    candidate_paths: [a.shp]
    layer_keyword: Stream
  - kind: streams
    candidate_paths: [b.shp]
    layer_keyword: Stream
`,
			errMsg: "more than once",
		},
		{
			msg: "no candidates",
			content: `
datasets:
  - kind: catchment
    layer_keyword: Catchment
`,
			errMsg: "candidate_paths cannot be empty",
		},
	}

	for _, v := range tests {
		path := writeDatasets(t, v.content)
		_, err := loadDatasetsFile(path)
		require.Error(t, err, v.msg)
		assert.Contains(t, err.Error(), v.errMsg, v.msg)
	}
}

func TestLoadDatasetsFile_FileNotFound(t *testing.T) {
	_, err := loadDatasetsFile("nonexistent.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read datasets file")
}

func TestLoad(t *testing.T) {
	t.Run("no home dir gives defaults", func(t *testing.T) {
		specs, err := New(config.New()).Load()
		require.NoError(t, err)
		assert.Equal(t, dataset.DefaultSpecs(), specs)
	})

	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir(t.TempDir())})

		specs, err := New(cfg).Load()
		require.NoError(t, err)
		assert.Equal(t, dataset.DefaultSpecs(), specs)
	})

	t.Run("reads file from config dir", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, iofs.EnsureDirs(home))
		require.NoError(t, iofs.EnsureDatasetsFile(home))

		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir(home)})

		specs, err := New(cfg).Load()
		require.NoError(t, err)
		assert.Len(t, specs, 2)
	})

	t.Run("broken file is a gn.Error", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, iofs.EnsureDirs(home))
		path := config.DatasetsFilePath(home)
		require.NoError(t, os.WriteFile(path, []byte("datasets: ["), 0644))

		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir(home)})

		_, err := New(cfg).Load()
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.DatasetsConfigError, gnErr.Code)
	})
}
