package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
)

// TestGetExtractCmd_Exists verifies getExtractCmd returns
// a valid command.
func TestGetExtractCmd_Exists(t *testing.T) {
	cmd := getExtractCmd()
	require.NotNil(t, cmd, "Extract command should exist")
	assert.Equal(t, "extract", cmd.Name(),
		"Command name should be extract")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
}

// TestGetExtractCmd_LongDescription verifies long
// description.
func TestGetExtractCmd_LongDescription(t *testing.T) {
	cmd := getExtractCmd()

	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "datasets.yaml",
		"Long description should mention layouts file")
	assert.Contains(t, cmd.Long, "statistics.csv",
		"Long description should mention statistics")
}

// TestGetExtractCmd_Flags verifies flags and their shorthands.
func TestGetExtractCmd_Flags(t *testing.T) {
	cmd := getExtractCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"data-dir", "d", ""},
		{"output-dir", "o", ""},
		{"region", "r", ""},
		{"no-filter", "", "false"},
		{"stream-layer", "", ""},
		{"catchment-layer", "", ""},
		{"no-plot", "", "false"},
		{"no-overwrite", "", "false"},
		{"no-progress", "", "false"},
		{"gpkg", "", "false"},
		{"jobs", "j", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "--%s flag should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

// TestGetExtractCmd_TooManyArgs verifies argument validation.
func TestGetExtractCmd_TooManyArgs(t *testing.T) {
	cmd := getExtractCmd()
	assert.Error(t, cmd.Args(cmd, []string{"streams", "catchments", "all"}))
	assert.NoError(t, cmd.Args(cmd, []string{"streams"}))
	assert.NoError(t, cmd.Args(cmd, nil))
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		msg  string
		args []string
		res  []dataset.Kind
		err  bool
	}{
		{"empty", nil, nil, false},
		{"all", []string{"all"}, nil, false},
		{"all wins", []string{"streams", "ALL"}, nil, false},
		{"streams", []string{"streams"}, []dataset.Kind{dataset.Stream}, false},
		{"singular", []string{"Catchment"}, []dataset.Kind{dataset.Catchment}, false},
		{"order", []string{"catchments", "streams"},
			[]dataset.Kind{dataset.Catchment, dataset.Stream}, false},
		{"dedupe", []string{"streams", "stream"},
			[]dataset.Kind{dataset.Stream}, false},
		{"unknown", []string{"lakes"}, nil, true},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, err := parseKinds(v.args)
			if v.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, v.res, res)
		})
	}
}

// TestExtractFlagsOptions verifies that only changed flags override
// the configuration.
func TestExtractFlagsOptions(t *testing.T) {
	cmd := getExtractCmd()
	require.NoError(t, cmd.Flags().Set("region", "Broken"))
	require.NoError(t, cmd.Flags().Set("no-plot", "true"))
	require.NoError(t, cmd.Flags().Set("jobs", "2"))

	f := extractFlags{region: "Broken", noPlot: true, jobs: 2}
	opts := f.options(cmd)
	assert.Len(t, opts, 3)

	cfg := config.New()
	cfg.Update(opts)
	assert.Equal(t, "Broken", cfg.Region)
	assert.False(t, cfg.Plot)
	assert.Equal(t, 2, cfg.JobsNumber)

	def := config.New()
	assert.Equal(t, def.DataDir, cfg.DataDir)
	assert.Equal(t, def.Filter, cfg.Filter)
	assert.Equal(t, def.Overwrite, cfg.Overwrite)
}

func TestExtractFlagsOptionsNoneChanged(t *testing.T) {
	cmd := getExtractCmd()
	f := extractFlags{region: "ignored"}
	assert.Empty(t, f.options(cmd))
}
