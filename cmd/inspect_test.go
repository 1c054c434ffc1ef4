package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetInspectCmd_Exists verifies getInspectCmd returns
// a valid command.
func TestGetInspectCmd_Exists(t *testing.T) {
	cmd := getInspectCmd()
	require.NotNil(t, cmd, "Inspect command should exist")
	assert.Equal(t, "inspect", cmd.Name())
	assert.NotNil(t, cmd.RunE, "RunE should be set")
	assert.Contains(t, cmd.Long, "--stream-layer")
}

func TestGetInspectCmd_Args(t *testing.T) {
	cmd := getInspectCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.Error(t, cmd.Args(cmd, []string{"a.shp", "b.shp"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a.shp"}))
}

func TestRunInspectUnsupported(t *testing.T) {
	err := runInspect("streams.csv")
	assert.Error(t, err)
}
