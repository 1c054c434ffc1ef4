package iodatasets_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iodatasets"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// TestDatasetsConfigError verifies error structure.
func TestDatasetsConfigError(t *testing.T) {
	path := "/test/datasets.yaml"
	originalErr := errors.New("yaml: line 3: mapping values are not allowed")

	err := iodatasets.DatasetsConfigError(path, originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DatasetsConfigError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Contains(t, gnErr.Msg, "How to fix")
	assert.Len(t, gnErr.Vars, 2)
	assert.Equal(t, path, gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
