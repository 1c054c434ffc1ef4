package ioplot

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// OverviewError creates an error for when the overview image cannot be
// rendered or saved.
func OverviewError(path string, err error) error {
	msg := `Cannot create overview image

<em>Path:</em> %s

<em>Possible causes:</em>
  - No features to draw
  - Output directory is not writable`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ReportOverviewError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create overview %s: %w", path, err),
	}
}
