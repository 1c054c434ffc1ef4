package ioreport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// StatisticsError creates an error for when the statistics CSV cannot
// be written.
func StatisticsError(path string, err error) error {
	msg := `Cannot write statistics

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check permissions of the output directory
  2. Choose another <em>--output-dir</em>`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ReportStatisticsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write statistics %s: %w", path, err),
	}
}
