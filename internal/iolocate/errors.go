package iolocate

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// NotFoundError creates an error for when no candidate path of a dataset
// exists. The wrapped error is the *NotFound with all tried paths.
func NotFoundError(
	kind dataset.Kind,
	dataDir string,
	nf *NotFound,
	hint string,
) error {
	msg := `Cannot find %s data

<em>Data directory:</em> %s

<em>Tried paths:</em>
%s

<em>How to fix:</em>
  1. Set the data directory with <em>--data-dir</em> or GEOFAB_DATA_DIR
  2. Add your layout to datasets.yaml
%s`

	tried := make([]string, len(nf.Candidates))
	for i, v := range nf.Candidates {
		tried[i] = "  - " + v
	}
	if hint != "" {
		hint = "\n" + hint
	}

	vars := []any{kind.Plural(), dataDir, strings.Join(tried, "\n"), hint}

	return &gn.Error{
		Code: errcode.LocateNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s dataset not found: %w", kind, nf),
	}
}
