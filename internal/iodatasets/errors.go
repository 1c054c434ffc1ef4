package iodatasets

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// DatasetsConfigError creates an error for when datasets.yaml
// cannot be loaded.
func DatasetsConfigError(path string, err error) error {
	msg := `Cannot load dataset layouts

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - Invalid YAML format
  - Unknown dataset kind (use 'stream' or 'catchment')
  - Empty candidate_paths or layer_keyword
  - Permission denied

<em>How to fix:</em>
  1. Validate YAML syntax
  2. Check the file: <em>cat %s</em>
  3. Remove the file to restore the built-in layouts`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.DatasetsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load datasets config: %w", err),
	}
}
