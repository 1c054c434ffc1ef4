package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// CreateLogFileError is returned when geofab.log cannot be opened.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>

<em>How to fix:</em>
  Set log.destination to stderr in config.yaml
  (or GEOFAB_LOG_DESTINATION=stderr)`

	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open log file %s: %w", path, err),
	}
}
