package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// caller names the function that built the error, for the log.
func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// CreateDirError is returned when a config, log or output directory
// cannot be created.
func CreateDirError(dir string, err error) error {
	msg := `Cannot create directory <em>%s</em>

<em>How to fix:</em>
  1. Check permissions of the parent directory
  2. Point output_dir in config.yaml (or --output-dir) somewhere writable`

	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: []any{dir},
		Err:  fmt.Errorf("from %s: cannot create directory %s: %w", caller(), dir, err),
	}
}

// CopyFileError is returned when a default config.yaml or datasets.yaml
// cannot be written to the config directory.
func CopyFileError(file string, err error) error {
	msg := `Cannot write default settings to <em>%s</em>

<em>How to fix:</em>
  Check permissions of ~/.config/geofab`

	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: []any{file},
		Err:  fmt.Errorf("from %s: cannot copy file %s: %w", caller(), file, err),
	}
}

// ReadFileError is returned when a settings file cannot be read or
// parsed.
func ReadFileError(path string, err error) error {
	msg := `Cannot read <em>%s</em>

<em>How to fix:</em>
  Fix the YAML syntax, or delete the file to restore the defaults`

	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot read %s: %w", caller(), path, err),
	}
}
