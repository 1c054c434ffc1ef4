package ioextract

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

// UnknownKindError creates an error for a dataset kind missing from the
// dataset layouts.
func UnknownKindError(kind dataset.Kind) error {
	msg := `No layout defined for dataset <em>%s</em>

<em>How to fix:</em>
  1. Add the dataset to datasets.yaml
  2. Remove datasets.yaml to restore the built-in layouts`

	vars := []any{kind}

	return &gn.Error{
		Code: errcode.DatasetUnknownKindError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no layout for dataset %s", kind),
	}
}

// CancelledError creates an error for when extraction
// is cancelled.
func CancelledError(err error) error {
	msg := "Extraction was cancelled"

	return &gn.Error{
		Code: errcode.ExtractCancelledError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("extraction cancelled: %w", err),
	}
}

// AllDatasetsFailedError creates an error for when no dataset could be
// processed.
func AllDatasetsFailedError(count int) error {
	msg := `Failed number of datasets: <em>%d</em>`

	vars := []any{count}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	return &gn.Error{
		Code: errcode.ExtractAllDatasetsFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d dataset%s failed to process", count, plural),
	}
}
