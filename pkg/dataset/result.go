package dataset

import (
	"time"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/filter"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/stats"
)

// Result is the outcome of one dataset pipeline. Fields are filled in as
// far as the pipeline got.
type Result struct {
	Kind Kind

	// Source is set once the dataset was located.
	Source *ResolvedSource

	// Filter is set once the features were loaded. Filter.Kept is the
	// collection that was exported and summarized.
	Filter *filter.Outcome

	// Summary is set whenever features were loaded, even if export
	// failed.
	Summary *stats.Summary

	// Outputs lists files written by the export step.
	Outputs []string

	// Err is the fatal error of the pipeline (locate, load or resolve).
	Err error

	// ExportErr is set when writing outputs failed. Statistics are still
	// available in that case.
	ExportErr error

	Duration time.Duration
}

// OK reports whether the pipeline produced features.
func (r Result) OK() bool {
	return r.Err == nil && r.Filter != nil
}

// Collection returns the filtered collection, or nil.
func (r Result) Collection() *feature.Collection {
	if r.Filter == nil {
		return nil
	}
	return r.Filter.Kept
}
