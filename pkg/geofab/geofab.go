// Package geofab defines the top-level interfaces of the Goulburn
// Geofabric extractor.
package geofab

import (
	"context"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/stats"
)

// Extractor runs the locate, load, filter, export and summarize pipeline
// for one or more Geofabric datasets.
type Extractor interface {
	// Extract runs the pipeline for every requested dataset kind. A failure
	// in one dataset never prevents the others from running; per-dataset
	// errors are reported inside the returned results. The error is
	// non-nil only when the run could not start, was cancelled, or every
	// dataset failed.
	Extract(ctx context.Context, kinds []dataset.Kind) ([]dataset.Result, error)

	// Report writes the statistics table and the overview image from
	// the results of Extract. Missing datasets leave their statistics
	// unavailable.
	Report(results []dataset.Result) (*Report, error)
}

// Report is what the reporting step produced.
type Report struct {
	// Metrics is the fixed statistics table.
	Metrics []stats.Metric
	// Outputs lists the files written.
	Outputs []string
}
