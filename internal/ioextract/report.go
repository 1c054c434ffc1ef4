package ioextract

import (
	"log/slog"

	"github.com/gnames/gn"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iofs"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/ioplot"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/ioreport"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/geofab"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/stats"
)

const (
	statisticsFile = "statistics.csv"
	overviewFile   = "overview.png"
)

// Report writes the statistics CSV whenever at least one dataset was
// summarized, and the overview image when plotting is enabled. Both are
// drawn from the filtered collections of the results. A failure of one
// output does not prevent the other.
func (e *extractor) Report(results []dataset.Result) (*geofab.Report, error) {
	var streams, catchments *stats.Summary
	var streamCol, catchmentCol *feature.Collection
	for _, r := range results {
		if !r.OK() {
			continue
		}
		switch r.Kind {
		case dataset.Stream:
			streams, streamCol = r.Summary, r.Collection()
		case dataset.Catchment:
			catchments, catchmentCol = r.Summary, r.Collection()
		}
	}

	res := &geofab.Report{Metrics: stats.Table(streams, catchments)}
	if streams == nil && catchments == nil {
		slog.Warn("No dataset summarized, skipping report")
		return res, nil
	}

	if err := iofs.EnsureOutputDir(e.cfg.OutputDir); err != nil {
		return res, err
	}

	var errs []error
	csvPath := e.cfg.OutputPath(statisticsFile)
	if err := ioreport.WriteCSV(csvPath, res.Metrics); err != nil {
		slog.Error("Cannot write statistics", "path", csvPath, "error", err)
		errs = append(errs, err)
	} else {
		res.Outputs = append(res.Outputs, csvPath)
		slog.Info("Statistics written", "path", csvPath)
		gn.Info("Statistics saved to <em>%s</em>", csvPath)
	}

	if e.cfg.Plot {
		pngPath := e.cfg.OutputPath(overviewFile)
		title := ioplot.Title(e.cfg.Region, e.cfg.Filter)
		if err := ioplot.Overview(pngPath, title, streamCol, catchmentCol); err != nil {
			slog.Error("Cannot draw overview", "path", pngPath, "error", err)
			errs = append(errs, err)
		} else {
			res.Outputs = append(res.Outputs, pngPath)
			gn.Info("Overview saved to <em>%s</em>", pngPath)
		}
	}

	// the rest are in the log
	if len(errs) > 0 {
		return res, errs[0]
	}
	return res, nil
}
