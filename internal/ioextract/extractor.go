// Package ioextract implements the Extractor interface: it runs the
// locate, load, filter, export and summarize pipeline for each Geofabric
// dataset and writes the run's statistics and overview image.
// This is an impure I/O package.
package ioextract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iolocate"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iovector"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/filter"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/geofab"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/stats"
	"golang.org/x/sync/errgroup"
)

// extractor implements the Extractor interface.
type extractor struct {
	cfg      *config.Config
	registry dataset.Registry
}

// New creates a new Extractor reading dataset layouts from registry.
func New(cfg *config.Config, registry dataset.Registry) geofab.Extractor {
	return &extractor{cfg: cfg, registry: registry}
}

// Extract runs the dataset pipelines. Results come back in the order of
// kinds; all known kinds are processed when kinds is empty.
func (e *extractor) Extract(
	ctx context.Context,
	kinds []dataset.Kind,
) ([]dataset.Result, error) {
	startTime := time.Now()

	specs, err := e.collectSpecs(kinds)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting extraction",
		"datasets", len(specs),
		"data_dir", e.cfg.DataDir,
		"output_dir", e.cfg.OutputDir,
		"region", e.cfg.Region,
		"filter", e.cfg.Filter,
		"jobs", e.cfg.JobsNumber,
	)

	var results []dataset.Result
	if e.cfg.JobsNumber > 1 && len(specs) > 1 {
		results, err = e.processParallel(ctx, specs)
	} else {
		results, err = e.processSequential(ctx, specs)
	}
	if err != nil {
		return results, err
	}

	return results, e.summarize(results, startTime)
}

func (e *extractor) collectSpecs(kinds []dataset.Kind) ([]dataset.Spec, error) {
	all, err := e.registry.Load()
	if err != nil {
		return nil, err
	}

	if len(kinds) == 0 {
		kinds = dataset.Kinds
	}

	res := make([]dataset.Spec, 0, len(kinds))
	for _, k := range kinds {
		spec, ok := dataset.Find(all, k)
		if !ok {
			return nil, UnknownKindError(k)
		}
		res = append(res, spec)
	}
	return res, nil
}

func (e *extractor) processSequential(
	ctx context.Context,
	specs []dataset.Spec,
) ([]dataset.Result, error) {
	var res []dataset.Result
	for _, spec := range specs {
		select {
		case <-ctx.Done():
			return res, CancelledError(ctx.Err())
		default:
		}

		fmt.Println()
		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Dataset: <em>%s</em>", spec.Kind.Plural())
		fmt.Println(strings.Repeat("─", 60))

		res = append(res, e.processDataset(spec, e.cfg.Progress))
	}
	return res, nil
}

// processParallel runs the pipelines at the same time. They share no
// state; each writes only its own slot of the result slice.
func (e *extractor) processParallel(
	ctx context.Context,
	specs []dataset.Spec,
) ([]dataset.Result, error) {
	res := make([]dataset.Result, len(specs))
	var started sync.Map

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.JobsNumber)
	for i, spec := range specs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			started.Store(i, true)
			// progress bars of parallel pipelines would overwrite each other
			res[i] = e.processDataset(spec, false)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			var done []dataset.Result
			for i := range specs {
				if _, ok := started.Load(i); ok {
					done = append(done, res[i])
				}
			}
			return done, CancelledError(err)
		}
		return res, err
	}
	return res, nil
}

// processDataset runs one pipeline. Errors are stored in the result, so
// one dataset never stops the other.
func (e *extractor) processDataset(spec dataset.Spec, progress bool) dataset.Result {
	start := time.Now()
	res := dataset.Result{Kind: spec.Kind}
	name := spec.Kind.Plural()

	slog.Info("Processing dataset", "dataset", spec.Kind)

	gn.Info("(1/5) %s: locating data...", name)
	path, err := iolocate.LocateSpec(e.cfg.DataDir, spec)
	if err != nil {
		return e.failed(res, start, err)
	}
	slog.Info("Dataset located", "dataset", spec.Kind, "path", path)

	gn.Info("(2/5) %s: reading <em>%s</em>", name, path)
	src, err := iovector.Resolve(path, spec.LayerKeyword, e.layerHint(spec.Kind))
	if err != nil {
		return e.failed(res, start, err)
	}
	res.Source = src
	if src.LayerFallback {
		gn.Warn(`<warn>No layer name contains "%s", using first layer "%s"</warn>
Manually specify the layer with --%s-layer if this is wrong.`,
			spec.LayerKeyword, src.Layer, spec.Kind)
	}

	c, err := iovector.LoadSource(src)
	if err != nil {
		return e.failed(res, start, err)
	}
	slog.Info("Dataset loaded",
		"dataset", spec.Kind,
		"path", src.Path,
		"layer", src.Layer,
		"features", c.Len(),
		"crs", c.CRS.String(),
	)
	gn.Message("<em>Loaded %s features</em>", humanize.Comma(int64(c.Len())))

	gn.Info("(3/5) %s: filtering by region...", name)
	res.Filter = e.filter(c, spec)

	gn.Info("(4/5) %s: exporting...", name)
	res.Outputs, res.ExportErr = iovector.Export(
		res.Filter.Kept,
		e.cfg.OutputPath(name),
		iovector.ExportOptions{
			Overwrite:  e.cfg.Overwrite,
			Progress:   progress,
			GeoPackage: e.cfg.GeoPackage,
		},
	)
	if res.ExportErr != nil {
		slog.Error("Export failed", "dataset", spec.Kind, "error", res.ExportErr)
		gn.PrintErrorMessage(res.ExportErr)
	}

	gn.Info("(5/5) %s: computing statistics...", name)
	summary := stats.Summarize(res.Filter.Kept)
	res.Summary = &summary

	res.Duration = time.Since(start)
	slog.Info("Dataset processed",
		"dataset", spec.Kind,
		"features", summary.FeatureCount,
		"total_extent", summary.TotalExtent,
		"export_failed", res.ExportErr != nil,
		"duration", gnfmt.TimeString(res.Duration.Seconds()),
	)
	gn.Info("Completed in %s", gnfmt.TimeString(res.Duration.Seconds()))
	return res
}

func (e *extractor) failed(
	res dataset.Result,
	start time.Time,
	err error,
) dataset.Result {
	res.Err = err
	res.Duration = time.Since(start)
	slog.Error("Failed to process dataset", "dataset", res.Kind, "error", err)
	gn.PrintErrorMessage(err)
	return res
}

func (e *extractor) layerHint(kind dataset.Kind) string {
	switch kind {
	case dataset.Stream:
		return e.cfg.Extract.StreamLayer
	case dataset.Catchment:
		return e.cfg.Extract.CatchmentLayer
	}
	return ""
}

func (e *extractor) filter(
	c *feature.Collection,
	spec dataset.Spec,
) *filter.Outcome {
	if !e.cfg.Filter {
		slog.Info("Regional filter disabled", "dataset", spec.Kind)
		return &filter.Outcome{
			Kept:  c,
			Note:  "regional filter disabled",
			Total: c.Len(),
		}
	}

	res := filter.ByRegion(c, spec.NameColumns, e.cfg.Region)
	slog.Info("Regional filter applied",
		"dataset", spec.Kind,
		"region", e.cfg.Region,
		"matched_columns", res.MatchedColumns,
		"matched", res.Matched,
		"kept", res.Kept.Len(),
		"total", res.Total,
	)
	if !res.Matched {
		gn.Warn("<warn>%s</warn>", res.Note)
		return &res
	}
	gn.Message("<em>Kept %s of %s features</em>",
		humanize.Comma(int64(res.Kept.Len())), humanize.Comma(int64(res.Total)))
	return &res
}

func (e *extractor) summarize(results []dataset.Result, startTime time.Time) error {
	var successCount, errorCount, exportErrors int
	for _, r := range results {
		if !r.OK() {
			errorCount++
			continue
		}
		successCount++
		if r.ExportErr != nil {
			exportErrors++
		}
	}

	totalDuration := time.Since(startTime)
	slog.Info("Extraction complete",
		"success", successCount,
		"errors", errorCount,
		"export_errors", exportErrors,
		"total", len(results),
		"duration", gnfmt.TimeString(totalDuration.Seconds()),
	)
	gn.Info(`Extraction complete
Datasets succeeded: %d, failed: %d, total: %d.
Elapsed time: <em>%s</em>
`,
		successCount,
		errorCount,
		len(results),
		gnfmt.TimeString(totalDuration.Seconds()),
	)

	if errorCount > 0 && successCount == 0 {
		return AllDatasetsFailedError(errorCount)
	}
	if errorCount > 0 {
		slog.Warn("Some datasets failed to process",
			"failed", errorCount,
			"succeeded", successCount)
	}
	return nil
}
