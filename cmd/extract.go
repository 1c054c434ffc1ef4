/*
Copyright © 2026 tewilkins

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iodatasets"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/ioextract"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/ioreport"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
)

// getExtractCmd returns the extract command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getExtractCmd() *cobra.Command {
	var flags extractFlags

	extractCmd := &cobra.Command{
		Use:   "extract [streams|catchments|all]",
		Short: "Extract regional streams and catchments from the Geofabric",
		Long: `Extract stream-network lines and catchment polygons of a region.

This command, for each dataset:
  1. Locates the data using candidate paths from datasets.yaml
  2. Picks the layer of a GeoPackage container by keyword
  3. Keeps features whose name columns mention the region
  4. Exports <prefix>_<dataset>.shp and <prefix>_<dataset>.geojson
     (and <prefix>_<dataset>.gpkg with --gpkg)
  5. Computes feature count, length or area, CRS and bounding box

Then it writes <prefix>_statistics.csv and <prefix>_overview.png.

A failure of one dataset does not stop the other. When no name column
exists, or nothing matches the region, all features are kept and a
warning is shown.

Examples:
  # Extract both datasets with settings from config.yaml
  geofab extract

  # Streams only, from a custom data directory
  geofab extract streams -d /data/geofabric -o ./output

  # Pick a container layer manually
  geofab extract catchments --catchment-layer AHGFCatchment

  # Export everything, without the regional filter
  geofab extract --no-filter`,
		ValidArgs: []string{"streams", "catchments", "all"},
		Args:      cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExtract(cmd, args, flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	f := extractCmd.Flags()
	f.StringVarP(&flags.dataDir, "data-dir", "d", "",
		"root directory of the Geofabric data")
	f.StringVarP(&flags.outputDir, "output-dir", "o", "",
		"directory for exported files")
	f.StringVarP(&flags.region, "region", "r", "",
		"region keyword searched in name columns")
	f.BoolVar(&flags.noFilter, "no-filter", false,
		"export all features, skip the regional filter")
	f.StringVar(&flags.streamLayer, "stream-layer", "",
		"container layer with streams (skips keyword matching)")
	f.StringVar(&flags.catchmentLayer, "catchment-layer", "",
		"container layer with catchments (skips keyword matching)")
	f.BoolVar(&flags.noPlot, "no-plot", false,
		"do not render the overview image")
	f.BoolVar(&flags.noOverwrite, "no-overwrite", false,
		"fail the export if output files exist")
	f.BoolVar(&flags.gpkg, "gpkg", false,
		"also export each dataset as a GeoPackage")
	f.BoolVar(&flags.noProgress, "no-progress", false,
		"do not show export progress bars")
	f.IntVarP(&flags.jobs, "jobs", "j", 0,
		"number of datasets processed in parallel")

	return extractCmd
}

func runExtract(
	cmd *cobra.Command,
	args []string,
	flags extractFlags,
) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}

	if extractOpts := flags.options(cmd); len(extractOpts) > 0 {
		cfg.Update(extractOpts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ex := ioextract.New(cfg, iodatasets.New(cfg))
	results, err := ex.Extract(ctx, kinds)
	printResults(results)
	if err != nil {
		return err
	}

	report, err := ex.Report(results)
	if report != nil {
		fmt.Println()
		gn.Info("Statistics:")
		fmt.Print(ioreport.Text(report.Metrics))
	}
	if err != nil {
		// statistics are secondary to the exported layers
		gn.PrintErrorMessage(err)
	}
	return nil
}

func printResults(results []dataset.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(strings.Repeat("─", 60))
	for _, r := range results {
		name := r.Kind.Plural()
		if !r.OK() {
			gn.Warn("<warn>%s: failed</warn>", name)
			continue
		}

		s := r.Summary
		gn.Info("<em>%s</em>: %s of %s features, CRS %s, %s",
			name,
			humanize.Comma(int64(s.FeatureCount)),
			humanize.Comma(int64(r.Filter.Total)),
			crsString(s.CRS),
			gnfmt.TimeString(r.Duration.Seconds()),
		)
		if s.HasBBox() {
			gn.Message("bounding box: %.6f, %.6f, %.6f, %.6f",
				s.BBox.Min[0], s.BBox.Min[1], s.BBox.Max[0], s.BBox.Max[1])
		} else {
			gn.Message("bounding box: undefined")
		}
		if !r.Filter.Matched && r.Filter.Note != "" {
			gn.Message("filter: %s", r.Filter.Note)
		}
		if r.ExportErr != nil {
			gn.Warn("<warn>%s: export failed, statistics kept</warn>", name)
			continue
		}
		for _, o := range r.Outputs {
			gn.Message("saved <em>%s</em>", o)
		}
	}
	fmt.Println(strings.Repeat("─", 60))
}

func crsString(id string) string {
	if id == "" {
		return "undefined"
	}
	return id
}
