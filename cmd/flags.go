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
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
)

// extractFlags holds the values of the extract command flags.
type extractFlags struct {
	dataDir        string
	outputDir      string
	region         string
	noFilter       bool
	streamLayer    string
	catchmentLayer string
	noPlot         bool
	noOverwrite    bool
	noProgress     bool
	gpkg           bool
	jobs           int
}

// options converts explicitly set flags to config options, so that
// unset flags keep values from config.yaml and the environment.
func (f extractFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	changed := cmd.Flags().Changed

	if changed("data-dir") {
		res = append(res, config.OptDataDir(f.dataDir))
	}
	if changed("output-dir") {
		res = append(res, config.OptOutputDir(f.outputDir))
	}
	if changed("region") {
		res = append(res, config.OptRegion(f.region))
	}
	if changed("no-filter") {
		res = append(res, config.OptFilter(!f.noFilter))
	}
	if changed("stream-layer") {
		res = append(res, config.OptExtractStreamLayer(f.streamLayer))
	}
	if changed("catchment-layer") {
		res = append(res, config.OptExtractCatchmentLayer(f.catchmentLayer))
	}
	if changed("no-plot") {
		res = append(res, config.OptPlot(!f.noPlot))
	}
	if changed("no-overwrite") {
		res = append(res, config.OptOverwrite(!f.noOverwrite))
	}
	if changed("no-progress") {
		res = append(res, config.OptProgress(!f.noProgress))
	}
	if changed("gpkg") {
		res = append(res, config.OptGeoPackage(f.gpkg))
	}
	if changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	return res
}

// parseKinds converts command arguments to dataset kinds. No arguments
// or "all" select every kind.
func parseKinds(args []string) ([]dataset.Kind, error) {
	var res []dataset.Kind
	for _, a := range args {
		if strings.EqualFold(strings.TrimSpace(a), "all") {
			return nil, nil
		}
		k, err := dataset.ParseKind(a)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(res, k) {
			res = append(res, k)
		}
	}
	return res, nil
}
