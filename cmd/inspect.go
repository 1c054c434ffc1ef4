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
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iovector"
)

// getInspectCmd returns the inspect command.
func getInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect PATH",
		Short: "Show layers, schema and CRS of a vector file",
		Long: `Show what a shapefile, GeoPackage or GeoJSON file contains.

For every layer the command prints the geometry type, the number of
features, the CRS and the attribute columns. Use it to find the layer
name for --stream-layer or --catchment-layer, or the name columns for
datasets.yaml.

Examples:
  geofab inspect data/SH_Network_GDB/SH_Network.gpkg
  geofab inspect output/goulburn_streams.shp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runInspect(args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	return inspectCmd
}

func runInspect(path string) error {
	info, err := iovector.Inspect(path)
	if err != nil {
		return err
	}

	gn.Info("<em>%s</em> (%s)", info.Path, info.Format)
	for i, l := range info.Layers {
		fmt.Printf("\n%d. %s\n", i+1, l.Name)
		fmt.Printf("   geometry: %s\n", l.Geometry)
		fmt.Printf("   features: %s\n", humanize.Comma(int64(l.Features)))
		fmt.Printf("   crs:      %s\n", l.CRS.String())
		fmt.Printf("   columns:  %s\n", strings.Join(l.Columns, ", "))
	}
	return nil
}
